//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"morphogen/internal/model"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "morphogen.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveTarget(ctx, sampleTarget("pair")); err != nil {
		t.Fatalf("save target: %v", err)
	}
	target, ok, err := store.GetTarget(ctx, "pair")
	if err != nil || !ok {
		t.Fatalf("get target: ok=%t err=%v", ok, err)
	}
	if len(target.Voxels) != 2 || target.Voxels[1].Sensors[0].Dims != 2 {
		t.Fatalf("unexpected target: %+v", target)
	}
	names, err := store.ListTargets(ctx)
	if err != nil || len(names) != 1 || names[0] != "pair" {
		t.Fatalf("unexpected targets: %v %v", names, err)
	}

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, run := range []model.Run{
		{VersionedRecord: Versioned(), ID: "r2", StartedAt: start.Add(time.Second)},
		{VersionedRecord: Versioned(), ID: "r1", StartedAt: start, Succeeded: 3},
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}
	run, ok, err := store.GetRun(ctx, "r1")
	if err != nil || !ok || run.Succeeded != 3 {
		t.Fatalf("unexpected run: %+v ok=%t err=%v", run, ok, err)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil || len(runs) != 2 || runs[0].ID != "r1" {
		t.Fatalf("unexpected runs: %+v err=%v", runs, err)
	}

	if err := store.SavePhenotypes(ctx, "r1", []model.Phenotype{{VersionedRecord: Versioned(), ID: "p0", RunID: "r1"}}); err != nil {
		t.Fatalf("save phenotypes: %v", err)
	}
	phenotypes, ok, err := store.GetPhenotypes(ctx, "r1")
	if err != nil || !ok || len(phenotypes) != 1 || phenotypes[0].ID != "p0" {
		t.Fatalf("unexpected phenotypes: %+v ok=%t err=%v", phenotypes, ok, err)
	}
	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, got ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "morphogen.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := first.SaveTarget(ctx, sampleTarget("kept")); err != nil {
		t.Fatalf("save target: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reinit: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	if _, ok, err := second.GetTarget(ctx, "kept"); err != nil || !ok {
		t.Fatalf("expected target after reopen: ok=%t err=%v", ok, err)
	}
}
