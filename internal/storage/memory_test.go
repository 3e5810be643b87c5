package storage

import (
	"context"
	"testing"
	"time"

	"morphogen/internal/model"
)

func sampleTarget(name string) model.Target {
	return model.Target{
		VersionedRecord: Versioned(),
		Name:            name,
		Width:           2,
		Height:          1,
		Voxels: []model.Voxel{
			{X: 0, Y: 0, Sensors: []model.Sensor{{Kind: "t", Dims: 1}}},
			{X: 1, Y: 0, Sensors: []model.Sensor{{Kind: "const", Dims: 2, Constant: []float64{0.5, 1}}}},
		},
	}
}

func TestMemoryStoreTargetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	target := sampleTarget("pair")
	if err := store.SaveTarget(ctx, target); err != nil {
		t.Fatalf("save target: %v", err)
	}
	target.Voxels[1].Sensors[0].Constant[0] = 9

	loaded, ok, err := store.GetTarget(ctx, "pair")
	if err != nil {
		t.Fatalf("get target: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted target")
	}
	if loaded.Voxels[1].Sensors[0].Constant[0] != 0.5 {
		t.Fatalf("expected stored target to be independent of caller: %+v", loaded)
	}

	loaded.Voxels[0].Sensors[0].Kind = "changed"
	again, _, _ := store.GetTarget(ctx, "pair")
	if again.Voxels[0].Sensors[0].Kind != "t" {
		t.Fatal("expected get to return a copy")
	}

	if _, ok, err := store.GetTarget(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing target, got ok=%t err=%v", ok, err)
	}

	if err := store.SaveTarget(ctx, sampleTarget("a-first")); err != nil {
		t.Fatalf("save target: %v", err)
	}
	names, err := store.ListTargets(ctx)
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}
	if len(names) != 2 || names[0] != "a-first" || names[1] != "pair" {
		t.Fatalf("unexpected target names: %v", names)
	}
}

func TestMemoryStoreRunsAndPhenotypes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	late := model.Run{VersionedRecord: Versioned(), ID: "r2", Pipeline: "fixedPhases-1", StartedAt: start.Add(time.Minute)}
	early := model.Run{VersionedRecord: Versioned(), ID: "r1", Pipeline: "fixedCentralized<MLP-1-1", StartedAt: start, Requested: 2, Succeeded: 1, Failed: 1}
	for _, run := range []model.Run{late, early} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	got, ok, err := store.GetRun(ctx, "r1")
	if err != nil || !ok || got.Failed != 1 {
		t.Fatalf("unexpected run: %+v ok=%t err=%v", got, ok, err)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "r1" || runs[1].ID != "r2" {
		t.Fatalf("unexpected run order: %+v", runs)
	}

	phenotypes := []model.Phenotype{
		{VersionedRecord: Versioned(), ID: "p0", RunID: "r1", Index: 0, Controller: "centralized", Voxels: 3},
		{VersionedRecord: Versioned(), ID: "p1", RunID: "r1", Index: 1, Error: "wrong number of weights"},
	}
	if err := store.SavePhenotypes(ctx, "r1", phenotypes); err != nil {
		t.Fatalf("save phenotypes: %v", err)
	}
	phenotypes[0].Controller = "changed"

	loaded, ok, err := store.GetPhenotypes(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("get phenotypes: ok=%t err=%v", ok, err)
	}
	if len(loaded) != 2 || loaded[0].Controller != "centralized" || loaded[1].Error == "" {
		t.Fatalf("unexpected phenotypes: %+v", loaded)
	}
	if _, ok, _ := store.GetPhenotypes(ctx, "r9"); ok {
		t.Fatal("expected no phenotypes for unknown run")
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveTarget(context.Background(), sampleTarget("x")); err == nil {
		t.Fatal("expected error before init")
	}
}
