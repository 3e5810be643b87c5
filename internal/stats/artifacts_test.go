package stats

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"morphogen/internal/model"
)

func samplePhenotypes() []model.Phenotype {
	return []model.Phenotype{
		{ID: "a", Index: 0, Controller: "distributed", Width: 3, Height: 2, Voxels: 5, Sensors: 10, Minimap: "222\n2.2\n"},
		{ID: "b", Index: 1, Error: "wrong number of weights"},
		{ID: "c", Index: 2, Controller: "distributed", Width: 1, Height: 1, Voxels: 1, Sensors: 2, Minimap: "2\n"},
		{ID: "d", Index: 3, Controller: "centralized", Width: 2, Height: 1, Voxels: 2, Sensors: 4, Minimap: "22\n"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(samplePhenotypes())
	if s.Total != 4 || s.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.ByController["distributed"] != 2 || s.ByController["centralized"] != 1 {
		t.Fatalf("unexpected controllers: %+v", s.ByController)
	}
	if s.MinVoxels != 1 || s.MaxVoxels != 5 || s.MeanVoxels != 8.0/3 {
		t.Fatalf("unexpected voxel stats: %+v", s)
	}
	if s.Errors["wrong number of weights"] != 1 {
		t.Fatalf("unexpected errors: %+v", s.Errors)
	}
	if got := s.Controllers(); len(got) != 2 || got[0] != "centralized" {
		t.Fatalf("unexpected controller order: %v", got)
	}

	empty := Summarize(nil)
	if empty.Total != 0 || empty.MeanVoxels != 0 || empty.Errors != nil {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestWriteRunArtifacts(t *testing.T) {
	base := t.TempDir()
	run := model.Run{ID: "run-1", Pipeline: "fixedHomoDist-1<MLP-1-1", Requested: 4, Succeeded: 3, Failed: 1, StartedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	dir, err := WriteRunArtifacts(base, run, samplePhenotypes())
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if dir != filepath.Join(base, "run-1") {
		t.Fatalf("unexpected run dir: %s", dir)
	}

	loaded, ok, err := ReadRun(base, "run-1")
	if err != nil || !ok {
		t.Fatalf("read run: ok=%t err=%v", ok, err)
	}
	if loaded.Pipeline != run.Pipeline || loaded.Failed != 1 {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	f, err := os.Open(filepath.Join(dir, "phenotypes.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 5 || rows[0][0] != "index" || rows[2][7] != "wrong number of weights" || rows[1][5] != "5" {
		t.Fatalf("unexpected csv rows: %v", rows)
	}

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Failed != 1 || summary.MaxVoxels != 5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	minimaps, err := os.ReadFile(filepath.Join(dir, "minimaps.txt"))
	if err != nil {
		t.Fatalf("read minimaps: %v", err)
	}
	if !strings.HasPrefix(string(minimaps), "#0 distributed 3x2\n222\n2.2\n") || strings.Contains(string(minimaps), "#1") {
		t.Fatalf("unexpected minimaps: %q", minimaps)
	}
}

func TestWriteRunArtifactsRequiresID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), model.Run{}, nil); err == nil {
		t.Fatal("expected run id error")
	}
	if _, ok, err := ReadRun(t.TempDir(), "missing"); ok || err != nil {
		t.Fatalf("expected missing run, got ok=%t err=%v", ok, err)
	}
}
