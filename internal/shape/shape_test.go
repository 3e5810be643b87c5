package shape

import (
	"errors"
	"testing"

	"morphogen/internal/grid"
)

func rows(g *grid.Grid[bool]) []string {
	out := make([]string, g.H())
	for y := range g.H() {
		line := make([]byte, g.W())
		for x := range g.W() {
			line[x] = '.'
			if g.Present(x, y) {
				line[x] = '#'
			}
		}
		out[y] = string(line)
	}
	return out
}

func TestParseShapes(t *testing.T) {
	cases := map[string][]string{
		"box-3x2":    {"###", "###"},
		"worm-5x1":   {"#####"},
		"biped-4x3":  {"####", "####", "#..#"},
		"comb-5x2":   {"#####", "#.#.#"},
		"tripod-5x3": {"#####", "#.#.#", "#.#.#"},
	}
	for name, want := range cases {
		g, err := Parse(name)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		got := rows(g)
		if len(got) != len(want) {
			t.Fatalf("%s: unexpected rows got=%v want=%v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: unexpected rows got=%v want=%v", name, got, want)
			}
		}
	}
}

func TestParseRejectsUnknownShapes(t *testing.T) {
	for _, name := range []string{"blob-3x3", "box", "box-0x2", "box-3by2"} {
		if _, err := Parse(name); !errors.Is(err, ErrUnknownShape) {
			t.Fatalf("%s: expected ErrUnknownShape, got %v", name, err)
		}
	}
}

func TestSensorizeUniform(t *testing.T) {
	body, err := Build("biped-4x3", "uniform-t+a+vxy-0.01")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if body.Count() != 10 {
		t.Fatalf("unexpected voxel count: got=%d", body.Count())
	}
	for _, v := range body.Values() {
		if v.InputDimension() != 4 || len(v.Sensors) != 3 {
			t.Fatalf("unexpected voxel sensors: %+v", v)
		}
	}
	first := body.Value(0, 0)
	first.Sensors[0].Kind = "changed"
	if body.Value(1, 0).Sensors[0].Kind != "t" {
		t.Fatal("expected voxels to own their sensors")
	}
}

func TestSensorizeSpined(t *testing.T) {
	body, err := Build("box-2x3", "spined-vxy+r")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := body.Value(0, 0).InputDimension(); got != 4 {
		t.Fatalf("unexpected spine dimension: got=%d", got)
	}
	if got := body.Value(0, 1).InputDimension(); got != 1 {
		t.Fatalf("unexpected inner dimension: got=%d", got)
	}
	if got := body.Value(1, 2).InputDimension(); got != 2 {
		t.Fatalf("unexpected ground dimension: got=%d", got)
	}
}

func TestSensorizeEmptyAndUnknown(t *testing.T) {
	body, err := Build("worm-3x1", "empty")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if body.Count() != 3 || body.Value(2, 0).InputDimension() != 0 {
		t.Fatalf("unexpected empty body: %v", body)
	}
	if _, err := Build("worm-3x1", "uniform-t+zz"); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("expected ErrUnknownSensor, got %v", err)
	}
	if _, err := Build("worm-3x1", "random"); !errors.Is(err, ErrUnknownSensorConfig) {
		t.Fatalf("expected ErrUnknownSensorConfig, got %v", err)
	}
}

func TestRegisterSensor(t *testing.T) {
	if err := RegisterSensor("t", 1); !errors.Is(err, ErrSensorExists) {
		t.Fatalf("expected ErrSensorExists, got %v", err)
	}
	if err := RegisterSensor("lidar", 0); err == nil {
		t.Fatal("expected dimension error")
	}
	if err := RegisterSensor("test-lidar", 5); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := NewSensor("test-lidar")
	if err != nil || s.Dims != 5 {
		t.Fatalf("unexpected sensor: %+v %v", s, err)
	}
}
