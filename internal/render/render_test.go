package render

import (
	"bytes"
	"strings"
	"testing"

	"morphogen/internal/grid"
	"morphogen/internal/robot"
)

func sampleBody() robot.Body {
	body := grid.New[robot.Voxel](3, 2)
	touch := robot.Sensor{Kind: "t", Dims: 1}
	body.Set(0, 0, robot.NewVoxel(touch, robot.Sensor{Kind: "vxy", Dims: 2}))
	body.Set(1, 0, robot.NewVoxel())
	body.Set(2, 0, robot.NewVoxel(robot.NewConstantSensor(make([]float64, 12)...)))
	body.Set(0, 1, robot.NewVoxel(touch))
	return body
}

func TestMinimap(t *testing.T) {
	got := Minimap(sampleBody())
	want := "30+\n1..\n"
	if got != want {
		t.Fatalf("unexpected minimap: got=%q want=%q", got, want)
	}
}

func TestActuationMap(t *testing.T) {
	values := grid.New[float64](4, 1)
	values.Set(0, 0, -1)
	values.Set(1, 0, 0)
	values.Set(2, 0, 3)
	got := ActuationMap(values)
	want := "▁▅█.\n"
	if got != want {
		t.Fatalf("unexpected actuation map: got=%q want=%q", got, want)
	}
}

func TestPainterWithoutColor(t *testing.T) {
	var out bytes.Buffer
	p := NewPainter(&out)
	if err := p.Body("biped", sampleBody()); err != nil {
		t.Fatalf("paint body: %v", err)
	}
	if got := out.String(); got != "biped 3x2[4]\n30+\n1..\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPainterWithColor(t *testing.T) {
	var out bytes.Buffer
	p := NewPainter(&out)
	p.SetColor(true)
	values := grid.Filled(2, 1, 0.5)
	values.Set(0, 0, -0.5)
	if err := p.Actuation("t=0", values); err != nil {
		t.Fatalf("paint actuation: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[") {
		t.Fatalf("expected escape sequences: %q", out.String())
	}
}
