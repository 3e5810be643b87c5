// Package robot models voxel-based soft robots as seen by the mapping layer:
// a grid of sensing voxels and a controller turning per-voxel sensor readings
// into per-voxel actuation.
package robot

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
)

// Sensor describes one sensor mounted on a voxel. Only its dimension matters
// for shape negotiation; Constant sensors carry their fixed readings.
type Sensor struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Dims     int       `json:"dims" yaml:"dims"`
	Constant []float64 `json:"constant,omitempty" yaml:"constant,omitempty"`
}

// ConstantKind marks sensors that always read their Constant values.
const ConstantKind = "const"

// NewConstantSensor returns a sensor always reading values.
func NewConstantSensor(values ...float64) Sensor {
	return Sensor{Kind: ConstantKind, Dims: len(values), Constant: append([]float64(nil), values...)}
}

func (s Sensor) Clone() Sensor {
	s.Constant = append([]float64(nil), s.Constant...)
	if len(s.Constant) == 0 {
		s.Constant = nil
	}
	return s
}

type Voxel struct {
	Sensors []Sensor `json:"sensors" yaml:"sensors"`
}

func NewVoxel(sensors ...Sensor) Voxel {
	return Voxel{Sensors: sensors}
}

// InputDimension is the total number of readings produced by the sensors.
func (v Voxel) InputDimension() int {
	n := 0
	for _, s := range v.Sensors {
		n += s.Dims
	}
	return n
}

func (v Voxel) Clone() Voxel {
	out := Voxel{Sensors: make([]Sensor, len(v.Sensors))}
	for i, s := range v.Sensors {
		out.Sensors[i] = s.Clone()
	}
	return out
}

// Idle returns the readings of the voxel at rest: zeros, except for constant
// sensors.
func (v Voxel) Idle() []float64 {
	out := make([]float64, 0, v.InputDimension())
	for _, s := range v.Sensors {
		if s.Kind == ConstantKind && len(s.Constant) == s.Dims {
			out = append(out, s.Constant...)
			continue
		}
		out = append(out, make([]float64, s.Dims)...)
	}
	return out
}

type Body = *grid.Grid[Voxel]

// CloneBody deep copies a body.
func CloneBody(b Body) Body {
	return b.Clone(Voxel.Clone)
}

// FirstVoxel returns the first voxel of b in grid order, or an
// EmptyTargetError when b has none.
func FirstVoxel(b Body) (Voxel, error) {
	e, ok := b.First()
	if !ok {
		return Voxel{}, &builder.EmptyTargetError{Reason: "no voxels"}
	}
	return e.Value, nil
}

// Controller turns per-voxel sensor readings into per-voxel actuation.
// Controllers may hold state between steps and must be cloned per robot.
type Controller interface {
	Kind() string
	Control(t float64, readings *grid.Grid[[]float64]) (*grid.Grid[float64], error)
	Reset()
	Clone() Controller
}

type Robot struct {
	Body       Body
	Controller Controller
}

// New returns a robot with a copy of body.
func New(body Body, controller Controller) *Robot {
	return &Robot{Body: CloneBody(body), Controller: controller}
}

// Prototype returns a controller-less robot usable as a mapping target.
func Prototype(body Body) *Robot {
	return &Robot{Body: body}
}

func (r *Robot) Clone() *Robot {
	out := &Robot{Body: CloneBody(r.Body)}
	if r.Controller != nil {
		out.Controller = r.Controller.Clone()
	}
	return out
}

// IdleReadings returns the rest readings of every voxel.
func (r *Robot) IdleReadings() *grid.Grid[[]float64] {
	return grid.Map(r.Body, func(_, _ int, v Voxel) ([]float64, bool) { return v.Idle(), true })
}

// Step runs the controller once.
func (r *Robot) Step(t float64, readings *grid.Grid[[]float64]) (*grid.Grid[float64], error) {
	if r.Controller == nil {
		return nil, fmt.Errorf("robot has no controller")
	}
	return r.Controller.Control(t, readings)
}

// checkReadings validates readings against body: same size and, for every
// voxel, as many readings as its sensors produce.
func checkReadings(body Body, readings *grid.Grid[[]float64]) error {
	if readings.W() != body.W() || readings.H() != body.H() {
		return fmt.Errorf("readings grid is %dx%d, body is %dx%d", readings.W(), readings.H(), body.W(), body.H())
	}
	for _, e := range body.Entries() {
		r, _ := readings.Get(e.X, e.Y)
		if len(r) != e.Value.InputDimension() {
			return fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, builder.Mismatch("readings", e.Value.InputDimension(), len(r)))
		}
	}
	return nil
}
