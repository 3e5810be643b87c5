package robot

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/nn"
)

// DistributedInputs is the input dimension of the function of a voxel with
// sensorDims readings exchanging signals values per neighbour.
func DistributedInputs(sensorDims, signals int) int {
	return sensorDims + len(grid.Directions)*signals
}

// DistributedOutputs is the output dimension of a distributed voxel
// function: one actuation value plus the emitted signals, either one block
// per direction or a single broadcast block.
func DistributedOutputs(signals int, directional bool) int {
	if directional {
		return 1 + len(grid.Directions)*signals
	}
	return 1 + signals
}

// signalExchange holds the signals emitted by every voxel at the previous
// step and assembles the neighbour inputs of the next one.
type signalExchange struct {
	signals     int
	directional bool
	last        *grid.Grid[[]float64]
}

func newSignalExchange(w, h, signals int, directional bool) *signalExchange {
	return &signalExchange{signals: signals, directional: directional, last: grid.New[[]float64](w, h)}
}

// incoming returns the signals received by (x, y): for every direction, the
// block the neighbour there sent back towards (x, y), or zeros.
func (s *signalExchange) incoming(x, y int) []float64 {
	out := make([]float64, 0, len(grid.Directions)*s.signals)
	for _, d := range grid.Directions {
		nx, ny := d.Step(x, y)
		if !s.last.InBounds(nx, ny) || !s.last.Present(nx, ny) {
			out = append(out, make([]float64, s.signals)...)
			continue
		}
		out = append(out, s.block(s.last.Value(nx, ny), d.Opposite())...)
	}
	return out
}

func (s *signalExchange) block(emitted []float64, d grid.Direction) []float64 {
	if !s.directional {
		return emitted
	}
	return emitted[int(d)*s.signals : int(d+1)*s.signals]
}

func (s *signalExchange) reset() {
	s.last = grid.New[[]float64](s.last.W(), s.last.H())
}

// DistributedSensing runs one function per voxel. Each function reads the
// voxel sensors followed by the signals of its four neighbours, and emits
// the voxel actuation followed by its own signals.
type DistributedSensing struct {
	body      Body
	functions *grid.Grid[nn.Function]
	exchange  *signalExchange
}

// NewDistributedSensing checks every voxel function against its voxel and
// returns the controller.
func NewDistributedSensing(body Body, functions *grid.Grid[nn.Function], signals int, directional bool) (*DistributedSensing, error) {
	if err := checkDistributedFunctions(body, functions, signals, directional); err != nil {
		return nil, err
	}
	return &DistributedSensing{
		body:      body,
		functions: functions,
		exchange:  newSignalExchange(body.W(), body.H(), signals, directional),
	}, nil
}

func checkDistributedFunctions(body Body, functions *grid.Grid[nn.Function], signals int, directional bool) error {
	if !grid.SameShape(body, functions) {
		return fmt.Errorf("functions grid is %dx%d, body is %dx%d", functions.W(), functions.H(), body.W(), body.H())
	}
	for _, e := range body.Entries() {
		f, ok := functions.Get(e.X, e.Y)
		if !ok {
			return fmt.Errorf("no function for voxel (%d,%d)", e.X, e.Y)
		}
		if in := DistributedInputs(e.Value.InputDimension(), signals); f.InputDimension() != in {
			return fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, builder.Mismatch("function inputs", in, f.InputDimension()))
		}
		if out := DistributedOutputs(signals, directional); f.OutputDimension() != out {
			return fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, builder.Mismatch("function outputs", out, f.OutputDimension()))
		}
	}
	return nil
}

func (d *DistributedSensing) Kind() string {
	if d.exchange.directional {
		return "distributed"
	}
	return "distributed-nondirectional"
}

func (d *DistributedSensing) Signals() int                       { return d.exchange.signals }
func (d *DistributedSensing) Directional() bool                  { return d.exchange.directional }
func (d *DistributedSensing) Functions() *grid.Grid[nn.Function] { return d.functions }

func (d *DistributedSensing) Control(t float64, readings *grid.Grid[[]float64]) (*grid.Grid[float64], error) {
	if err := checkReadings(d.body, readings); err != nil {
		return nil, err
	}
	out := grid.New[float64](d.body.W(), d.body.H())
	emitted := grid.New[[]float64](d.body.W(), d.body.H())
	for _, e := range d.body.Entries() {
		input := append(append([]float64(nil), readings.Value(e.X, e.Y)...), d.exchange.incoming(e.X, e.Y)...)
		v, err := d.functions.Value(e.X, e.Y).Apply(t, input)
		if err != nil {
			return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, err)
		}
		out.Set(e.X, e.Y, v[0])
		emitted.Set(e.X, e.Y, v[1:])
	}
	d.exchange.last = emitted
	return out, nil
}

func (d *DistributedSensing) Reset() {
	d.exchange.reset()
	d.functions = d.functions.Clone(nn.Function.Clone)
}

func (d *DistributedSensing) Clone() Controller {
	return &DistributedSensing{
		body:      CloneBody(d.body),
		functions: d.functions.Clone(nn.Function.Clone),
		exchange:  newSignalExchange(d.body.W(), d.body.H(), d.exchange.signals, d.exchange.directional),
	}
}
