package robot

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/snn"
)

// SpikingDistributedSensing is the spiking counterpart of
// DistributedSensing: sensor readings are encoded into spike trains,
// neighbour signals travel as spike trains and only the actuation channel
// is decoded back to a real value.
type SpikingDistributedSensing struct {
	body        Body
	functions   *grid.Grid[snn.MultivariateFunction]
	signals     int
	directional bool
	encoder     snn.Encoder
	decoder     snn.Decoder
	resolution  int

	encoders *grid.Grid[[]snn.Encoder]
	decoders *grid.Grid[snn.Decoder]
	last     *grid.Grid[[]snn.SpikeTrain]
	lastT    float64
}

func NewSpikingDistributedSensing(body Body, functions *grid.Grid[snn.MultivariateFunction], signals int, directional bool, encoder snn.Encoder, decoder snn.Decoder) (*SpikingDistributedSensing, error) {
	if !grid.SameShape(body, functions) {
		return nil, fmt.Errorf("functions grid is %dx%d, body is %dx%d", functions.W(), functions.H(), body.W(), body.H())
	}
	for _, e := range body.Entries() {
		f, ok := functions.Get(e.X, e.Y)
		if !ok {
			return nil, fmt.Errorf("no function for voxel (%d,%d)", e.X, e.Y)
		}
		if in := DistributedInputs(e.Value.InputDimension(), signals); f.InputDimension() != in {
			return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, builder.Mismatch("function inputs", in, f.InputDimension()))
		}
		if out := DistributedOutputs(signals, directional); f.OutputDimension() != out {
			return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, builder.Mismatch("function outputs", out, f.OutputDimension()))
		}
	}
	s := &SpikingDistributedSensing{
		body:        body,
		functions:   functions,
		signals:     signals,
		directional: directional,
		encoder:     encoder,
		decoder:     decoder,
		resolution:  snn.DefaultResolution,
	}
	s.Reset()
	return s, nil
}

func (s *SpikingDistributedSensing) Kind() string {
	if s.directional {
		return "spiking-distributed"
	}
	return "spiking-distributed-nondirectional"
}

func (s *SpikingDistributedSensing) Functions() *grid.Grid[snn.MultivariateFunction] {
	return s.functions
}

// Reset clears membranes, converters and pending signals.
func (s *SpikingDistributedSensing) Reset() {
	s.functions = s.functions.Clone(snn.MultivariateFunction.Clone)
	s.encoders = grid.Map(s.body, func(_, _ int, v Voxel) ([]snn.Encoder, bool) {
		encs := make([]snn.Encoder, v.InputDimension())
		for i := range encs {
			encs[i] = s.encoder.Clone()
		}
		return encs, true
	})
	s.decoders = grid.Map(s.body, func(_, _ int, _ Voxel) (snn.Decoder, bool) { return s.decoder.Clone(), true })
	s.last = grid.New[[]snn.SpikeTrain](s.body.W(), s.body.H())
	s.lastT = 0
}

func (s *SpikingDistributedSensing) incoming(x, y int) []snn.SpikeTrain {
	out := make([]snn.SpikeTrain, 0, len(grid.Directions)*s.signals)
	for _, d := range grid.Directions {
		nx, ny := d.Step(x, y)
		if !s.last.InBounds(nx, ny) || !s.last.Present(nx, ny) {
			for range s.signals {
				out = append(out, make(snn.SpikeTrain, s.resolution))
			}
			continue
		}
		emitted := s.last.Value(nx, ny)
		if s.directional {
			o := int(d.Opposite())
			emitted = emitted[o*s.signals : (o+1)*s.signals]
		}
		out = append(out, emitted...)
	}
	return out
}

func (s *SpikingDistributedSensing) Control(t float64, readings *grid.Grid[[]float64]) (*grid.Grid[float64], error) {
	if err := checkReadings(s.body, readings); err != nil {
		return nil, err
	}
	w := snn.Window{Start: s.lastT, End: t, Resolution: s.resolution}
	s.lastT = t
	out := grid.New[float64](s.body.W(), s.body.H())
	emitted := grid.New[[]snn.SpikeTrain](s.body.W(), s.body.H())
	for _, e := range s.body.Entries() {
		encs := s.encoders.Value(e.X, e.Y)
		input := make([]snn.SpikeTrain, 0, DistributedInputs(len(encs), s.signals))
		for i, v := range readings.Value(e.X, e.Y) {
			input = append(input, encs[i].Encode(v, w))
		}
		input = append(input, s.incoming(e.X, e.Y)...)
		trains, err := s.functions.Value(e.X, e.Y).Apply(t, input)
		if err != nil {
			return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, err)
		}
		out.Set(e.X, e.Y, s.decoders.Value(e.X, e.Y).Decode(trains[0], w))
		emitted.Set(e.X, e.Y, trains[1:])
	}
	s.last = emitted
	return out, nil
}

func (s *SpikingDistributedSensing) Clone() Controller {
	c := &SpikingDistributedSensing{
		body:        CloneBody(s.body),
		functions:   s.functions,
		signals:     s.signals,
		directional: s.directional,
		encoder:     s.encoder,
		decoder:     s.decoder,
		resolution:  s.resolution,
	}
	c.Reset()
	return c
}
