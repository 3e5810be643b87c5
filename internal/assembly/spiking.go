package assembly

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/robot"
	"morphogen/internal/snn"
)

// Converters pairs the encoder of sensor readings with the decoder of the
// actuation spike train.
type Converters struct {
	Encoder snn.Encoder
	Decoder snn.Decoder
}

func (c Converters) orDefault() Converters {
	if c.Encoder == nil {
		c.Encoder = snn.NewUniformEncoder(snn.DefaultMaxFrequency, false)
	}
	if c.Decoder == nil {
		c.Decoder = snn.NewAverageDecoder(snn.DefaultMaxFrequency)
	}
	return c
}

func checkSpikingArity(f snn.MultivariateFunction, in, out int) error {
	if f.InputDimension() != in {
		return builder.Mismatch("function inputs", in, f.InputDimension())
	}
	if f.OutputDimension() != out {
		return builder.Mismatch("function outputs", out, f.OutputDimension())
	}
	return nil
}

// FixedHomoSpikingDistributed attaches a copy of one spiking function to
// every voxel.
func FixedHomoSpikingDistributed(signals int, directional bool, conv Converters) builder.Builder[snn.MultivariateFunction, *robot.Robot] {
	conv = conv.orDefault()
	shape := func(target *robot.Robot) (robot.Body, int, int, error) {
		b, err := body(target)
		if err != nil {
			return nil, 0, 0, err
		}
		dims, err := homoInputs(b)
		if err != nil {
			return nil, 0, 0, err
		}
		return b, robot.DistributedInputs(dims, signals), robot.DistributedOutputs(signals, directional), nil
	}
	return builder.Funcs[snn.MultivariateFunction, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[snn.MultivariateFunction, *robot.Robot], error) {
			b, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return func(f snn.MultivariateFunction) (*robot.Robot, error) {
				if err := checkSpikingArity(f, in, out); err != nil {
					return nil, err
				}
				functions := grid.Map(b, func(_, _ int, _ robot.Voxel) (snn.MultivariateFunction, bool) { return f.Clone(), true })
				return spikingRobot(b, functions, signals, directional, conv)
			}, nil
		},
		Example: func(target *robot.Robot) (snn.MultivariateFunction, error) {
			_, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return snn.Prototype{In: in, Out: out}, nil
		},
	}
}

// FixedHeteroSpikingDistributed attaches its own spiking function to every
// voxel.
func FixedHeteroSpikingDistributed(signals int, conv Converters) builder.Builder[*grid.Grid[snn.MultivariateFunction], *robot.Robot] {
	conv = conv.orDefault()
	return builder.Funcs[*grid.Grid[snn.MultivariateFunction], *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[*grid.Grid[snn.MultivariateFunction], *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return func(functions *grid.Grid[snn.MultivariateFunction]) (*robot.Robot, error) {
				if err := sameSize(functions, b, "functions"); err != nil {
					return nil, err
				}
				for _, e := range b.Entries() {
					f, ok := functions.Get(e.X, e.Y)
					if !ok {
						return nil, fmt.Errorf("no function for voxel (%d,%d)", e.X, e.Y)
					}
					in, out := robot.DistributedInputs(e.Value.InputDimension(), signals), robot.DistributedOutputs(signals, true)
					if err := checkSpikingArity(f, in, out); err != nil {
						return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, err)
					}
				}
				cloned := grid.Map(b, func(x, y int, _ robot.Voxel) (snn.MultivariateFunction, bool) {
					return functions.Value(x, y).Clone(), true
				})
				return spikingRobot(b, cloned, signals, true, conv)
			}, nil
		},
		Example: func(target *robot.Robot) (*grid.Grid[snn.MultivariateFunction], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return grid.Map(b, func(_, _ int, v robot.Voxel) (snn.MultivariateFunction, bool) {
				return snn.Prototype{In: robot.DistributedInputs(v.InputDimension(), signals), Out: robot.DistributedOutputs(signals, true)}, true
			}), nil
		},
	}
}

func spikingRobot(b robot.Body, functions *grid.Grid[snn.MultivariateFunction], signals int, directional bool, conv Converters) (*robot.Robot, error) {
	c, err := robot.NewSpikingDistributedSensing(robot.CloneBody(b), functions, signals, directional, conv.Encoder, conv.Decoder)
	if err != nil {
		return nil, err
	}
	return robot.New(b, c), nil
}
