package assembly

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/codec"
	"morphogen/internal/grid"
	"morphogen/internal/nn"
	"morphogen/internal/robot"
)

// FixedCentralized attaches one function reading every sensor of the target
// body and actuating every voxel.
func FixedCentralized() builder.Builder[nn.Function, *robot.Robot] {
	return builder.Funcs[nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[nn.Function, *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			in, out := robot.CentralizedInputs(b), robot.CentralizedOutputs(b)
			return func(f nn.Function) (*robot.Robot, error) {
				if err := codec.CheckArity(f, in, out); err != nil {
					return nil, err
				}
				c, err := robot.NewCentralizedSensing(robot.CloneBody(b), f.Clone())
				if err != nil {
					return nil, err
				}
				return robot.New(b, c), nil
			}, nil
		},
		Example: func(target *robot.Robot) (nn.Function, error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return nn.NewPrototype(robot.CentralizedInputs(b), robot.CentralizedOutputs(b)), nil
		},
	}
}

// FixedHomoDistributed attaches a copy of one function to every voxel, with
// one block of signals per direction. Every voxel must have the same
// sensor dimension.
func FixedHomoDistributed(signals int) builder.Builder[nn.Function, *robot.Robot] {
	return homoDistributed(signals, true)
}

// FixedHomoNonDirectionalDistributed is FixedHomoDistributed with a single
// block of signals broadcast to every neighbour.
func FixedHomoNonDirectionalDistributed(signals int) builder.Builder[nn.Function, *robot.Robot] {
	return homoDistributed(signals, false)
}

func homoDistributed(signals int, directional bool) builder.Builder[nn.Function, *robot.Robot] {
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
	return builder.Funcs[nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[nn.Function, *robot.Robot], error) {
			b, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return func(f nn.Function) (*robot.Robot, error) {
				if err := codec.CheckArity(f, in, out); err != nil {
					return nil, err
				}
				return distributedRobot(b, cloneAt(b, f), signals, directional)
			}, nil
		},
		Example: func(target *robot.Robot) (nn.Function, error) {
			_, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return nn.NewPrototype(in, out), nil
		},
	}
}

// FixedHeteroDistributed attaches its own function to every voxel; voxels
// may differ in sensor dimension.
func FixedHeteroDistributed(signals int) builder.Builder[*grid.Grid[nn.Function], *robot.Robot] {
	return builder.Funcs[*grid.Grid[nn.Function], *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[*grid.Grid[nn.Function], *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return func(functions *grid.Grid[nn.Function]) (*robot.Robot, error) {
				if err := sameSize(functions, b, "functions"); err != nil {
					return nil, err
				}
				for _, e := range b.Entries() {
					f, ok := functions.Get(e.X, e.Y)
					if !ok {
						return nil, fmt.Errorf("no function for voxel (%d,%d)", e.X, e.Y)
					}
					in, out := robot.DistributedInputs(e.Value.InputDimension(), signals), robot.DistributedOutputs(signals, true)
					if err := codec.CheckArity(f, in, out); err != nil {
						return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, err)
					}
				}
				cloned := grid.Map(b, func(x, y int, _ robot.Voxel) (nn.Function, bool) {
					return functions.Value(x, y).Clone(), true
				})
				return distributedRobot(b, cloned, signals, true)
			}, nil
		},
		Example: func(target *robot.Robot) (*grid.Grid[nn.Function], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return grid.Map(b, func(_, _ int, v robot.Voxel) (nn.Function, bool) {
				return nn.NewPrototype(robot.DistributedInputs(v.InputDimension(), signals), robot.DistributedOutputs(signals, true)), true
			}), nil
		},
	}
}

// cloneAt gives every voxel of b its own copy of f.
func cloneAt(b robot.Body, f nn.Function) *grid.Grid[nn.Function] {
	return grid.Map(b, func(_, _ int, _ robot.Voxel) (nn.Function, bool) { return f.Clone(), true })
}

func distributedRobot(b robot.Body, functions *grid.Grid[nn.Function], signals int, directional bool) (*robot.Robot, error) {
	c, err := robot.NewDistributedSensing(robot.CloneBody(b), functions, signals, directional)
	if err != nil {
		return nil, err
	}
	return robot.New(b, c), nil
}
