package assembly

import (
	"morphogen/internal/builder"
	"morphogen/internal/codec"
	"morphogen/internal/grid"
	"morphogen/internal/morphogenesis"
	"morphogen/internal/nn"
	"morphogen/internal/robot"
)

// BodyAndHomoDistributed builds both body and brain from a pair of
// functions. The first, 2->1, is sampled over the target grid as a
// material field and carved into a body of copies of the first target
// voxel; the second is the homogeneous distributed brain.
func BodyAndHomoDistributed(signals int, percentile float64) builder.Builder[[]nn.Function, *robot.Robot] {
	shape := func(target *robot.Robot) (robot.Body, robot.Voxel, int, int, error) {
		b, err := body(target)
		if err != nil {
			return nil, robot.Voxel{}, 0, 0, err
		}
		proto, err := robot.FirstVoxel(b)
		if err != nil {
			return nil, robot.Voxel{}, 0, 0, err
		}
		return b, proto, robot.DistributedInputs(proto.InputDimension(), signals), robot.DistributedOutputs(signals, true), nil
	}
	return builder.Funcs[[]nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[[]nn.Function, *robot.Robot], error) {
			b, proto, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			w, h := b.W(), b.H()
			return func(functions []nn.Function) (*robot.Robot, error) {
				if err := checkPair(functions); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[0], 2, 1); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[1], in, out); err != nil {
					return nil, err
				}
				field, err := morphogenesis.Sample(functions[0], w, h)
				if err != nil {
					return nil, err
				}
				cells := morphogenesis.Develop(field, morphogenesis.Config{Percentile: percentile})
				developed := grid.Map(cells, func(_, _ int, _ morphogenesis.Cell) (robot.Voxel, bool) { return proto.Clone(), true })
				return distributedRobot(developed, cloneAt(developed, functions[1]), signals, true)
			}, nil
		},
		Example: func(target *robot.Robot) ([]nn.Function, error) {
			_, _, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return []nn.Function{nn.NewPrototype(2, 1), nn.NewPrototype(in, out)}, nil
		},
	}
}

// SensorAndBodyAndHomoDistributed is BodyAndHomoDistributed where the body
// function has one output per prototype sensor: the maximum output is the
// material value and its index selects the single sensor of the voxel.
// With positions, every voxel also carries a constant sensor reading its
// normalised position in the developed body.
func SensorAndBodyAndHomoDistributed(signals int, percentile float64, positions bool) builder.Builder[[]nn.Function, *robot.Robot] {
	shape := func(target *robot.Robot) (robot.Body, []robot.Sensor, int, int, error) {
		b, err := body(target)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		sensors, err := prototypeSensors(b)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		dims := sensors[0].Dims
		if positions {
			dims += 2
		}
		return b, sensors, robot.DistributedInputs(dims, signals), robot.DistributedOutputs(signals, true), nil
	}
	return builder.Funcs[[]nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[[]nn.Function, *robot.Robot], error) {
			b, sensors, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			w, h := b.W(), b.H()
			return func(functions []nn.Function) (*robot.Robot, error) {
				if err := checkPair(functions); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[0], 2, len(sensors)); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[1], in, out); err != nil {
					return nil, err
				}
				field, err := morphogenesis.Sample(functions[0], w, h)
				if err != nil {
					return nil, err
				}
				cells := morphogenesis.Develop(field, morphogenesis.Config{
					Percentile:       percentile,
					Layout:           morphogenesis.MaxChannelMaterial,
					PositionEncoding: positions,
				})
				cw, ch := cells.W(), cells.H()
				developed := grid.Map(cells, func(x, y int, c morphogenesis.Cell) (robot.Voxel, bool) {
					available := sensors
					rx, ry := x*w/cw, y*h/ch
					if v, ok := b.Get(rx, ry); ok && c.Capability < len(v.Sensors) {
						available = v.Sensors
					}
					voxel := robot.NewVoxel(available[c.Capability].Clone())
					if positions {
						voxel.Sensors = append(voxel.Sensors, robot.NewConstantSensor(c.Position...))
					}
					return voxel, true
				})
				return distributedRobot(developed, cloneAt(developed, functions[1]), signals, true)
			}, nil
		},
		Example: func(target *robot.Robot) ([]nn.Function, error) {
			_, sensors, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return []nn.Function{nn.NewPrototype(2, len(sensors)), nn.NewPrototype(in, out)}, nil
		},
	}
}

// SensorCentralized keeps the target body shape and gives every voxel the
// single sensor picked by a 2->sensors function sampled at the voxel
// position, then attaches a centralized brain over the chosen sensors.
func SensorCentralized() builder.Builder[[]nn.Function, *robot.Robot] {
	shape := func(target *robot.Robot) (robot.Body, []robot.Sensor, int, int, error) {
		b, err := body(target)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		sensors, err := prototypeSensors(b)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		n := b.Count()
		return b, sensors, n * sensors[0].Dims, n, nil
	}
	return builder.Funcs[[]nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[[]nn.Function, *robot.Robot], error) {
			b, sensors, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return func(functions []nn.Function) (*robot.Robot, error) {
				if err := checkPair(functions); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[0], 2, len(sensors)); err != nil {
					return nil, err
				}
				if err := codec.CheckArity(functions[1], in, out); err != nil {
					return nil, err
				}
				field, err := morphogenesis.Sample(functions[0], b.W(), b.H())
				if err != nil {
					return nil, err
				}
				sensorized := grid.Map(b, func(x, y int, v robot.Voxel) (robot.Voxel, bool) {
					i := max(nn.ArgMax(field.Value(x, y)), 0)
					available := v.Sensors
					if i >= len(available) {
						available = sensors
					}
					return robot.NewVoxel(available[i].Clone()), true
				})
				c, err := robot.NewCentralizedSensing(robot.CloneBody(sensorized), functions[1].Clone())
				if err != nil {
					return nil, err
				}
				return robot.New(sensorized, c), nil
			}, nil
		},
		Example: func(target *robot.Robot) ([]nn.Function, error) {
			_, sensors, in, out, err := shape(target)
			if err != nil {
				return nil, err
			}
			return []nn.Function{nn.NewPrototype(2, len(sensors)), nn.NewPrototype(in, out)}, nil
		},
	}
}
