package assembly

import (
	"fmt"
	"math"

	"morphogen/internal/builder"
	"morphogen/internal/codec"
	"morphogen/internal/grid"
	"morphogen/internal/morphogenesis"
	"morphogen/internal/nn"
	"morphogen/internal/robot"
)

// FixedPhaseValues gives every voxel, in grid order, its own phase of a
// shared sinusoid.
func FixedPhaseValues(frequency, amplitude float64) builder.Builder[[]float64, *robot.Robot] {
	return builder.Funcs[[]float64, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[[]float64, *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			entries := b.Entries()
			return func(values []float64) (*robot.Robot, error) {
				if len(values) != len(entries) {
					return nil, builder.Mismatch("phases", len(entries), len(values))
				}
				phases := grid.New[float64](b.W(), b.H())
				for i, e := range entries {
					phases.Set(e.X, e.Y, values[i])
				}
				return robot.New(b, robot.NewPhaseSin(frequency, amplitude, phases)), nil
			}, nil
		},
		Example: func(target *robot.Robot) ([]float64, error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return make([]float64, b.Count()), nil
		},
	}
}

// FixedPhaseFunction samples a 2->1 function at (x/W, y/H) to obtain the
// phase of every voxel.
func FixedPhaseFunction(frequency, amplitude float64) builder.Builder[nn.Function, *robot.Robot] {
	return builder.Funcs[nn.Function, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[nn.Function, *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return func(f nn.Function) (*robot.Robot, error) {
				if err := codec.CheckArity(f, 2, 1); err != nil {
					return nil, err
				}
				f = f.Clone()
				phases := grid.New[float64](b.W(), b.H())
				for _, e := range b.Entries() {
					v, err := f.Apply(0, []float64{float64(e.X) / float64(b.W()), float64(e.Y) / float64(b.H())})
					if err != nil {
						return nil, fmt.Errorf("voxel (%d,%d): %w", e.X, e.Y, err)
					}
					phases.Set(e.X, e.Y, v[0])
				}
				return robot.New(b, robot.NewPhaseSin(frequency, amplitude, phases)), nil
			}, nil
		},
		Example: func(target *robot.Robot) (nn.Function, error) {
			if _, err := body(target); err != nil {
				return nil, err
			}
			return nn.NewPrototype(2, 1), nil
		},
	}
}

// FixedPhaseAndFrequencyValues reads a (frequency, phase) pair per voxel in
// grid order.
func FixedPhaseAndFrequencyValues(amplitude float64) builder.Builder[[]float64, *robot.Robot] {
	return builder.Funcs[[]float64, *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[[]float64, *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			entries := b.Entries()
			return func(values []float64) (*robot.Robot, error) {
				if len(values) != 2*len(entries) {
					return nil, builder.Mismatch("values", 2*len(entries), len(values))
				}
				functions := grid.New[robot.Sinusoid](b.W(), b.H())
				for i, e := range entries {
					functions.Set(e.X, e.Y, robot.Sinusoid{Amplitude: amplitude, Frequency: values[2*i], Phase: values[2*i+1]})
				}
				return robot.New(b, robot.NewTimeFunctions(functions)), nil
			}, nil
		},
		Example: func(target *robot.Robot) ([]float64, error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return make([]float64, 2*b.Count()), nil
		},
	}
}

// SinusoidComponent names a sinusoid parameter read from the genotype.
type SinusoidComponent string

const (
	Frequency SinusoidComponent = "frequency"
	Phase     SinusoidComponent = "phase"
	Amplitude SinusoidComponent = "amplitude"
)

// AllComponents lists the components in the order their genes are read.
var AllComponents = []SinusoidComponent{Frequency, Phase, Amplitude}

// SinusoidGenes returns the components to read in genotype order.
func SinusoidGenes(components []SinusoidComponent) []SinusoidComponent {
	out := make([]SinusoidComponent, 0, len(AllComponents))
	for _, c := range AllComponents {
		for _, want := range components {
			if c == want {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// BodyAndSinusoidal develops a body from the first value of every cell of
// a per-position genotype grid, then gives every surviving voxel a sinusoid
// whose enabled components are read from the following values. Disabled
// components take the middle frequency, phase 0 and amplitude 1.
func BodyAndSinusoidal(minFrequency, maxFrequency, percentile float64, components []SinusoidComponent) builder.Builder[*grid.Grid[[]float64], *robot.Robot] {
	genes := SinusoidGenes(components)
	n := 1 + len(genes)
	return builder.Funcs[*grid.Grid[[]float64], *robot.Robot]{
		Build: func(target *robot.Robot) (builder.Mapper[*grid.Grid[[]float64], *robot.Robot], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			proto, err := robot.FirstVoxel(b)
			if err != nil {
				return nil, err
			}
			return func(values *grid.Grid[[]float64]) (*robot.Robot, error) {
				if err := sameSize(values, b, "values"); err != nil {
					return nil, err
				}
				for _, e := range values.Entries() {
					if len(e.Value) != n {
						return nil, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, builder.Mismatch("values", n, len(e.Value)))
					}
				}
				shaped := morphogenesis.Shape(values, morphogenesis.Config{Percentile: percentile})
				developed := grid.Map(shaped, func(_, _ int, _ []float64) (robot.Voxel, bool) { return proto.Clone(), true })
				functions := grid.Map(shaped, func(_, _ int, v []float64) (robot.Sinusoid, bool) {
					return sinusoid(v, genes, minFrequency, maxFrequency), true
				})
				return robot.New(developed, robot.NewTimeFunctions(functions)), nil
			}, nil
		},
		Example: func(target *robot.Robot) (*grid.Grid[[]float64], error) {
			b, err := body(target)
			if err != nil {
				return nil, err
			}
			return grid.Generate(b.W(), b.H(), func(_, _ int) ([]float64, bool) { return make([]float64, n), true }), nil
		},
	}
}

func sinusoid(values []float64, genes []SinusoidComponent, minFrequency, maxFrequency float64) robot.Sinusoid {
	s := robot.Sinusoid{Amplitude: 1, Frequency: (minFrequency + maxFrequency) / 2}
	for i, c := range genes {
		if 1+i >= len(values) {
			break
		}
		v := (nn.Clip(values[1+i]) + 1) / 2
		switch c {
		case Frequency:
			s.Frequency = minFrequency + (maxFrequency-minFrequency)*v
		case Phase:
			s.Phase = math.Pi * v
		case Amplitude:
			s.Amplitude = v
		}
	}
	return s
}
