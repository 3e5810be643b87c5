// Package codec holds the genotype codecs: bit strings and ternary strings
// to real vectors, and real vectors or continuous functions to grids.
package codec

import (
	"fmt"

	"morphogen/internal/builder"
)

// BinaryToReals maps every bit to +value (true) or -value (false).
func BinaryToReals(value float64) builder.Builder[[]bool, []float64] {
	return builder.Funcs[[]bool, []float64]{
		Build: func(target []float64) (builder.Mapper[[]bool, []float64], error) {
			n := len(target)
			return func(bits []bool) ([]float64, error) {
				if len(bits) != n {
					return nil, builder.Mismatch("bits", n, len(bits))
				}
				out := make([]float64, n)
				for i, b := range bits {
					if b {
						out[i] = value
					} else {
						out[i] = -value
					}
				}
				return out, nil
			}, nil
		},
		Example: func(target []float64) ([]bool, error) {
			return make([]bool, len(target)), nil
		},
	}
}

// TernaryToReals maps every integer i in {0, 1, 2} to (i-1)*value. The
// example genotype is the neutral string of ones.
func TernaryToReals(value float64) builder.Builder[[]int, []float64] {
	return builder.Funcs[[]int, []float64]{
		Build: func(target []float64) (builder.Mapper[[]int, []float64], error) {
			n := len(target)
			return func(digits []int) ([]float64, error) {
				if len(digits) != n {
					return nil, builder.Mismatch("digits", n, len(digits))
				}
				out := make([]float64, n)
				for i, d := range digits {
					if d < 0 || d > 2 {
						return nil, fmt.Errorf("digit %d out of range [0,2]: %d", i, d)
					}
					out[i] = float64(d-1) * value
				}
				return out, nil
			}, nil
		},
		Example: func(target []float64) ([]int, error) {
			out := make([]int, len(target))
			for i := range out {
				out[i] = 1
			}
			return out, nil
		},
	}
}
