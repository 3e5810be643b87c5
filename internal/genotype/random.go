// Package genotype samples random genotypes shaped like the examples a
// mapping pipeline asks for.
package genotype

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
)

var ErrUnsupportedGenotype = errors.New("unsupported genotype type")

func ensureRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// randomSymmetric samples uniformly from [-1, 1).
func randomSymmetric(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// Random returns a fresh genotype with the same shape as example: real
// vectors are sampled in [-1, 1), bits and trits uniformly, numbers grids
// cell by cell.
func Random(example any, rng *rand.Rand) (any, error) {
	rng = ensureRNG(rng)
	switch e := example.(type) {
	case []float64:
		return reals(len(e), rng), nil
	case []bool:
		out := make([]bool, len(e))
		for i := range out {
			out[i] = rng.Intn(2) == 1
		}
		return out, nil
	case []int:
		out := make([]int, len(e))
		for i := range out {
			out[i] = rng.Intn(3)
		}
		return out, nil
	case *grid.Grid[[]float64]:
		return grid.Map(e, func(_, _ int, v []float64) ([]float64, bool) {
			return reals(len(v), rng), true
		}), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGenotype, example)
}

func reals(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = randomSymmetric(rng)
	}
	return out
}

// Length counts the scalar genes of a genotype.
func Length(genotype any) (int, error) {
	switch g := genotype.(type) {
	case []float64:
		return len(g), nil
	case []bool:
		return len(g), nil
	case []int:
		return len(g), nil
	case *grid.Grid[[]float64]:
		n := 0
		for _, v := range g.Values() {
			n += len(v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedGenotype, genotype)
}

// FromReals reshapes a flat real vector into a genotype shaped like example.
// Bits are set for positive values; trits are 0 for negative values, 1 for
// zero and 2 for positive values.
func FromReals(example any, values []float64) (any, error) {
	n, err := Length(example)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, builder.Mismatch("genes", n, len(values))
	}
	switch e := example.(type) {
	case []float64:
		return append([]float64(nil), values...), nil
	case []bool:
		out := make([]bool, n)
		for i, v := range values {
			out[i] = v > 0
		}
		return out, nil
	case []int:
		out := make([]int, n)
		for i, v := range values {
			switch {
			case v > 0:
				out[i] = 2
			case v == 0:
				out[i] = 1
			}
		}
		return out, nil
	case *grid.Grid[[]float64]:
		offset := 0
		return grid.Map(e, func(_, _ int, v []float64) ([]float64, bool) {
			chunk := append([]float64(nil), values[offset:offset+len(v)]...)
			offset += len(v)
			return chunk, true
		}), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGenotype, example)
}
