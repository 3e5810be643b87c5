package codec

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/nn"
	"morphogen/internal/snn"
)

// NumbersGrid is a grid of per-cell real vectors.
type NumbersGrid = *grid.Grid[[]float64]

func chunkLength(template NumbersGrid) int {
	n := 0
	for _, v := range template.Values() {
		n += len(v)
	}
	return n
}

// DirectNumbersGrid splits a flat vector into per-cell chunks, each as long
// as the template cell, in grid iteration order.
func DirectNumbersGrid() builder.Builder[[]float64, NumbersGrid] {
	return builder.Funcs[[]float64, NumbersGrid]{
		Build: func(template NumbersGrid) (builder.Mapper[[]float64, NumbersGrid], error) {
			expected := chunkLength(template)
			entries := template.Entries()
			w, h := template.W(), template.H()
			return func(values []float64) (NumbersGrid, error) {
				if len(values) != expected {
					return nil, builder.Mismatch("values", expected, len(values))
				}
				out := grid.New[[]float64](w, h)
				c := 0
				for _, e := range entries {
					out.Set(e.X, e.Y, append([]float64(nil), values[c:c+len(e.Value)]...))
					c += len(e.Value)
				}
				return out, nil
			}, nil
		},
		Example: func(template NumbersGrid) ([]float64, error) {
			return make([]float64, chunkLength(template)), nil
		},
	}
}

// uniformLength returns the single vector length shared by every populated
// template cell.
func uniformLength(template NumbersGrid) (int, error) {
	first, ok := template.First()
	if !ok {
		return 0, &builder.EmptyTargetError{Reason: "no populated cells"}
	}
	want := len(first.Value)
	var odd []builder.CellDimension
	for _, e := range template.Entries() {
		if len(e.Value) != want {
			odd = append(odd, builder.CellDimension{X: e.X, Y: e.Y, Dimension: len(e.Value)})
		}
	}
	if len(odd) > 0 {
		return 0, &builder.CellShapeMismatchError{What: "values", Expected: want, Cells: odd}
	}
	return want, nil
}

// FunctionNumbersGrid fills every populated template cell by sampling a
// 2->n function at the normalised cell coordinates (x/(W-1), y/(H-1)).
// The genotype is the function itself, which makes the encoding independent
// of the grid resolution.
func FunctionNumbersGrid() builder.Builder[nn.Function, NumbersGrid] {
	return builder.Funcs[nn.Function, NumbersGrid]{
		Build: func(template NumbersGrid) (builder.Mapper[nn.Function, NumbersGrid], error) {
			n, err := uniformLength(template)
			if err != nil {
				return nil, err
			}
			entries := template.Entries()
			w, h := template.W(), template.H()
			return func(f nn.Function) (NumbersGrid, error) {
				if err := CheckArity(f, 2, n); err != nil {
					return nil, err
				}
				f = f.Clone()
				out := grid.New[[]float64](w, h)
				for _, e := range entries {
					v, err := f.Apply(0, []float64{grid.Normalize(e.X, w), grid.Normalize(e.Y, h)})
					if err != nil {
						return nil, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
					}
					out.Set(e.X, e.Y, v)
				}
				return out, nil
			}, nil
		},
		Example: func(template NumbersGrid) (nn.Function, error) {
			n, err := uniformLength(template)
			if err != nil {
				return nil, err
			}
			return nn.NewPrototype(2, n), nil
		},
	}
}

// CheckArity verifies that f maps in inputs to out outputs.
func CheckArity(f nn.Function, in, out int) error {
	if f.InputDimension() != in {
		return builder.Mismatch("function inputs", in, f.InputDimension())
	}
	if f.OutputDimension() != out {
		return builder.Mismatch("function outputs", out, f.OutputDimension())
	}
	return nil
}

// FunctionGrid builds one item per populated target cell from consecutive
// slices of a flat vector, in grid iteration order. It serves both real
// valued and spiking functions.
func FunctionGrid[F any](item builder.Builder[[]float64, F]) builder.Builder[[]float64, *grid.Grid[F]] {
	return builder.Funcs[[]float64, *grid.Grid[F]]{
		Build: func(targets *grid.Grid[F]) (builder.Mapper[[]float64, *grid.Grid[F]], error) {
			type cell struct {
				x, y   int
				size   int
				mapper builder.Mapper[[]float64, F]
			}
			var cells []cell
			expected := 0
			for _, e := range targets.Entries() {
				example, err := item.ExampleFor(e.Value)
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
				}
				mapper, err := item.BuildFor(e.Value)
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
				}
				cells = append(cells, cell{x: e.X, y: e.Y, size: len(example), mapper: mapper})
				expected += len(example)
			}
			w, h := targets.W(), targets.H()
			return func(values []float64) (*grid.Grid[F], error) {
				if len(values) != expected {
					return nil, builder.Mismatch("values", expected, len(values))
				}
				out := grid.New[F](w, h)
				c := 0
				for _, cl := range cells {
					f, err := cl.mapper(append([]float64(nil), values[c:c+cl.size]...))
					if err != nil {
						return nil, fmt.Errorf("cell (%d,%d): %w", cl.x, cl.y, err)
					}
					out.Set(cl.x, cl.y, f)
					c += cl.size
				}
				return out, nil
			}, nil
		},
		Example: func(targets *grid.Grid[F]) ([]float64, error) {
			var out []float64
			for _, e := range targets.Entries() {
				example, err := item.ExampleFor(e.Value)
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
				}
				out = append(out, example...)
			}
			if out == nil {
				out = []float64{}
			}
			return out, nil
		},
	}
}

// SpikingFunctionGrid is FunctionGrid over spiking functions.
func SpikingFunctionGrid(item builder.Builder[[]float64, snn.MultivariateFunction]) builder.Builder[[]float64, *grid.Grid[snn.MultivariateFunction]] {
	return FunctionGrid(item)
}
