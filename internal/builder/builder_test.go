package builder

import (
	"errors"
	"slices"
	"testing"
)

// scale maps a vector of the target's length by multiplying every element.
func scale(k float64) Builder[[]float64, []float64] {
	return Funcs[[]float64, []float64]{
		Build: func(target []float64) (Mapper[[]float64, []float64], error) {
			n := len(target)
			return func(g []float64) ([]float64, error) {
				if len(g) != n {
					return nil, Mismatch("values", n, len(g))
				}
				out := make([]float64, n)
				for i, v := range g {
					out[i] = v * k
				}
				return out, nil
			}, nil
		},
		Example: func(target []float64) ([]float64, error) {
			return make([]float64, len(target)), nil
		},
	}
}

// duplicate turns a target of length n into a genotype of length 2n and sums
// the halves.
func duplicate() Builder[[]float64, []float64] {
	return Funcs[[]float64, []float64]{
		Build: func(target []float64) (Mapper[[]float64, []float64], error) {
			n := len(target)
			return func(g []float64) ([]float64, error) {
				if len(g) != 2*n {
					return nil, Mismatch("values", 2*n, len(g))
				}
				out := make([]float64, n)
				for i := range out {
					out[i] = g[i] + g[n+i]
				}
				return out, nil
			}, nil
		},
		Example: func(target []float64) ([]float64, error) {
			return make([]float64, 2*len(target)), nil
		},
	}
}

func TestComposeExampleAndBuild(t *testing.T) {
	b := Compose(scale(2), duplicate())
	target := []float64{0, 0, 0}
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example) != 6 {
		t.Fatalf("expected example length 6, got=%d", len(example))
	}
	out, err := Apply(b, target, []float64{1, 2, 3, 1, 1, 1})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(out, []float64{4, 6, 8}) {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestComposeIsAssociative(t *testing.T) {
	left := Compose(Compose(scale(3), duplicate()), duplicate())
	right := Compose(scale(3), Compose(duplicate(), duplicate()))
	target := []float64{0, 0}

	le, err := left.ExampleFor(target)
	if err != nil {
		t.Fatalf("left example: %v", err)
	}
	re, err := right.ExampleFor(target)
	if err != nil {
		t.Fatalf("right example: %v", err)
	}
	if len(le) != 8 || len(re) != 8 {
		t.Fatalf("expected example length 8, got left=%d right=%d", len(le), len(re))
	}

	g := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	lo, err := Apply(left, target, g)
	if err != nil {
		t.Fatalf("left apply: %v", err)
	}
	ro, err := Apply(right, target, g)
	if err != nil {
		t.Fatalf("right apply: %v", err)
	}
	if !slices.Equal(lo, ro) {
		t.Fatalf("grouping changed behaviour: left=%v right=%v", lo, ro)
	}
}

func TestComposeMismatchedGenotype(t *testing.T) {
	mapper, err := Compose(scale(1), duplicate()).BuildFor([]float64{0, 0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = mapper([]float64{1, 2, 3})
	var mismatch *ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected shape mismatch, got=%v", err)
	}
	if mismatch.Expected != 4 || mismatch.Found != 3 {
		t.Fatalf("unexpected mismatch counts: %+v", mismatch)
	}
}

func TestMergerSplitsContiguousSlices(t *testing.T) {
	m := Merger[float64]()
	target := [][]float64{{0, 0}, {}, {0, 0, 0}}
	example, err := m.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example) != 5 {
		t.Fatalf("expected merged length 5, got=%d", len(example))
	}
	flat := []float64{1, 2, 3, 4, 5}
	out, err := Apply(m, target, flat)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(out) != 3 || !slices.Equal(out[0], []float64{1, 2}) || len(out[1]) != 0 || !slices.Equal(out[2], []float64{3, 4, 5}) {
		t.Fatalf("unexpected split: %v", out)
	}
	out[0][0] = 99
	if flat[0] != 1 {
		t.Fatal("expected split slices to be copies")
	}
}

func TestMergerLengthMismatch(t *testing.T) {
	mapper, err := Merger[float64]().BuildFor([][]float64{{0}, {0, 0}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, n := range []int{2, 4} {
		_, err := mapper(make([]float64, n))
		if !errors.Is(err, ErrShapeMismatch) {
			t.Fatalf("expected shape mismatch for length %d, got=%v", n, err)
		}
		var mismatch *ShapeMismatchError
		if errors.As(err, &mismatch) && (mismatch.Expected != 3 || mismatch.Found != n) {
			t.Fatalf("unexpected mismatch counts: %+v", mismatch)
		}
	}
}

func TestOfExampleLengths(t *testing.T) {
	b := Of([]Builder[[]float64, []float64]{scale(1), duplicate()})
	example, err := b.ExampleFor([][]float64{{0, 0}, {0, 0, 0}})
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example) != 2 || len(example[0]) != 2 || len(example[1]) != 6 {
		t.Fatalf("unexpected example shape: %v", example)
	}
}

func TestOfLengthMismatch(t *testing.T) {
	b := Of([]Builder[[]float64, []float64]{scale(1), scale(2)})

	if _, err := b.ExampleFor([][]float64{{0}}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected example mismatch, got=%v", err)
	}
	if _, err := b.BuildFor([][]float64{{0}, {0}, {0}}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected build mismatch, got=%v", err)
	}
	mapper, err := b.BuildFor([][]float64{{0}, {0}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := mapper([][]float64{{1}}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected mapper mismatch, got=%v", err)
	}
	out, err := mapper([][]float64{{1}, {1}})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if out[0][0] != 1 || out[1][0] != 2 {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestComposeMergerOfPipelineLength(t *testing.T) {
	b := Compose(Of([]Builder[[]float64, []float64]{scale(1), duplicate()}), Merger[float64]())
	example, err := b.ExampleFor([][]float64{{0, 0}, {0}})
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example) != 4 {
		t.Fatalf("expected flat length 4, got=%d", len(example))
	}
	out, err := Apply(b, [][]float64{{0, 0}, {0}}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(out[0], []float64{1, 2}) || !slices.Equal(out[1], []float64{7}) {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestErasedRoundTrip(t *testing.T) {
	erased := ComposeErased(Erase(scale(2)), Erase(duplicate()))
	b := Restore[[]float64, []float64](erased)
	out, err := Apply(b, []float64{0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out[0] != 6 {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestErasedTypeMismatch(t *testing.T) {
	b := Erase(scale(1))
	if _, err := b.ExampleFor("not a vector"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got=%v", err)
	}
	mapper, err := b.BuildFor([]float64{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = mapper([]bool{true})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected type mismatch, got=%v", err)
	}
	if mismatch.Expected != "[]float64" || mismatch.Found != "[]bool" {
		t.Fatalf("unexpected type names: %+v", mismatch)
	}
}

func TestIdentityAndErrorText(t *testing.T) {
	out, err := Apply(Identity[int](), 0, 7)
	if err != nil || out != 7 {
		t.Fatalf("unexpected identity result: %d %v", out, err)
	}
	err = Mismatch("weights", 30, 29)
	if err.Error() != "wrong number of weights: 30 expected, 29 found" {
		t.Fatalf("unexpected message: %s", err)
	}
}
