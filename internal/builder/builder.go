// Package builder defines prototyped function builders: mapping stages that
// negotiate genotype shape from a target before any genotype exists, and
// combinators that chain them.
//
// A Builder[A, B] maps genotypes of type A to phenotypes of type B. The
// target B is a shape-only template; ExampleFor derives the genotype shape
// the stage needs for it, BuildFor returns the mapper for genotypes of that
// shape. Mappers must be safe for concurrent use and must never mutate the
// captured target.
package builder

// Mapper turns one genotype into a fresh phenotype.
type Mapper[A, B any] func(genotype A) (B, error)

type Builder[A, B any] interface {
	BuildFor(target B) (Mapper[A, B], error)
	ExampleFor(target B) (A, error)
}

// Funcs adapts a pair of functions to the Builder interface.
type Funcs[A, B any] struct {
	Build   func(target B) (Mapper[A, B], error)
	Example func(target B) (A, error)
}

func (f Funcs[A, B]) BuildFor(target B) (Mapper[A, B], error) {
	return f.Build(target)
}

func (f Funcs[A, B]) ExampleFor(target B) (A, error) {
	return f.Example(target)
}

// Identity is the neutral stage: genotype and phenotype coincide.
func Identity[T any]() Builder[T, T] {
	return Funcs[T, T]{
		Build: func(T) (Mapper[T, T], error) {
			return func(v T) (T, error) { return v, nil }, nil
		},
		Example: func(target T) (T, error) { return target, nil },
	}
}

// Apply builds b for target and maps genotype in one call.
func Apply[A, B any](b Builder[A, B], target B, genotype A) (B, error) {
	mapper, err := b.BuildFor(target)
	if err != nil {
		var zero B
		return zero, err
	}
	return mapper(genotype)
}
