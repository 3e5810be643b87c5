package builder

import "fmt"

// Erase hides the static types of b so stages chosen at runtime can be
// composed. Values crossing an erased boundary are type-asserted and a wrong
// dynamic type yields a *TypeMismatchError.
func Erase[A, B any](b Builder[A, B]) Builder[any, any] {
	return erased[A, B]{b: b}
}

type erased[A, B any] struct {
	b Builder[A, B]
}

func (e erased[A, B]) BuildFor(target any) (Mapper[any, any], error) {
	t, err := assert[B]("target", target)
	if err != nil {
		return nil, err
	}
	mapper, err := e.b.BuildFor(t)
	if err != nil {
		return nil, err
	}
	return func(genotype any) (any, error) {
		g, err := assert[A]("genotype", genotype)
		if err != nil {
			return nil, err
		}
		return mapper(g)
	}, nil
}

func (e erased[A, B]) ExampleFor(target any) (any, error) {
	t, err := assert[B]("target", target)
	if err != nil {
		return nil, err
	}
	return e.b.ExampleFor(t)
}

// Restore gives an erased builder back its static types.
func Restore[A, B any](b Builder[any, any]) Builder[A, B] {
	if e, ok := b.(erased[A, B]); ok {
		return e.b
	}
	return restored[A, B]{b: b}
}

type restored[A, B any] struct {
	b Builder[any, any]
}

func (r restored[A, B]) BuildFor(target B) (Mapper[A, B], error) {
	mapper, err := r.b.BuildFor(target)
	if err != nil {
		return nil, err
	}
	return func(genotype A) (B, error) {
		out, err := mapper(genotype)
		if err != nil {
			var zero B
			return zero, err
		}
		return assert[B]("phenotype", out)
	}, nil
}

func (r restored[A, B]) ExampleFor(target B) (A, error) {
	out, err := r.b.ExampleFor(target)
	if err != nil {
		var zero A
		return zero, err
	}
	return assert[A]("genotype", out)
}

// ComposeErased chains two erased stages; mismatched intermediate types
// surface as *TypeMismatchError when the chain is built.
func ComposeErased(outer, inner Builder[any, any]) Builder[any, any] {
	return Compose[any, any, any](outer, inner)
}

// TypeName renders the dynamic type of v for error messages.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func assert[T any](role string, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Role: role, Expected: fmt.Sprintf("%T", (*T)(nil))[1:], Found: TypeName(v)}
	}
	return t, nil
}
