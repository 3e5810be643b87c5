package builder

import "fmt"

type composed[C, A, B any] struct {
	outer Builder[A, B]
	inner Builder[C, A]
}

// Compose chains outer (A→B) after inner (C→A). The example is obtained by
// pushing the outer example backward through inner.
func Compose[C, A, B any](outer Builder[A, B], inner Builder[C, A]) Builder[C, B] {
	return composed[C, A, B]{outer: outer, inner: inner}
}

func (c composed[C, A, B]) ExampleFor(target B) (C, error) {
	var zero C
	intermediate, err := c.outer.ExampleFor(target)
	if err != nil {
		return zero, err
	}
	return c.inner.ExampleFor(intermediate)
}

func (c composed[C, A, B]) BuildFor(target B) (Mapper[C, B], error) {
	outerMapper, err := c.outer.BuildFor(target)
	if err != nil {
		return nil, err
	}
	intermediate, err := c.outer.ExampleFor(target)
	if err != nil {
		return nil, err
	}
	innerMapper, err := c.inner.BuildFor(intermediate)
	if err != nil {
		return nil, err
	}
	return func(genotype C) (B, error) {
		a, err := innerMapper(genotype)
		if err != nil {
			var zero B
			return zero, err
		}
		return outerMapper(a)
	}, nil
}

// Merger exposes a list of independently sized sublists as one flat list.
// The mapper splits a flat genotype into contiguous copies matching each
// sublist length of the target, in order.
func Merger[T any]() Builder[[]T, [][]T] {
	return Funcs[[]T, [][]T]{
		Build: func(lists [][]T) (Mapper[[]T, [][]T], error) {
			lengths := make([]int, len(lists))
			total := 0
			for i, l := range lists {
				lengths[i] = len(l)
				total += len(l)
			}
			return func(values []T) ([][]T, error) {
				if len(values) != total {
					return nil, Mismatch("values", total, len(values))
				}
				out := make([][]T, len(lengths))
				c := 0
				for i, n := range lengths {
					out[i] = append(make([]T, 0, n), values[c:c+n]...)
					c += n
				}
				return out, nil
			}, nil
		},
		Example: func(lists [][]T) ([]T, error) {
			var out []T
			for _, l := range lists {
				out = append(out, l...)
			}
			if out == nil {
				out = []T{}
			}
			return out, nil
		},
	}
}

// Of handles a list genotype positionally: element i is mapped by
// builders[i] against target element i.
func Of[A, B any](builders []Builder[A, B]) Builder[[]A, []B] {
	n := len(builders)
	checkTargets := func(targets []B) error {
		if len(targets) != n {
			return Mismatch("arguments", n, len(targets))
		}
		return nil
	}
	return Funcs[[]A, []B]{
		Build: func(targets []B) (Mapper[[]A, []B], error) {
			if err := checkTargets(targets); err != nil {
				return nil, err
			}
			mappers := make([]Mapper[A, B], n)
			for i, b := range builders {
				m, err := b.BuildFor(targets[i])
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				mappers[i] = m
			}
			return func(genotypes []A) ([]B, error) {
				if len(genotypes) != n {
					return nil, Mismatch("arguments", n, len(genotypes))
				}
				out := make([]B, n)
				for i, m := range mappers {
					v, err := m(genotypes[i])
					if err != nil {
						return nil, fmt.Errorf("element %d: %w", i, err)
					}
					out[i] = v
				}
				return out, nil
			}, nil
		},
		Example: func(targets []B) ([]A, error) {
			if err := checkTargets(targets); err != nil {
				return nil, err
			}
			out := make([]A, n)
			for i, b := range builders {
				a, err := b.ExampleFor(targets[i])
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out[i] = a
			}
			return out, nil
		},
	}
}
