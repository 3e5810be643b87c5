// Package grid provides a dense two-dimensional container whose cells are
// either populated with a value or explicitly absent.
//
// Iteration is always row-major: y outer, x inner. Every codec and the
// connected-component tie-break rely on that order.
package grid

import "fmt"

// Cell is the presence sum-type stored at each grid position.
type Cell[T any] struct {
	Value   T
	Present bool
}

// Entry is a populated cell together with its coordinates.
type Entry[T any] struct {
	X, Y  int
	Value T
}

type Grid[T any] struct {
	w, h  int
	cells []Cell[T]
}

// New returns a w×h grid with every cell absent.
func New[T any](w, h int) *Grid[T] {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("grid: negative size %dx%d", w, h))
	}
	return &Grid[T]{w: w, h: h, cells: make([]Cell[T], w*h)}
}

// Filled returns a w×h grid with every cell populated with value.
func Filled[T any](w, h int, value T) *Grid[T] {
	g := New[T](w, h)
	for i := range g.cells {
		g.cells[i] = Cell[T]{Value: value, Present: true}
	}
	return g
}

// Generate returns a w×h grid populated by fn; cells for which fn reports
// false stay absent.
func Generate[T any](w, h int, fn func(x, y int) (T, bool)) *Grid[T] {
	g := New[T](w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v, ok := fn(x, y); ok {
				g.Set(x, y, v)
			}
		}
	}
	return g
}

// EmptyLike returns an all-absent grid with the same size as g.
func EmptyLike[U, T any](g *Grid[T]) *Grid[U] {
	return New[U](g.w, g.h)
}

// Map transforms every populated cell of g; cells for which fn reports
// false become absent.
func Map[T, U any](g *Grid[T], fn func(x, y int, v T) (U, bool)) *Grid[U] {
	out := New[U](g.w, g.h)
	for i, c := range g.cells {
		if !c.Present {
			continue
		}
		x, y := i%g.w, i/g.w
		if u, ok := fn(x, y, c.Value); ok {
			out.cells[i] = Cell[U]{Value: u, Present: true}
		}
	}
	return out
}

func (g *Grid[T]) W() int { return g.w }

func (g *Grid[T]) H() int { return g.h }

// InBounds reports whether (x,y) lies within the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid[T]) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: (%d,%d) out of bounds %dx%d", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// Get returns the value at (x,y) and whether the cell is populated.
func (g *Grid[T]) Get(x, y int) (T, bool) {
	c := g.cells[g.index(x, y)]
	return c.Value, c.Present
}

// Value returns the value at (x,y), or the zero value for absent cells.
func (g *Grid[T]) Value(x, y int) T {
	return g.cells[g.index(x, y)].Value
}

func (g *Grid[T]) Present(x, y int) bool {
	return g.cells[g.index(x, y)].Present
}

func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[g.index(x, y)] = Cell[T]{Value: v, Present: true}
}

func (g *Grid[T]) Clear(x, y int) {
	g.cells[g.index(x, y)] = Cell[T]{}
}

// Entries lists the populated cells in row-major order.
func (g *Grid[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(g.cells))
	for i, c := range g.cells {
		if c.Present {
			out = append(out, Entry[T]{X: i % g.w, Y: i / g.w, Value: c.Value})
		}
	}
	return out
}

// Values lists the populated values in row-major order.
func (g *Grid[T]) Values() []T {
	out := make([]T, 0, len(g.cells))
	for _, c := range g.cells {
		if c.Present {
			out = append(out, c.Value)
		}
	}
	return out
}

// Count returns the number of populated cells.
func (g *Grid[T]) Count() int {
	n := 0
	for _, c := range g.cells {
		if c.Present {
			n++
		}
	}
	return n
}

// First returns the first populated entry in row-major order.
func (g *Grid[T]) First() (Entry[T], bool) {
	for i, c := range g.cells {
		if c.Present {
			return Entry[T]{X: i % g.w, Y: i / g.w, Value: c.Value}, true
		}
	}
	return Entry[T]{}, false
}

// Clone copies g. When cloneValue is nil values are copied by assignment.
func (g *Grid[T]) Clone(cloneValue func(T) T) *Grid[T] {
	out := &Grid[T]{w: g.w, h: g.h, cells: make([]Cell[T], len(g.cells))}
	for i, c := range g.cells {
		if c.Present && cloneValue != nil {
			c.Value = cloneValue(c.Value)
		}
		out.cells[i] = c
	}
	return out
}

// EqualFunc reports whether a and b have the same size, the same populated
// positions and equal values under eq.
func EqualFunc[T, U any](a *Grid[T], b *Grid[U], eq func(T, U) bool) bool {
	if a.w != b.w || a.h != b.h {
		return false
	}
	for i := range a.cells {
		ca, cb := a.cells[i], b.cells[i]
		if ca.Present != cb.Present {
			return false
		}
		if ca.Present && !eq(ca.Value, cb.Value) {
			return false
		}
	}
	return true
}

// SameShape reports whether a and b have equal size and populated positions.
func SameShape[T, U any](a *Grid[T], b *Grid[U]) bool {
	return EqualFunc(a, b, func(T, U) bool { return true })
}

func (g *Grid[T]) String() string {
	return fmt.Sprintf("%dx%d[%d]", g.w, g.h, g.Count())
}

// Normalize maps index i of an axis with n positions onto [0,1]. A
// single-position axis maps to 0.
func Normalize(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
