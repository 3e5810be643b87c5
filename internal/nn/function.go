// Package nn holds the real-valued timed functions used as robot brains and
// as continuous encodings: multi-layer perceptrons, their pruning variant and
// small helper functions.
package nn

import (
	"morphogen/internal/builder"
)

// Function is a timed multivariate real function. Implementations may keep
// state across calls (pruning statistics, spike converters), so a single
// instance must not be shared between concurrently running phenotypes; use
// Clone.
type Function interface {
	InputDimension() int
	OutputDimension() int
	Apply(t float64, input []float64) ([]float64, error)
	Clone() Function
}

// CheckInput validates the length of an input vector against f.
func CheckInput(f Function, input []float64) error {
	if len(input) != f.InputDimension() {
		return builder.Mismatch("inputs", f.InputDimension(), len(input))
	}
	return nil
}

// Prototype is a shape-only function used as a builder target. Applying it
// yields zeros.
type Prototype struct {
	In  int
	Out int
}

func NewPrototype(in, out int) Prototype {
	return Prototype{In: in, Out: out}
}

func (p Prototype) InputDimension() int  { return p.In }
func (p Prototype) OutputDimension() int { return p.Out }
func (p Prototype) Clone() Function      { return p }

func (p Prototype) Apply(_ float64, input []float64) ([]float64, error) {
	if err := CheckInput(p, input); err != nil {
		return nil, err
	}
	return make([]float64, p.Out), nil
}

// Stateless adapts a pure Go function to Function.
type Stateless struct {
	In  int
	Out int
	Fn  func(t float64, input []float64) []float64
}

func (s Stateless) InputDimension() int  { return s.In }
func (s Stateless) OutputDimension() int { return s.Out }
func (s Stateless) Clone() Function      { return s }

func (s Stateless) Apply(t float64, input []float64) ([]float64, error) {
	if err := CheckInput(s, input); err != nil {
		return nil, err
	}
	out := s.Fn(t, input)
	if len(out) != s.Out {
		return nil, builder.Mismatch("outputs", s.Out, len(out))
	}
	return out, nil
}

// Constant ignores its input and time and always returns values.
func Constant(in int, values ...float64) Function {
	v := append([]float64(nil), values...)
	return Stateless{In: in, Out: len(v), Fn: func(float64, []float64) []float64 {
		return append([]float64(nil), v...)
	}}
}

// SameShape reports whether a and b have identical input and output
// dimensions.
func SameShape(a, b Function) bool {
	return a.InputDimension() == b.InputDimension() && a.OutputDimension() == b.OutputDimension()
}
