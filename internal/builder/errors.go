package builder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrEmptyTarget   = errors.New("empty target")
	ErrTypeMismatch  = errors.New("type mismatch")
)

// ShapeMismatchError reports a length or dimension disagreement at a
// compositional boundary.
type ShapeMismatchError struct {
	What     string
	Expected int
	Found    int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("wrong number of %s: %d expected, %d found", e.What, e.Expected, e.Found)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// Mismatch is shorthand for constructing a *ShapeMismatchError.
func Mismatch(what string, expected, found int) error {
	return &ShapeMismatchError{What: what, Expected: expected, Found: found}
}

// CellDimension names one grid position and the dimension found there.
type CellDimension struct {
	X, Y      int
	Dimension int
}

// CellShapeMismatchError reports grid cells whose per-cell dimension
// differs from the one shared by the rest of the body.
type CellShapeMismatchError struct {
	What     string
	Expected int
	// Reference, when set, is the cell Expected was taken from.
	Reference *CellDimension
	Cells     []CellDimension
}

func (e *CellShapeMismatchError) Error() string {
	positions := make([]string, 0, len(e.Cells))
	dims := make([]string, 0, len(e.Cells))
	for _, c := range e.Cells {
		positions = append(positions, fmt.Sprintf("(%d,%d)", c.X, c.Y))
		dims = append(dims, fmt.Sprintf("%d", c.Dimension))
	}
	like := ""
	if e.Reference != nil {
		like = fmt.Sprintf(" like (%d,%d)", e.Reference.X, e.Reference.Y)
	}
	return fmt.Sprintf(
		"all cells should have %d %s%s, but cells at positions %s have %s",
		e.Expected, e.What, like, strings.Join(positions, ","), strings.Join(dims, ","),
	)
}

func (e *CellShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// EmptyTargetError reports a target with no usable cells or capabilities.
type EmptyTargetError struct {
	Reason string
}

func (e *EmptyTargetError) Error() string {
	return "target has " + e.Reason
}

func (e *EmptyTargetError) Is(target error) bool {
	return target == ErrEmptyTarget
}

// TypeMismatchError reports a dynamically-typed stage receiving a value of
// the wrong type, typically from an incompatible pipeline composition.
type TypeMismatchError struct {
	Role     string
	Expected string
	Found    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("incompatible %s: %s expected, %s found", e.Role, e.Expected, e.Found)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
