// Package assembly holds the builders that turn controller genotypes, and
// for some of them body genotypes too, into complete robots for a target
// robot.
package assembly

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/robot"
)

// body returns the populated body of target.
func body(target *robot.Robot) (robot.Body, error) {
	if target == nil || target.Body == nil || target.Body.Count() == 0 {
		return nil, &builder.EmptyTargetError{Reason: "no voxels"}
	}
	return target.Body, nil
}

// homoInputs returns the sensor dimension shared by every voxel of b.
func homoInputs(b robot.Body) (int, error) {
	first, ok := b.First()
	if !ok {
		return 0, &builder.EmptyTargetError{Reason: "no voxels"}
	}
	want := first.Value.InputDimension()
	var odd []builder.CellDimension
	for _, e := range b.Entries() {
		if d := e.Value.InputDimension(); d != want {
			odd = append(odd, builder.CellDimension{X: e.X, Y: e.Y, Dimension: d})
		}
	}
	if len(odd) > 0 {
		return 0, &builder.CellShapeMismatchError{
			What:      "inputs",
			Expected:  want,
			Reference: &builder.CellDimension{X: first.X, Y: first.Y, Dimension: want},
			Cells:     odd,
		}
	}
	return want, nil
}

// prototypeSensors returns the sensors of the first voxel of b, requiring
// every sensor of every voxel to share one dimension.
func prototypeSensors(b robot.Body) ([]robot.Sensor, error) {
	first, err := robot.FirstVoxel(b)
	if err != nil {
		return nil, err
	}
	if len(first.Sensors) == 0 {
		return nil, &builder.EmptyTargetError{Reason: "no sensors"}
	}
	dims := first.Sensors[0].Dims
	for _, e := range b.Entries() {
		for _, s := range e.Value.Sensors {
			if s.Dims != dims {
				return nil, fmt.Errorf("voxel (%d,%d) sensor %q: %w", e.X, e.Y, s.Kind, builder.Mismatch("sensor dimensions", dims, s.Dims))
			}
		}
	}
	return first.Sensors, nil
}

// checkPair validates the two functions of body-and-brain genotypes.
func checkPair[F any](functions []F) error {
	if len(functions) != 2 {
		return builder.Mismatch("functions", 2, len(functions))
	}
	return nil
}

// sameSize validates a per-voxel genotype grid against the body.
func sameSize[T any](g *grid.Grid[T], b robot.Body, what string) error {
	if g == nil || g.W() != b.W() || g.H() != b.H() {
		w, h := 0, 0
		if g != nil {
			w, h = g.W(), g.H()
		}
		return fmt.Errorf("wrong size of %s grid: %dx%d expected, %dx%d found", what, b.W(), b.H(), w, h)
	}
	return nil
}
