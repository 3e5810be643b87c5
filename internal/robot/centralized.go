package robot

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/nn"
)

// CentralizedInputs is the input dimension of a centralized brain for body.
func CentralizedInputs(body Body) int {
	n := 0
	for _, v := range body.Values() {
		n += v.InputDimension()
	}
	return n
}

// CentralizedOutputs is the output dimension of a centralized brain for body.
func CentralizedOutputs(body Body) int {
	return body.Count()
}

// CentralizedSensing feeds the concatenated readings of every voxel, in grid
// order, to a single function emitting one actuation value per voxel.
type CentralizedSensing struct {
	body     Body
	function nn.Function
}

func NewCentralizedSensing(body Body, function nn.Function) (*CentralizedSensing, error) {
	if in := CentralizedInputs(body); function.InputDimension() != in {
		return nil, builder.Mismatch("function inputs", in, function.InputDimension())
	}
	if out := CentralizedOutputs(body); function.OutputDimension() != out {
		return nil, builder.Mismatch("function outputs", out, function.OutputDimension())
	}
	return &CentralizedSensing{body: body, function: function}, nil
}

func (c *CentralizedSensing) Kind() string          { return "centralized" }
func (c *CentralizedSensing) Function() nn.Function { return c.function }

func (c *CentralizedSensing) Control(t float64, readings *grid.Grid[[]float64]) (*grid.Grid[float64], error) {
	if err := checkReadings(c.body, readings); err != nil {
		return nil, err
	}
	entries := c.body.Entries()
	input := make([]float64, 0, CentralizedInputs(c.body))
	for _, e := range entries {
		input = append(input, readings.Value(e.X, e.Y)...)
	}
	output, err := c.function.Apply(t, input)
	if err != nil {
		return nil, fmt.Errorf("centralized brain: %w", err)
	}
	out := grid.New[float64](c.body.W(), c.body.H())
	for i, e := range entries {
		out.Set(e.X, e.Y, output[i])
	}
	return out, nil
}

func (c *CentralizedSensing) Reset() {
	c.function = c.function.Clone()
}

func (c *CentralizedSensing) Clone() Controller {
	return &CentralizedSensing{body: CloneBody(c.body), function: c.function.Clone()}
}
