package robot

import (
	"math"

	"morphogen/internal/grid"
)

// Sinusoid is a periodic actuation Amplitude*sin(2*pi*Frequency*t + Phase).
type Sinusoid struct {
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Phase     float64 `json:"phase"`
}

func (s Sinusoid) At(t float64) float64 {
	return s.Amplitude * math.Sin(2*math.Pi*s.Frequency*t+s.Phase)
}

// TimeFunctions actuates every voxel with its own function of time,
// ignoring sensor readings.
type TimeFunctions struct {
	kind      string
	functions *grid.Grid[Sinusoid]
}

func NewTimeFunctions(functions *grid.Grid[Sinusoid]) *TimeFunctions {
	return &TimeFunctions{kind: "time-functions", functions: functions}
}

// NewPhaseSin returns a controller where every voxel oscillates with the
// same frequency and amplitude and its own phase.
func NewPhaseSin(frequency, amplitude float64, phases *grid.Grid[float64]) *TimeFunctions {
	functions := grid.Map(phases, func(_, _ int, phase float64) (Sinusoid, bool) {
		return Sinusoid{Amplitude: amplitude, Frequency: frequency, Phase: phase}, true
	})
	return &TimeFunctions{kind: "phase-sin", functions: functions}
}

func (c *TimeFunctions) Kind() string                    { return c.kind }
func (c *TimeFunctions) Functions() *grid.Grid[Sinusoid] { return c.functions }
func (c *TimeFunctions) Reset()                          {}

func (c *TimeFunctions) Control(t float64, _ *grid.Grid[[]float64]) (*grid.Grid[float64], error) {
	return grid.Map(c.functions, func(_, _ int, s Sinusoid) (float64, bool) { return s.At(t), true }), nil
}

func (c *TimeFunctions) Clone() Controller {
	return &TimeFunctions{kind: c.kind, functions: c.functions.Clone(func(s Sinusoid) Sinusoid { return s })}
}
