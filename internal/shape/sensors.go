package shape

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"morphogen/internal/robot"
)

var (
	ErrSensorExists  = errors.New("sensor already registered")
	ErrUnknownSensor = errors.New("unknown sensor")
)

var sensorRegistry = struct {
	mu   sync.RWMutex
	dims map[string]int
}{
	dims: make(map[string]int),
}

func init() {
	initializeBuiltInSensors()
}

func initializeBuiltInSensors() {
	for kind, dims := range map[string]int{
		"t":   1, // touch
		"a":   1, // area ratio
		"r":   1, // rotation
		"c":   1, // control power
		"vx":  1,
		"vy":  1,
		"vxy": 2,
		"ax":  1,
		"ay":  1,
		"axy": 2,
	} {
		MustRegisterSensor(kind, dims)
	}
}

// RegisterSensor makes kind usable in sensor configurations.
func RegisterSensor(kind string, dims int) error {
	if kind == "" {
		return errors.New("sensor kind is required")
	}
	if dims <= 0 {
		return fmt.Errorf("sensor %s: dimension must be positive, got %d", kind, dims)
	}
	sensorRegistry.mu.Lock()
	defer sensorRegistry.mu.Unlock()
	if _, exists := sensorRegistry.dims[kind]; exists {
		return fmt.Errorf("%w: %s", ErrSensorExists, kind)
	}
	sensorRegistry.dims[kind] = dims
	return nil
}

func MustRegisterSensor(kind string, dims int) {
	if err := RegisterSensor(kind, dims); err != nil {
		panic(err)
	}
}

// NewSensor returns a descriptor for a registered sensor kind.
func NewSensor(kind string) (robot.Sensor, error) {
	sensorRegistry.mu.RLock()
	dims, ok := sensorRegistry.dims[kind]
	sensorRegistry.mu.RUnlock()
	if !ok {
		return robot.Sensor{}, fmt.Errorf("%w: %s", ErrUnknownSensor, kind)
	}
	return robot.Sensor{Kind: kind, Dims: dims}, nil
}

func ListSensors() []string {
	sensorRegistry.mu.RLock()
	defer sensorRegistry.mu.RUnlock()
	kinds := make([]string, 0, len(sensorRegistry.dims))
	for kind := range sensorRegistry.dims {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func newSensors(kinds []string) ([]robot.Sensor, error) {
	out := make([]robot.Sensor, 0, len(kinds))
	for _, kind := range kinds {
		s, err := NewSensor(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
