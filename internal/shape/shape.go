// Package shape builds target bodies from named shapes and sensor
// configurations, such as "biped-4x3" sensorized with "uniform-t+a+vxy".
//
// Row 0 is the top of the body; legs and teeth hang from the last row.
package shape

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"morphogen/internal/grid"
	"morphogen/internal/robot"
)

var (
	ErrUnknownShape        = errors.New("unknown shape")
	ErrUnknownSensorConfig = errors.New("unknown sensor configuration")
)

type filler func(x, y, w, h int) bool

var shapes = map[string]filler{
	"box":  func(int, int, int, int) bool { return true },
	"worm": func(int, int, int, int) bool { return true },
	"biped": func(x, y, w, h int) bool {
		return !(y == h-1 && x > 0 && x < w-1)
	},
	"comb": func(x, y, _, h int) bool {
		return !(y == h-1 && x%2 == 1)
	},
	"tripod": func(x, y, w, _ int) bool {
		return !(y > 0 && x != 0 && x != w-1 && x != w/2)
	},
}

var shapePattern = regexp.MustCompile(`^([a-z]+)-(\d+)x(\d+)$`)

// Shapes lists the known shape names.
func Shapes() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse turns a "<name>-<w>x<h>" shape into a presence grid.
func Parse(name string) (*grid.Grid[bool], error) {
	m := shapePattern.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
	}
	fill, ok := shapes[m[1]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
	}
	w, _ := strconv.Atoi(m[2])
	h, _ := strconv.Atoi(m[3])
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s has no voxels", ErrUnknownShape, name)
	}
	return grid.Generate(w, h, func(x, y int) (bool, bool) {
		return true, fill(x, y, w, h)
	}), nil
}

var (
	uniformPattern = regexp.MustCompile(`^uniform-([a-z]+(?:\+[a-z]+)*)(?:-\d+(?:\.\d+)?)?$`)
	spinedPattern  = regexp.MustCompile(`^spined-([a-z]+(?:\+[a-z]+)*)(?:-\d+(?:\.\d+)?)?$`)
)

// Sensorize mounts sensors on every voxel of the shape:
//
//	uniform-<s1>+<s2>...  every voxel carries all listed sensors
//	spined-<s1>+<s2>...   every voxel senses area, the last row touch and
//	                      the top row (the spine) the listed sensors
//	empty                 voxels without sensors
//
// A trailing -<noise> is accepted and ignored.
func Sensorize(config string, body *grid.Grid[bool]) (robot.Body, error) {
	if config == "empty" {
		return grid.Map(body, func(_, _ int, _ bool) (robot.Voxel, bool) {
			return robot.NewVoxel(), true
		}), nil
	}
	if m := uniformPattern.FindStringSubmatch(config); m != nil {
		sensors, err := newSensors(strings.Split(m[1], "+"))
		if err != nil {
			return nil, err
		}
		return grid.Map(body, func(_, _ int, _ bool) (robot.Voxel, bool) {
			return robot.NewVoxel(sensors...).Clone(), true
		}), nil
	}
	if m := spinedPattern.FindStringSubmatch(config); m != nil {
		spine, err := newSensors(strings.Split(m[1], "+"))
		if err != nil {
			return nil, err
		}
		area, _ := NewSensor("a")
		touch, _ := NewSensor("t")
		return grid.Map(body, func(_, y int, _ bool) (robot.Voxel, bool) {
			sensors := []robot.Sensor{area}
			if y == body.H()-1 {
				sensors = append(sensors, touch)
			}
			if y == 0 {
				sensors = append(sensors, spine...)
			}
			return robot.NewVoxel(sensors...).Clone(), true
		}), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSensorConfig, config)
}

// Build parses a shape and mounts a sensor configuration on it.
func Build(shapeName, sensorConfig string) (robot.Body, error) {
	body, err := Parse(shapeName)
	if err != nil {
		return nil, err
	}
	return Sensorize(sensorConfig, body)
}
