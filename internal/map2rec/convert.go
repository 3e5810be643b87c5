package map2rec

import (
	"errors"
	"fmt"
)

var ErrInvalidValue = errors.New("invalid map2rec value")

func Convert(kind string, in map[string]any) (any, error) {
	switch kind {
	case "sensor":
		return ConvertSensor(in)
	case "voxel":
		return ConvertVoxel(in)
	case "target":
		return ConvertTarget(in)
	case "request":
		return ConvertRequest(in)
	default:
		return nil, ErrUnsupportedKind
	}
}

func invalid(key string, val any) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalidValue, key, val)
}

func ConvertSensor(in map[string]any) (SensorRecord, error) {
	out := defaultSensorRecord()
	for key, val := range in {
		switch key {
		case "kind":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Kind = s
		case "dims":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Dims = n
		case "constant":
			xs, ok := asFloat64s(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Constant = xs
		}
	}
	return out, nil
}

// asSensorRecords accepts both bare kinds ("t") and full sensor maps.
func asSensorRecords(v any) ([]SensorRecord, error) {
	raw, ok := asAnySlice(v)
	if !ok {
		return nil, invalid("sensors", v)
	}
	out := make([]SensorRecord, 0, len(raw))
	for _, item := range raw {
		if kind, ok := asString(item); ok {
			out = append(out, SensorRecord{Kind: kind})
			continue
		}
		m, ok := asMap(item)
		if !ok {
			return nil, invalid("sensors", item)
		}
		s, err := ConvertSensor(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func ConvertVoxel(in map[string]any) (VoxelRecord, error) {
	out := defaultVoxelRecord()
	for key, val := range in {
		switch key {
		case "x":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.X = n
		case "y":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Y = n
		case "sensors":
			sensors, err := asSensorRecords(val)
			if err != nil {
				return out, err
			}
			out.Sensors = sensors
		}
	}
	return out, nil
}

func ConvertTarget(in map[string]any) (TargetRecord, error) {
	out := defaultTargetRecord()
	for key, val := range in {
		switch key {
		case "name":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Name = s
		case "shape":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Shape = s
		case "sensors":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Sensors = s
		case "width":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Width = n
		case "height":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Height = n
		case "voxels":
			raw, ok := asAnySlice(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Voxels = make([]VoxelRecord, 0, len(raw))
			for _, item := range raw {
				m, ok := asMap(item)
				if !ok {
					return out, invalid(key, item)
				}
				v, err := ConvertVoxel(m)
				if err != nil {
					return out, err
				}
				out.Voxels = append(out.Voxels, v)
			}
		}
	}
	return out, nil
}

// ConvertRequest reads a request; its target is either an inline target map
// or a bare shape name.
func ConvertRequest(in map[string]any) (RequestRecord, error) {
	out := defaultRequestRecord()
	for key, val := range in {
		switch key {
		case "pipeline":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Pipeline = s
		case "target":
			if s, ok := asString(val); ok {
				out.Target = TargetRecord{Name: s, Shape: s}
				continue
			}
			m, ok := asMap(val)
			if !ok {
				return out, invalid(key, val)
			}
			target, err := ConvertTarget(m)
			if err != nil {
				return out, err
			}
			out.Target = target
		case "count":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Count = n
		case "seed":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Seed = int64(n)
		case "genotypes":
			rows, ok := asFloat64Rows(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Genotypes = rows
		case "workers":
			n, ok := asInt(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Workers = n
		case "store":
			s, ok := asString(val)
			if !ok {
				return out, invalid(key, val)
			}
			out.Store = s
		}
	}
	return out, nil
}
