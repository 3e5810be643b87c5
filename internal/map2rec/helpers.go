package map2rec

import "errors"

var ErrUnsupportedKind = errors.New("unsupported map2rec kind")

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	default:
		return "", false
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case float32:
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func asFloat64s(v any) ([]float64, bool) {
	switch xs := v.(type) {
	case []float64:
		return append([]float64(nil), xs...), true
	case []any:
		out := make([]float64, 0, len(xs))
		for _, item := range xs {
			f, ok := asFloat64(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	default:
		return nil, false
	}
}

func asAnySlice(v any) ([]any, bool) {
	switch xs := v.(type) {
	case []any:
		return append([]any(nil), xs...), true
	case []string:
		out := make([]any, 0, len(xs))
		for _, item := range xs {
			out = append(out, item)
		}
		return out, true
	case []int:
		out := make([]any, 0, len(xs))
		for _, item := range xs {
			out = append(out, item)
		}
		return out, true
	case []float64:
		out := make([]any, 0, len(xs))
		for _, item := range xs {
			out = append(out, item)
		}
		return out, true
	default:
		return nil, false
	}
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			key, ok := asString(k)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asFloat64Rows(v any) ([][]float64, bool) {
	raw, ok := asAnySlice(v)
	if !ok {
		return nil, false
	}
	out := make([][]float64, 0, len(raw))
	for _, item := range raw {
		row, ok := asFloat64s(item)
		if !ok {
			return nil, false
		}
		out = append(out, row)
	}
	return out, true
}
