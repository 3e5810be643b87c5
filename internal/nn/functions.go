package nn

import (
	"fmt"
	"math"
)

// Sat clamps value to [min, max].
func Sat(value, max, min float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Clip clamps value to [-1, 1].
func Clip(value float64) float64 {
	return Sat(value, 1, -1)
}

// ScaleValue maps value from [min, max] to [-1, 1].
func ScaleValue(value, max, min float64) float64 {
	if max == min {
		return 0
	}
	return (value*2 - (max + min)) / (max - min)
}

// Avg returns the arithmetic mean of values.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}

// ArgMax returns the index of the first maximum of values, or -1 when empty.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

// Concat joins vectors into a fresh slice.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
