package morphogenesis

import "slices"

// Percentile estimates the p-th percentile (0 < p <= 100) of values with the
// position rule pos = p*(n+1)/100 and linear interpolation between the
// neighbouring order statistics. Positions before the first or after the
// last element clamp to the minimum and maximum. An empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n+1) / 100
	switch {
	case pos < 1:
		return sorted[0]
	case pos >= float64(n):
		return sorted[n-1]
	}
	lower := int(pos)
	frac := pos - float64(lower)
	lo, hi := sorted[lower-1], sorted[lower]
	return lo + frac*(hi-lo)
}
