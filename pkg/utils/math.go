package utils

import "math"

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundToStep rounds a value to the nearest multiple of step.
// Used for databook-style rated-load rounding (e.g. 25 lbf steps).
func RoundToStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return math.Round(value/step) * step
}

// RelDiff returns the relative difference |a-b| / max(|a|, |b|), or the
// absolute difference when both magnitudes are tiny.
func RelDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1e-12 {
		return diff
	}
	return diff / scale
}
