// Package shaping holds the numeric primitives every mapping policy is built
// from. Reshape is the only nonlinearity in the system.
package shaping

import (
	"math"

	"github.com/san-kum/statefield/internal/dimension"
)

// Normalize maps the integer axis domain onto [0,1]. It does not clamp;
// callers pass in-range values.
func Normalize(v float64) float64 {
	return v / dimension.Max
}

// Reshape clamps x to [0,1] and raises it to p. With p > 1 weak signals are
// suppressed while a fully engaged axis still maps to 1.
func Reshape(x, p float64) float64 {
	return math.Pow(Clamp(x, 0, 1), p)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mean returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
