// Package jitter estimates how fast the whole state is changing.
package jitter

import (
	"math"
	"time"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
)

// DefaultWindow is the look-back used by the history-driven policy.
const DefaultWindow = 24 * time.Hour

// Estimate filters samples to the window ending at now (milliseconds) and
// returns their mean rate of change.
func Estimate(samples []history.Sample, now int64, window time.Duration) float64 {
	return Rate(history.Window(samples, now, window))
}

// Rate is the mean over consecutive pairs of the mean absolute per-axis
// change divided by the elapsed seconds. Pairs with a non-positive gap are
// skipped. Fewer than two samples, or no usable pair, gives 0.
func Rate(samples []history.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}

	sum := 0.0
	pairs := 0
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		dt := float64(cur.Timestamp-prev.Timestamp) / 1000
		if dt <= 0 {
			continue
		}
		sum += MeanAbsDelta(prev.State, cur.State) / dt
		pairs++
	}

	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// MeanAbsDelta averages |b_i - a_i| over every registered axis.
func MeanAbsDelta(a, b dimension.StateVector) float64 {
	total := 0.0
	for _, d := range dimension.Registry {
		total += math.Abs(float64(b.Get(d.Key) - a.Get(d.Key)))
	}
	return total / float64(dimension.Count)
}
