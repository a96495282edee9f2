// Package metrics summarizes a replayed timeline.
package metrics

import "github.com/san-kum/statefield/internal/engine"

type Metric interface {
	Name() string
	Observe(p engine.Point)
	Value() float64
	Reset()
}

// Default returns the metric set used by the stats command.
func Default() []Metric {
	return []Metric{
		NewMeanCoherence(),
		NewPeakDiffusion(),
		NewCalmRatio(DefaultCalmThreshold),
		NewMeanJitter(),
	}
}

// Summarize resets each metric, feeds it every point and collects the values
// by metric name.
func Summarize(points []engine.Point, metrics ...Metric) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		m.Reset()
		for _, p := range points {
			m.Observe(p)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

type mean struct {
	sum     float64
	samples int
}

func (m *mean) add(x float64) {
	m.sum += x
	m.samples++
}

func (m *mean) value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) reset() {
	m.sum = 0
	m.samples = 0
}
