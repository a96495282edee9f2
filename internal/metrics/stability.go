package metrics

import "github.com/san-kum/statefield/internal/engine"

const DefaultCalmThreshold = 40

type PeakDiffusion struct {
	name string
	peak float64
	seen bool
}

func NewPeakDiffusion() *PeakDiffusion {
	return &PeakDiffusion{name: "peak_diffusion"}
}

func (m *PeakDiffusion) Name() string { return m.name }

func (m *PeakDiffusion) Observe(p engine.Point) {
	if !m.seen || p.Record.D > m.peak {
		m.peak = p.Record.D
		m.seen = true
	}
}

func (m *PeakDiffusion) Value() float64 { return m.peak }

func (m *PeakDiffusion) Reset() {
	m.peak = 0
	m.seen = false
}

// CalmRatio is the share of points whose tension percent is strictly below
// the threshold.
type CalmRatio struct {
	name      string
	threshold int
	calm      int
	samples   int
}

func NewCalmRatio(threshold int) *CalmRatio {
	return &CalmRatio{name: "calm_ratio", threshold: threshold}
}

func (m *CalmRatio) Name() string { return m.name }

func (m *CalmRatio) Observe(p engine.Point) {
	if p.Record.TensionPercent < m.threshold {
		m.calm++
	}
	m.samples++
}

func (m *CalmRatio) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.calm) / float64(m.samples)
}

func (m *CalmRatio) Reset() {
	m.calm = 0
	m.samples = 0
}
