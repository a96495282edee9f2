package metrics

import "github.com/san-kum/statefield/internal/engine"

// MeanCoherence averages the raw coherence value in [0,1].
type MeanCoherence struct {
	name string
	acc  mean
}

func NewMeanCoherence() *MeanCoherence {
	return &MeanCoherence{name: "mean_coherence"}
}

func (m *MeanCoherence) Name() string { return m.name }

func (m *MeanCoherence) Observe(p engine.Point) { m.acc.add(p.Record.Coherence) }

func (m *MeanCoherence) Value() float64 { return m.acc.value() }

func (m *MeanCoherence) Reset() { m.acc.reset() }

// MeanJitter averages the jitter rate. Policies that ignore history always
// report zero.
type MeanJitter struct {
	name string
	acc  mean
}

func NewMeanJitter() *MeanJitter {
	return &MeanJitter{name: "mean_jitter"}
}

func (m *MeanJitter) Name() string { return m.name }

func (m *MeanJitter) Observe(p engine.Point) { m.acc.add(p.Record.Jitter) }

func (m *MeanJitter) Value() float64 { return m.acc.value() }

func (m *MeanJitter) Reset() { m.acc.reset() }
