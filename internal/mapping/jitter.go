package mapping

import (
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/jitter"
	"github.com/san-kum/statefield/internal/shaping"
)

// Jitter maps coherence and chaos straight from the current values and
// drives D from the rate of change across the window. D is not clamped:
// a very restless history can push it past MaxD.
type Jitter struct{}

func NewJitter() *Jitter { return &Jitter{} }

func (p *Jitter) Name() string      { return "jitter" }
func (p *Jitter) UsesHistory() bool { return true }

func (p *Jitter) Map(state dimension.StateVector, window []history.Sample) Record {
	normalized := make([]float64, 0, dimension.Count)
	for _, d := range dimension.Registry {
		normalized = append(normalized, shaping.Normalize(float64(state.Get(d.Key))))
	}

	coherence := shaping.Mean(normalized)
	chaos := shaping.Normalize(float64(state.Get(dimension.ChaosLoad)))
	rate := jitter.Rate(window)

	return Record{
		Policy:           p.Name(),
		D:                0.1 + 0.9*(rate/5),
		Lambda:           0.2 + 0.8*(1-chaos),
		Mu:               0.1 + 0.9*(1-coherence),
		Coherence:        coherence,
		Tension:          chaos,
		CoherencePercent: percent(coherence),
		TensionPercent:   percent(chaos),
		Jitter:           rate,
	}
}
