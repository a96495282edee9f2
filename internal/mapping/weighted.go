package mapping

import (
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/shaping"
)

// Exponent bounds for the per-axis reshape curve.
const (
	MinExponent = 1.1
	MaxExponent = 1.25
)

// DefaultExponents: axes that only matter once strongly engaged (creative
// output, chaos) get the steepest curve.
var DefaultExponents = map[dimension.Key]float64{
	dimension.Energy:             1.20,
	dimension.Focus:              1.15,
	dimension.Money:              1.10,
	dimension.Relationships:      1.15,
	dimension.CreativeOutput:     1.25,
	dimension.SkillGrowth:        1.15,
	dimension.Health:             1.10,
	dimension.Environment:        1.10,
	dimension.SocialPresence:     1.20,
	dimension.Opportunities:      1.20,
	dimension.ChaosLoad:          1.25,
	dimension.LongTermTrajectory: 1.15,
}

// Weighted combines reshaped axes with fixed weights. It ignores history.
type Weighted struct {
	exponents map[dimension.Key]float64
}

// NewWeighted applies overrides keyed by dimension name on top of
// DefaultExponents. Overrides are clamped to [MinExponent, MaxExponent];
// unknown names are ignored.
func NewWeighted(overrides map[string]float64) *Weighted {
	exps := make(map[dimension.Key]float64, len(DefaultExponents))
	for k, v := range DefaultExponents {
		exps[k] = v
	}
	for name, v := range overrides {
		d, ok := dimension.Lookup(name)
		if !ok {
			continue
		}
		exps[d.Key] = shaping.Clamp(v, MinExponent, MaxExponent)
	}
	return &Weighted{exponents: exps}
}

func (p *Weighted) Name() string      { return "weighted" }
func (p *Weighted) UsesHistory() bool { return false }

func (p *Weighted) Exponent(k dimension.Key) float64 {
	return p.exponents[k]
}

func (p *Weighted) shaped(state dimension.StateVector, k dimension.Key) float64 {
	return shaping.Reshape(shaping.Normalize(float64(state.Get(k))), p.exponents[k])
}

func (p *Weighted) Map(state dimension.StateVector, _ []history.Sample) Record {
	n := make(map[dimension.Key]float64, dimension.Count)
	for _, d := range dimension.Registry {
		n[d.Key] = p.shaped(state, d.Key)
	}

	d := 0.45*(1-n[dimension.Focus]) +
		0.35*(1-n[dimension.SkillGrowth]) +
		0.35*(1-n[dimension.Environment]) +
		0.7*n[dimension.ChaosLoad]
	d = shaping.Clamp(d, 0, MaxD)

	lambda := 0.25*n[dimension.Energy] +
		0.18*n[dimension.Money] +
		0.18*n[dimension.Relationships] +
		0.12*n[dimension.Opportunities] +
		0.10*n[dimension.SocialPresence] +
		0.09*n[dimension.Health] +
		0.08*n[dimension.LongTermTrajectory]
	lambda = shaping.Clamp(lambda, 0, MaxLambda)

	mu := 0.45*n[dimension.CreativeOutput] +
		0.30*n[dimension.ChaosLoad] +
		0.25*n[dimension.LongTermTrajectory]
	mu = shaping.Clamp(mu, 0, MaxMu)

	calm := make([]float64, 0, dimension.Count-1)
	for _, dim := range dimension.Registry {
		if dim.Key == dimension.ChaosLoad {
			continue
		}
		calm = append(calm, n[dim.Key])
	}

	coherence := 0.6*shaping.Mean(calm) +
		0.2*n[dimension.LongTermTrajectory] +
		0.15*(lambda/MaxLambda) -
		0.35*n[dimension.ChaosLoad] -
		0.25*(d/MaxD)
	coherence = shaping.Clamp(coherence, 0, 1)

	tension := 0.55*(lambda/MaxLambda) +
		0.35*(mu/MaxMu) +
		0.10*(1-d/MaxD)
	tension = shaping.Clamp(tension, 0, MaxTension)

	return Record{
		Policy:           p.Name(),
		D:                d,
		Lambda:           lambda,
		Mu:               mu,
		Coherence:        coherence,
		Tension:          tension,
		CoherencePercent: percent(coherence),
		TensionPercent:   percent(tension / MaxTension),
	}
}
