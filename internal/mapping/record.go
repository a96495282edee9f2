package mapping

import "math"

// Observable ceilings. Percent displays divide by these, so they are part
// of the output contract.
const (
	MaxD       = 1.8
	MaxLambda  = 1.5
	MaxMu      = 1.5
	MaxTension = 1.4
)

// Record is the derived parameter set for one state. All reals are full
// precision; rounding for display is left to the caller.
type Record struct {
	Policy           string  `json:"policy"`
	D                float64 `json:"D"`
	Lambda           float64 `json:"lambda"`
	Mu               float64 `json:"mu"`
	Coherence        float64 `json:"coherence"`
	Tension          float64 `json:"tension"`
	CoherencePercent int     `json:"coherence_percent"`
	TensionPercent   int     `json:"tension_percent"`
	Jitter           float64 `json:"jitter"`
}

// ClampDiffusion bounds D to [0, MaxD]. The jitter policy leaves D
// unbounded so callers that need the ceiling apply it here.
func ClampDiffusion(r Record) Record {
	r.D = math.Max(0, math.Min(r.D, MaxD))
	return r
}

// Values returns the named scalar series used by plots and exports.
func (r Record) Values() map[string]float64 {
	return map[string]float64{
		"D":         r.D,
		"lambda":    r.Lambda,
		"mu":        r.Mu,
		"coherence": r.Coherence,
		"tension":   r.Tension,
		"jitter":    r.Jitter,
	}
}

// Fields lists the keys of Values in display order.
var Fields = []string{"D", "lambda", "mu", "coherence", "tension", "jitter"}

func percent(x float64) int {
	return int(math.Round(x * 100))
}
