package analysis

import (
	"strings"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/mapping"
	"github.com/san-kum/statefield/internal/shaping"
)

type Axis string

const (
	AxisCoherence Axis = "coherence"
	AxisChaos     Axis = "chaos"
	AxisD         Axis = "D"
	AxisLambda    Axis = "lambda"
	AxisMu        Axis = "mu"
)

// Finding is the outcome of one ladder.
type Finding struct {
	Axis  Axis    `json:"axis"`
	Level string  `json:"level"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type Verdict struct {
	Findings []Finding `json:"findings"`
}

func (v Verdict) Text() string {
	parts := make([]string, len(v.Findings))
	for i, f := range v.Findings {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

func (v Verdict) Sentences() []string {
	out := make([]string, len(v.Findings))
	for i, f := range v.Findings {
		out[i] = f.Text
	}
	return out
}

// Find returns the finding for axis, if present.
func (v Verdict) Find(axis Axis) (Finding, bool) {
	for _, f := range v.Findings {
		if f.Axis == axis {
			return f, true
		}
	}
	return Finding{}, false
}

type rung struct {
	match func(x float64) bool
	level string
	text  string
}

type ladder struct {
	axis  Axis
	rungs []rung
}

func atLeast(t float64) func(float64) bool {
	return func(x float64) bool {
		return x >= t
	}
}

func atMost(t float64) func(float64) bool {
	return func(x float64) bool {
		return x <= t
	}
}

func below(t float64) func(float64) bool {
	return func(x float64) bool {
		return x < t
	}
}

func above(t float64) func(float64) bool {
	return func(x float64) bool {
		return x > t
	}
}

func always(float64) bool {
	return true
}

var (
	coherenceLadder = ladder{AxisCoherence, []rung{
		{atLeast(80), "high", "The field is highly coherent: the dimensions are pulling in the same direction."},
		{atLeast(55), "moderate", "The field is moderately coherent, with a few axes out of phase."},
		{atLeast(35), "fragile", "Coherence is fragile; several axes are working against each other."},
		{always, "decoherent", "The field is near decoherence: the state is fragmented across its axes."},
	}}

	chaosLadder = ladder{AxisChaos, []rung{
		{atMost(0.2), "minimal", "Chaos load is minimal."},
		{atMost(0.45), "manageable", "Chaos load is present but manageable."},
		{atMost(0.7), "high", "Chaos load is high and starting to dominate."},
		{always, "overwhelming", "Chaos load is overwhelming the system."},
	}}

	diffusionLadder = ladder{AxisD, []rung{
		{below(0.4), "low", "Diffusion is low: the state is settled and focused."},
		{below(0.9), "moderate", "Diffusion is moderate: there is room for drift and exploration."},
		{always, "high", "Diffusion is high: attention and effort are scattering."},
	}}

	lambdaLadder = ladder{AxisLambda, []rung{
		{above(1.1), "strong", "Attractor pull is strong: resources and support are drawing you toward your goals."},
		{above(0.5), "steady", "Attractor pull is steady."},
		{always, "weak", "Attractor pull is weak: little is holding the trajectory on course."},
	}}

	muLadder = ladder{AxisMu, []rung{
		{above(1.0), "intense", "Aliasing pressure is intense: meanings are inverting quickly."},
		{above(0.5), "active", "Aliasing pressure is active: reinterpretation is underway."},
		{always, "quiet", "Aliasing pressure is quiet."},
	}}
)

func (l ladder) evaluate(x float64) Finding {
	for _, r := range l.rungs {
		if r.match(x) {
			return Finding{Axis: l.axis, Level: r.level, Value: x, Text: r.text}
		}
	}
	last := l.rungs[len(l.rungs)-1]
	return Finding{Axis: l.axis, Level: last.level, Value: x, Text: last.text}
}

// ChaosLevel is Chaos_Load scaled to [0,1].
func ChaosLevel(state dimension.StateVector) float64 {
	return shaping.Clamp(float64(state.Get(dimension.ChaosLoad))/dimension.Max, 0, 1)
}

// Classify evaluates every ladder against r and the raw chaos value.
func Classify(r mapping.Record, state dimension.StateVector) Verdict {
	return Verdict{Findings: []Finding{
		coherenceLadder.evaluate(float64(r.CoherencePercent)),
		chaosLadder.evaluate(ChaosLevel(state)),
		diffusionLadder.evaluate(r.D),
		lambdaLadder.evaluate(r.Lambda),
		muLadder.evaluate(r.Mu),
	}}
}
