package analysis

import (
	"strings"
	"testing"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/mapping"
)

func level(t *testing.T, v Verdict, axis Axis) string {
	t.Helper()
	f, ok := v.Find(axis)
	if !ok {
		t.Fatalf("verdict has no %s finding", axis)
	}
	return f.Level
}

func TestCoherenceBoundaries(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{100, "high"},
		{80, "high"},
		{79, "moderate"},
		{55, "moderate"},
		{54, "fragile"},
		{35, "fragile"},
		{34, "decoherent"},
		{0, "decoherent"},
	}

	state := dimension.New(0)
	for _, tt := range tests {
		v := Classify(mapping.Record{CoherencePercent: tt.percent}, state)
		if got := level(t, v, AxisCoherence); got != tt.want {
			t.Errorf("coherence %d%%: got %s, want %s", tt.percent, got, tt.want)
		}
	}
}

func TestChaosBoundaries(t *testing.T) {
	tests := []struct {
		chaos int
		want  string
	}{
		{0, "minimal"},
		{1, "minimal"}, // 0.2
		{2, "manageable"},
		{3, "high"}, // 0.6
		{4, "overwhelming"},
		{5, "overwhelming"},
	}

	for _, tt := range tests {
		state := dimension.New(0)
		state.Set(dimension.ChaosLoad, tt.chaos)
		v := Classify(mapping.Record{}, state)
		if got := level(t, v, AxisChaos); got != tt.want {
			t.Errorf("chaos %d: got %s, want %s", tt.chaos, got, tt.want)
		}
	}
}

func TestDiffusionBoundaries(t *testing.T) {
	tests := []struct {
		d    float64
		want string
	}{
		{0, "low"},
		{0.3999, "low"},
		{0.4, "moderate"},
		{0.8999, "moderate"},
		{0.9, "high"},
		{2.5, "high"},
	}
	for _, tt := range tests {
		v := Classify(mapping.Record{D: tt.d}, dimension.New(0))
		if got := level(t, v, AxisD); got != tt.want {
			t.Errorf("D %v: got %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestLambdaBoundaries(t *testing.T) {
	tests := []struct {
		lambda float64
		want   string
	}{
		{1.5, "strong"},
		{1.1001, "strong"},
		{1.1, "steady"},
		{0.5001, "steady"},
		{0.5, "weak"},
		{0, "weak"},
	}
	for _, tt := range tests {
		v := Classify(mapping.Record{Lambda: tt.lambda}, dimension.New(0))
		if got := level(t, v, AxisLambda); got != tt.want {
			t.Errorf("lambda %v: got %s, want %s", tt.lambda, got, tt.want)
		}
	}
}

func TestMuBoundaries(t *testing.T) {
	tests := []struct {
		mu   float64
		want string
	}{
		{1.5, "intense"},
		{1.0, "active"},
		{0.5001, "active"},
		{0.5, "quiet"},
		{0, "quiet"},
	}
	for _, tt := range tests {
		v := Classify(mapping.Record{Mu: tt.mu}, dimension.New(0))
		if got := level(t, v, AxisMu); got != tt.want {
			t.Errorf("mu %v: got %s, want %s", tt.mu, got, tt.want)
		}
	}
}

func TestVerdictOrderAndText(t *testing.T) {
	v := Classify(mapping.Record{CoherencePercent: 90, D: 0.1, Lambda: 1.2, Mu: 0.2}, dimension.New(0))

	order := []Axis{AxisCoherence, AxisChaos, AxisD, AxisLambda, AxisMu}
	if len(v.Findings) != len(order) {
		t.Fatalf("expected %d findings, got %d", len(order), len(v.Findings))
	}
	for i, axis := range order {
		if v.Findings[i].Axis != axis {
			t.Errorf("finding %d: got %s, want %s", i, v.Findings[i].Axis, axis)
		}
	}

	text := v.Text()
	if !strings.HasPrefix(text, "The field is highly coherent") {
		t.Errorf("unexpected text start: %q", text)
	}
	if len(v.Sentences()) != 5 {
		t.Errorf("expected 5 sentences, got %d", len(v.Sentences()))
	}
}

func TestAllZeroWeightedIsDecoherent(t *testing.T) {
	state := dimension.New(0)
	r := mapping.NewWeighted(nil).Map(state, nil)
	v := Classify(r, state)

	if got := level(t, v, AxisCoherence); got != "decoherent" {
		t.Errorf("expected decoherent, got %s", got)
	}
	if !strings.Contains(v.Text(), "near decoherence") {
		t.Errorf("verdict should mention decoherence: %q", v.Text())
	}
	if got := level(t, v, AxisChaos); got != "minimal" {
		t.Errorf("chaos level = %s, want minimal", got)
	}
}

func TestMaxedScenarioBuckets(t *testing.T) {
	state := dimension.New(5)
	state.Set(dimension.CreativeOutput, 0)
	state.Set(dimension.ChaosLoad, 0)

	v := Classify(mapping.NewWeighted(nil).Map(state, nil), state)

	// lambda sums to exactly 1.0 here, the top of the steady bucket
	if got := level(t, v, AxisLambda); got != "steady" {
		t.Errorf("lambda bucket = %s, want steady", got)
	}
	if got := level(t, v, AxisMu); got != "quiet" {
		t.Errorf("mu bucket = %s, want quiet", got)
	}
	if got := level(t, v, AxisD); got != "low" {
		t.Errorf("D bucket = %s, want low", got)
	}
	if got := level(t, v, AxisCoherence); got != "high" {
		t.Errorf("coherence bucket = %s, want high", got)
	}
}

func TestChaosLevelClamps(t *testing.T) {
	sv := dimension.StateVector{dimension.ChaosLoad: 9}
	if ChaosLevel(sv) != 1 {
		t.Errorf("ChaosLevel should clamp to 1, got %v", ChaosLevel(sv))
	}
}
