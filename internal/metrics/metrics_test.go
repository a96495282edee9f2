package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/mapping"
)

func point(r mapping.Record) engine.Point { return engine.Point{Record: r} }

func TestSummarize(t *testing.T) {
	points := []engine.Point{
		point(mapping.Record{Coherence: 0.2, D: 0.5, TensionPercent: 10, Jitter: 1}),
		point(mapping.Record{Coherence: 0.6, D: 1.2, TensionPercent: 60, Jitter: 0}),
		point(mapping.Record{Coherence: 1.0, D: 0.3, TensionPercent: 39, Jitter: 2}),
		point(mapping.Record{Coherence: 0.2, D: 0.9, TensionPercent: 40, Jitter: 1}),
	}

	got := Summarize(points, Default()...)
	want := map[string]float64{
		"mean_coherence": 0.5,
		"peak_diffusion": 1.2,
		"calm_ratio":     0.5,
		"mean_jitter":    1,
	}
	for name, w := range want {
		if math.Abs(got[name]-w) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
	}
}

func TestEmptyTimeline(t *testing.T) {
	got := Summarize(nil, Default()...)
	if len(got) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(got))
	}
	for name, v := range got {
		if v != 0 {
			t.Errorf("%s on empty timeline = %v, want 0", name, v)
		}
	}
}

func TestSummarizeResets(t *testing.T) {
	m := NewPeakDiffusion()
	Summarize([]engine.Point{point(mapping.Record{D: 1.7})}, m)
	got := Summarize([]engine.Point{point(mapping.Record{D: 0.2})}, m)
	if got["peak_diffusion"] != 0.2 {
		t.Errorf("peak should reset between runs, got %v", got["peak_diffusion"])
	}
}
