package engine

import (
	"time"

	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
)

// Point is one replayed sample with the record it produced.
type Point struct {
	Sample history.Sample
	Record mapping.Record
}

// Timeline replays samples in order as though each had just been recorded,
// so every point only sees the history that existed at its own timestamp.
func Timeline(samples []history.Sample, p mapping.Policy, window time.Duration, clampD bool) []Point {
	points := make([]Point, 0, len(samples))
	for i, s := range samples {
		var seen []history.Sample
		if p.UsesHistory() {
			seen = samples[:i+1]
		}
		snap := Compute(p, s.State, seen, s.Timestamp, window)
		if clampD {
			snap.Record = mapping.ClampDiffusion(snap.Record)
		}
		points = append(points, Point{Sample: s, Record: snap.Record})
	}
	return points
}

// Series extracts one named field from every point.
func Series(points []Point, field string) []float64 {
	out := make([]float64, len(points))
	for i, pt := range points {
		out[i] = pt.Record.Values()[field]
	}
	return out
}
