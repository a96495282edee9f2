package viz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/mapping"
)

var (
	ErrUnknownField = errors.New("viz: unknown field")
	ErrNoData       = errors.New("viz: no history to plot")
)

// PlotTimeline charts one record field (see mapping.Fields) across points.
func PlotTimeline(points []engine.Point, field string) (string, error) {
	if !slices.Contains(mapping.Fields, field) {
		return "", fmt.Errorf("%w: %s (available: %v)", ErrUnknownField, field, mapping.Fields)
	}
	if len(points) == 0 {
		return "", ErrNoData
	}

	data := engine.Series(points, field)
	caption := fmt.Sprintf("%s over %d samples (%s)", field, len(points), points[len(points)-1].Record.Policy)
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	), nil
}
