package viz

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
)

func TestEquationLabel(t *testing.T) {
	got := EquationLabel(mapping.Record{D: 1.15, Lambda: 0.5, Mu: 0.25})
	want := "i ∂ψ/∂t (t,z) = - 1.150 ∇ᵗ_z ∇_z ψ(t,z) + (0.500 / |z|²) ψ(t,z) + 0.250 ψ(t,z)"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name string
		r    mapping.Record
		want string
	}{
		{
			"weighted",
			mapping.Record{Policy: "weighted", CoherencePercent: 85, TensionPercent: 3, D: 0.7, Lambda: 1, Mu: 0.25},
			"Coherence: 85% | Tension: 3% | D = 0.700 | λ = 1.000 | μ = 0.250",
		},
		{
			"jitter reports chaos",
			mapping.Record{Policy: "jitter", CoherencePercent: 50, Tension: 0.6, TensionPercent: 60, D: 0.1, Lambda: 0.52, Mu: 0.55},
			"Coherence: 50% | Chaos: 60.0% | D = 0.100 | λ = 0.520 | μ = 0.550",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Feedback(tt.r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlotTimeline(t *testing.T) {
	samples := []history.Sample{
		{Timestamp: 0, State: dimension.New(1)},
		{Timestamp: 1000, State: dimension.New(4)},
		{Timestamp: 2000, State: dimension.New(2)},
	}
	points := engine.Timeline(samples, mapping.NewWeighted(nil), time.Hour, false)

	out, err := PlotTimeline(points, "coherence")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "coherence over 3 samples (weighted)") {
		t.Errorf("missing caption in plot:\n%s", out)
	}

	if _, err := PlotTimeline(points, "entropy"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if _, err := PlotTimeline(nil, "D"); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func newBoard(t *testing.T) (Board, *engine.Session) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := engine.NewSession(history.NewMemory(history.DefaultRetention), mapping.NewWeighted(nil), engine.WithLogger(logger))
	return NewBoard(s, nil, nil), s
}

func press(t *testing.T, b Board, keys ...tea.KeyMsg) Board {
	t.Helper()
	for _, k := range keys {
		m, _ := b.Update(k)
		b = m.(Board)
	}
	return b
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	up   = tea.KeyMsg{Type: tea.KeyUp}
	down = tea.KeyMsg{Type: tea.KeyDown}
)

func TestBoardStartsAtDefault(t *testing.T) {
	b, s := newBoard(t)
	if !b.State().Equal(dimension.New(3)) {
		t.Errorf("expected all-3 start, got %v", b.State())
	}
	if len(s.History()) != 0 {
		t.Error("opening the board must not record anything")
	}
	if b.Snapshot().Record.Policy != "weighted" {
		t.Errorf("start snapshot policy = %q", b.Snapshot().Record.Policy)
	}
}

func TestBoardAdjustRecords(t *testing.T) {
	b, s := newBoard(t)

	b = press(t, b, runes("l"))
	if b.State().Get(dimension.Energy) != 4 {
		t.Errorf("Energy = %d, want 4", b.State().Get(dimension.Energy))
	}

	b = press(t, b, down, runes("h"))
	if b.State().Get(dimension.Focus) != 2 {
		t.Errorf("Focus = %d, want 2", b.State().Get(dimension.Focus))
	}

	b = press(t, b, runes("5"))
	if b.State().Get(dimension.Focus) != 5 {
		t.Errorf("Focus = %d, want 5", b.State().Get(dimension.Focus))
	}
	if n := len(s.History()); n != 3 {
		t.Errorf("expected 3 recorded samples, got %d", n)
	}

	cur, _ := s.Current()
	if b.Snapshot().Record != cur.Record {
		t.Error("board should show the session's current record")
	}
}

func TestBoardAtBoundDoesNotRecord(t *testing.T) {
	b, s := newBoard(t)
	b = press(t, b, runes("5"), runes("l"), runes("+"))
	if b.State().Get(dimension.Energy) != 5 {
		t.Errorf("Energy = %d, want 5", b.State().Get(dimension.Energy))
	}
	if n := len(s.History()); n != 1 {
		t.Errorf("clamped presses must not record, got %d samples", n)
	}
}

func TestBoardCursorBounds(t *testing.T) {
	b, _ := newBoard(t)
	b = press(t, b, up)
	if b.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", b.Cursor())
	}
	for i := 0; i < 20; i++ {
		b = press(t, b, down)
	}
	if b.Cursor() != dimension.Count-1 {
		t.Errorf("cursor = %d, want %d", b.Cursor(), dimension.Count-1)
	}
}

func TestBoardSwitchPolicy(t *testing.T) {
	b, s := newBoard(t)
	b = press(t, b, runes("p"))
	if s.Policy().Name() != "jitter" {
		t.Errorf("session policy = %s, want jitter", s.Policy().Name())
	}
	if b.Snapshot().Record.Policy != "jitter" {
		t.Errorf("board record policy = %s", b.Snapshot().Record.Policy)
	}

	b = press(t, b, runes("p"))
	if s.Policy().Name() != "weighted" {
		t.Errorf("policy should cycle back, got %s", s.Policy().Name())
	}
}

func TestBoardQuit(t *testing.T) {
	b, _ := newBoard(t)
	_, cmd := b.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBoardView(t *testing.T) {
	b, _ := newBoard(t)
	view := b.View()
	for _, want := range []string{"STATEFIELD", "Coherence:", "Long term Trajectory", "∂ψ/∂t"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
