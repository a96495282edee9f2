package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/mapping"
)

// sparkWidth is the number of recent D values kept for the sparkline.
const sparkWidth = 32

// Board is the slider board. It is a value type in the Bubble Tea style:
// Update returns the next Board.
type Board struct {
	session   *engine.Session
	registry  *mapping.Registry
	exponents map[string]float64

	state  dimension.StateVector
	cursor int
	snap   engine.Snapshot
	trail  []float64
	err    error
	width  int
}

// NewBoard starts from initial, or from the last stored sample when initial
// is nil, or from the slider default of 3 on an empty history.
// Nothing is recorded until the first change.
func NewBoard(session *engine.Session, initial dimension.StateVector, exponents map[string]float64) Board {
	b := Board{
		session:   session,
		registry:  mapping.NewRegistry(),
		exponents: exponents,
		width:     80,
	}

	switch {
	case initial != nil:
		b.state = initial.Clone()
		b.snap = session.Preview(b.state)
	default:
		if snap, ok := session.Restore(); ok {
			b.state = snap.Sample.State.Clone()
			b.snap = snap
		} else {
			b.state = dimension.New(3)
			b.snap = session.Preview(b.state)
		}
	}

	b.trail = append(b.trail, b.snap.Record.D)
	return b
}

func (b Board) State() dimension.StateVector { return b.state.Clone() }

func (b Board) Snapshot() engine.Snapshot { return b.snap }

func (b Board) Cursor() int { return b.cursor }

func (b Board) Err() error { return b.err }

func (b Board) Init() tea.Cmd { return nil }

func (b Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
	}
	return b, nil
}

func (b Board) handleKey(msg tea.KeyMsg) (Board, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < dimension.Count-1 {
			b.cursor++
		}
	case "left", "h", "-":
		b = b.adjust(-1)
	case "right", "l", "+", "=":
		b = b.adjust(1)
	case "0", "1", "2", "3", "4", "5":
		b = b.set(int(key[0] - '0'))
	case "p":
		b = b.nextPolicy()
	}
	return b, nil
}

func (b Board) selected() dimension.Key {
	return dimension.Registry[b.cursor].Key
}

func (b Board) adjust(delta int) Board {
	return b.set(b.state.Get(b.selected()) + delta)
}

// set records a new value for the selected axis. Values already at a bound
// are not re-recorded.
func (b Board) set(v int) Board {
	k := b.selected()
	before := b.state.Get(k)
	next := b.state.Clone()
	next.Set(k, v)
	if next.Get(k) == before {
		return b
	}

	snap, err := b.session.Update(next)
	if err != nil {
		b.err = err
		return b
	}
	b.err = nil
	b.state = next
	b.snap = snap
	b.trail = append(b.trail, snap.Record.D)
	if len(b.trail) > sparkWidth {
		b.trail = b.trail[len(b.trail)-sparkWidth:]
	}
	return b
}

func (b Board) nextPolicy() Board {
	names := b.registry.Names()
	current := b.session.Policy().Name()
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}

	p, err := b.registry.Get(next, b.exponents)
	if err != nil {
		b.err = err
		return b
	}
	if snap := b.session.SetPolicy(p); snap.Record.Policy != "" {
		b.snap = snap
	} else {
		b.snap = b.session.Preview(b.state)
	}
	b.err = nil
	return b
}

func (b Board) View() string {
	var sb strings.Builder

	sb.WriteString("\n  " + TitleStyle.Render("STATEFIELD") + "  " + Subtle.Render("policy: "+b.snap.Record.Policy) + "\n")
	sb.WriteString("  " + Separator(max(0, min(b.width-4, 60))) + "\n\n")

	for i, d := range dimension.Registry {
		v := b.state.Get(d.Key)
		bar := ProgressBar(float64(v)/dimension.Max, 10)
		label := fmt.Sprintf("%-22s", d.Label)
		if i == b.cursor {
			sb.WriteString(fmt.Sprintf("  %s %s %s %s\n", NeonGlow.Render("▸"), NeonGlow.Render(label), bar, MetricValue.Render(fmt.Sprint(v))))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", MetricLabel.Render(label), bar, Subtle.Render(fmt.Sprint(v))))
		}
	}

	sb.WriteString("\n  " + MetricValue.Render(Feedback(b.snap.Record)) + "\n")
	sb.WriteString("  " + Subtle.Render(EquationLabel(b.snap.Record)) + "\n")
	sb.WriteString("  " + MetricLabel.Render("D ") + SparklineChart(b.trail, sparkWidth) + "\n\n")

	var verdict strings.Builder
	for _, line := range b.snap.Verdict.Sentences() {
		verdict.WriteString(line + "\n")
	}
	sb.WriteString(Panel.Render(strings.TrimRight(verdict.String(), "\n")) + "\n")

	if b.err != nil {
		sb.WriteString("\n  " + ErrorStyle.Render("error: "+b.err.Error()) + "\n")
	}

	sb.WriteString("\n  " + KeyHint.Render("j/k select  h/l adjust  0-5 set  p policy  q quit") + "\n")
	return sb.String()
}
