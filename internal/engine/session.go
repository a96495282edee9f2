// Package engine owns the mutable side of statefield: the current state,
// its history store and the last computed record. Everything it derives
// goes through the pure [Compute] function.
//
// A Session is safe to share between the TUI and CLI paths; updates are
// serialized.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/statefield/internal/analysis"
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/jitter"
	"github.com/san-kum/statefield/internal/mapping"
)

// Snapshot is everything presentation needs after one recompute.
type Snapshot struct {
	Sample  history.Sample   `json:"sample"`
	Record  mapping.Record   `json:"params"`
	Verdict analysis.Verdict `json:"verdict"`
	Samples int              `json:"samples"`
}

type Observer interface {
	OnUpdate(s Snapshot)
}

type Session struct {
	mu        sync.Mutex
	store     history.Store
	policy    mapping.Policy
	window    time.Duration
	clock     func() time.Time
	logger    *slog.Logger
	clampD    bool
	observers []Observer
	current   Snapshot
	hasState  bool
}

type Option func(*Session)

func WithWindow(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.window = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClampDiffusion bounds D to mapping.MaxD after every mapping.
func WithClampDiffusion(on bool) Option {
	return func(s *Session) { s.clampD = on }
}

func NewSession(store history.Store, policy mapping.Policy, opts ...Option) *Session {
	s := &Session{
		store:  store,
		policy: policy,
		window: jitter.DefaultWindow,
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Session) Policy() mapping.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy swaps the mapping policy and recomputes the current record
// from stored history without appending.
func (s *Session) SetPolicy(p mapping.Policy) Snapshot {
	s.mu.Lock()
	s.policy = p
	var snap Snapshot
	if s.hasState {
		snap = s.recompute(s.current.Sample, s.nowAfter(s.current.Sample.Timestamp))
		s.current = snap
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	if snap.Record.Policy != "" {
		notify(observers, snap)
	}
	return snap
}

// Update records state as a new sample and recomputes. The only error is a
// failed append; the derived values never fail.
func (s *Session) Update(state dimension.StateVector) (Snapshot, error) {
	s.mu.Lock()

	now := s.clock().UnixMilli()
	if s.hasState {
		now = s.nowAfter(s.current.Sample.Timestamp)
	}
	sample := history.Sample{Timestamp: now, State: state.Clone()}
	if sample.State == nil {
		sample.State = dimension.New(dimension.Min)
	}

	if err := s.store.Append(sample); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}

	snap := s.recompute(sample, sample.Timestamp)
	s.current = snap
	s.hasState = true
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	s.logger.Debug("state recorded",
		"policy", snap.Record.Policy,
		"D", snap.Record.D,
		"lambda", snap.Record.Lambda,
		"mu", snap.Record.Mu,
		"coherence", snap.Record.CoherencePercent,
	)
	notify(observers, snap)
	return snap, nil
}

// Restore loads the newest stored sample and computes its record without
// appending anything. The history window ends at the current clock, not at
// the sample, so a stale history contributes no jitter. It reports false on
// an empty history.
func (s *Session) Restore() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last history.Sample
	var ok bool
	if snap, isSnap := s.store.(history.Snapshotter); isSnap {
		last, ok = snap.LastSnapshot()
	}
	if !ok {
		all := s.loadAll()
		last, ok = history.Last(all)
	}
	if !ok {
		return Snapshot{}, false
	}

	s.current = s.recompute(last, s.nowAfter(last.Timestamp))
	s.hasState = true
	return s.current, true
}

// Preview computes the snapshot state would produce now, against stored
// history, without recording it.
func (s *Session) Preview(state dimension.StateVector) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock().UnixMilli()
	if s.hasState {
		now = s.nowAfter(s.current.Sample.Timestamp)
	}
	return s.recompute(history.Sample{Timestamp: now, State: state.Clone()}, now)
}

// Current returns the last computed snapshot.
func (s *Session) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasState
}

// History returns every stored sample, or an empty slice when the store
// cannot be read.
func (s *Session) History() []history.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// nowAfter is the clock in milliseconds, never earlier than floor.
func (s *Session) nowAfter(floor int64) int64 {
	return max(s.clock().UnixMilli(), floor)
}

// recompute maps sample.State with the history window ending at now.
func (s *Session) recompute(sample history.Sample, now int64) Snapshot {
	var all []history.Sample
	if s.policy.UsesHistory() {
		all = s.loadAll()
		if len(all) == 0 {
			all = []history.Sample{sample}
		}
	}

	snap := Compute(s.policy, sample.State, all, now, s.window)
	if s.clampD {
		snap.Record = mapping.ClampDiffusion(snap.Record)
		snap.Verdict = analysis.Classify(snap.Record, sample.State)
	}
	snap.Sample = sample
	snap.Samples = s.store.Len()
	return snap
}

func (s *Session) loadAll() []history.Sample {
	all, err := s.store.All()
	if err != nil {
		s.logger.Warn("history unavailable, continuing without it", "error", err)
		return nil
	}
	return all
}

// Compute is the pure core: window the history, map, classify.
func Compute(p mapping.Policy, state dimension.StateVector, all []history.Sample, now int64, window time.Duration) Snapshot {
	recent := history.Window(all, now, window)
	record := p.Map(state, recent)
	return Snapshot{
		Sample:  history.Sample{Timestamp: now, State: state},
		Record:  record,
		Verdict: analysis.Classify(record, state),
		Samples: len(all),
	}
}

func notify(observers []Observer, snap Snapshot) {
	for _, o := range observers {
		o.OnUpdate(snap)
	}
}
