// Package automation replays scripted state sequences and sweeps single
// axes, without touching the persistent history.
package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/statefield/internal/config"
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
)

// Scenario is a scripted sequence of recorded states.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Policy      string         `yaml:"policy"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep records one state. Preset replaces the running state before
// Set is applied; After is the gap since the previous step.
type ScenarioStep struct {
	Preset string         `yaml:"preset"`
	Set    map[string]int `yaml:"set"`
	After  time.Duration  `yaml:"after"`
	Note   string         `yaml:"note"`
}

// scenarioEpoch is the fixed start time of every replay, so runs are
// reproducible.
var scenarioEpoch = time.UnixMilli(1_700_000_000_000)

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// StepResult is the snapshot after one step.
type StepResult struct {
	Step     int
	Note     string
	Elapsed  time.Duration
	Snapshot engine.Snapshot
}

// RunScenario plays every step through an in-memory session. policy
// overrides the scenario's own policy when non-nil; otherwise the named
// policy is built with exponents.
func RunScenario(ctx context.Context, scenario *Scenario, policy mapping.Policy, exponents map[string]float64, opts ...engine.Option) ([]StepResult, error) {
	if policy == nil {
		p, err := mapping.Lookup(scenario.Policy, exponents)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	now := scenarioEpoch
	opts = append(opts, engine.WithClock(func() time.Time { return now }))
	session := engine.NewSession(history.NewMemory(0), policy, opts...)

	results := make([]StepResult, 0, len(scenario.Steps))
	state := dimension.New(dimension.Min)

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if step.Preset != "" {
			preset := config.GetPreset(step.Preset)
			if preset == nil {
				return results, fmt.Errorf("step %d: unknown preset %s", i+1, step.Preset)
			}
			state = preset
		} else {
			state = state.Clone()
		}
		for name, v := range step.Set {
			d, ok := dimension.Lookup(name)
			if !ok {
				return results, fmt.Errorf("step %d: unknown dimension %s", i+1, name)
			}
			state.Set(d.Key, v)
		}

		if step.After > 0 {
			now = now.Add(step.After)
		}

		snap, err := session.Update(state)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:     i + 1,
			Note:     step.Note,
			Elapsed:  now.Sub(scenarioEpoch),
			Snapshot: snap,
		})
	}

	return results, nil
}

// SweepResult holds the record for one value of the swept axis.
type SweepResult struct {
	Value  int
	Record mapping.Record
}

// RunSweep maps base with axis set to every value in [Min, Max]. Only
// history-free mapping is meaningful here, so the window is always empty.
func RunSweep(base dimension.StateVector, axis dimension.Key, policy mapping.Policy) []SweepResult {
	results := make([]SweepResult, 0, dimension.Max-dimension.Min+1)
	for v := dimension.Min; v <= dimension.Max; v++ {
		state := base.Clone()
		if state == nil {
			state = dimension.New(dimension.Min)
		}
		state.Set(axis, v)
		results = append(results, SweepResult{Value: v, Record: policy.Map(state, nil)})
	}
	return results
}
