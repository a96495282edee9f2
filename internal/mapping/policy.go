// Package mapping turns a state vector into the parameter record
// {D, λ, μ, coherence, tension}.
//
// Two policies are registered and kept deliberately distinct:
//
//   - [Jitter] ("jitter"): driven by the rate of change over recent history
//   - [Weighted] ("weighted"): fixed weights over reshaped axes, no history
//
// Weighted is the default. Both are pure: the same state and window always
// produce the same record.
package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
)

// ErrUnknownPolicy indicates a policy name missing from the registry.
var ErrUnknownPolicy = errors.New("mapping: unknown policy")

// DefaultPolicy names the canonical policy.
const DefaultPolicy = "weighted"

type Policy interface {
	Name() string
	// Map derives the record for state. window holds the recent samples,
	// oldest first, already filtered to the policy's look-back.
	Map(state dimension.StateVector, window []history.Sample) Record
	// UsesHistory reports whether Map reads window at all.
	UsesHistory() bool
}

type Registry struct {
	policies map[string]func(params map[string]float64) Policy
	aliases  map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]func(map[string]float64) Policy),
		aliases:  make(map[string]string),
	}

	r.policies["jitter"] = func(params map[string]float64) Policy { return NewJitter() }
	r.policies["weighted"] = func(params map[string]float64) Policy { return NewWeighted(params) }

	r.aliases["a"] = "jitter"
	r.aliases["history"] = "jitter"
	r.aliases["b"] = "weighted"
	r.aliases["static"] = "weighted"

	return r
}

// Get builds the named policy. params are per-axis exponent overrides for
// the weighted policy and are ignored by jitter.
func (r *Registry) Get(name string, params map[string]float64) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultPolicy
	}
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	fn, ok := r.policies[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPolicy, name, r.Names())
	}
	return fn(params), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a policy from the default registry.
func Lookup(name string, params map[string]float64) (Policy, error) {
	return NewRegistry().Get(name, params)
}
