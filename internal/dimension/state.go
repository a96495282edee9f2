package dimension

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// StateVector maps every registered key to a value in [Min, Max]. The
// constructors in this file always return a vector with all keys present.
type StateVector map[Key]int

// New returns a vector with every axis set to fill (clamped).
func New(fill int) StateVector {
	sv := make(StateVector, len(Registry))
	for _, d := range Registry {
		sv[d.Key] = clampInt(fill)
	}
	return sv
}

// FromMap builds a vector from loosely typed input. Unknown keys are
// dropped, missing keys become 0, and values go through Coerce.
func FromMap(m map[string]any) StateVector {
	sv := New(Min)
	for name, raw := range m {
		d, ok := Lookup(name)
		if !ok {
			continue
		}
		sv[d.Key] = Coerce(raw)
	}
	return sv
}

// FromPositional decodes the legacy array form. Missing trailing entries
// become 0; extra entries are ignored.
func FromPositional(values []float64) StateVector {
	sv := New(Min)
	for i, d := range Registry {
		if i < len(values) {
			sv[d.Key] = Coerce(values[i])
		}
	}
	return sv
}

// Coerce converts an arbitrary value to an in-range integer.
func Coerce(raw any) int {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case float64:
		f = v
	case float32:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return Min
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Min
		}
		f = parsed
	case bool:
		if v {
			f = 1
		}
	default:
		return Min
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Min
	}
	return clampInt(int(math.Round(math.Max(math.Min(f, Max), Min))))
}

func isPairSep(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// Parse reads "Energy=4,Focus=2" or whitespace separated pairs on top of
// base. A nil base starts from all zeros.
func Parse(base StateVector, pairs ...string) (StateVector, error) {
	sv := base.Clone()
	if sv == nil {
		sv = New(Min)
	}
	for _, arg := range pairs {
		for _, field := range strings.FieldsFunc(arg, isPairSep) {
			name, value, ok := strings.Cut(field, "=")
			if !ok {
				return nil, fmt.Errorf("expected key=value, got %q", field)
			}
			d, found := Lookup(name)
			if !found {
				return nil, fmt.Errorf("unknown dimension: %s", strings.TrimSpace(name))
			}
			sv[d.Key] = Coerce(value)
		}
	}
	return sv, nil
}

func (sv StateVector) Get(k Key) int {
	return clampInt(sv[k])
}

// Set stores v for k, clamped to the domain.
func (sv StateVector) Set(k Key, v int) {
	if Index(k) < 0 {
		return
	}
	sv[k] = clampInt(v)
}

func (sv StateVector) Clone() StateVector {
	if sv == nil {
		return nil
	}
	c := make(StateVector, len(Registry))
	for _, d := range Registry {
		c[d.Key] = sv.Get(d.Key)
	}
	return c
}

func (sv StateVector) Equal(other StateVector) bool {
	for _, d := range Registry {
		if sv.Get(d.Key) != other.Get(d.Key) {
			return false
		}
	}
	return true
}

// Positional returns values in registry order.
func (sv StateVector) Positional() []int {
	out := make([]int, len(Registry))
	for i, d := range Registry {
		out[i] = sv.Get(d.Key)
	}
	return out
}

// Sum of all axis values.
func (sv StateVector) Sum() int {
	total := 0
	for _, d := range Registry {
		total += sv.Get(d.Key)
	}
	return total
}

func (sv StateVector) String() string {
	parts := make([]string, len(Registry))
	for i, d := range Registry {
		parts[i] = fmt.Sprintf("%s=%d", d.Key, sv.Get(d.Key))
	}
	return strings.Join(parts, ", ")
}

func (sv StateVector) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(Registry))
	for _, d := range Registry {
		m[string(d.Key)] = sv.Get(d.Key)
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the keyed object form or the legacy positional
// array. Anything else decodes to all zeros rather than failing.
func (sv *StateVector) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			*sv = New(Min)
			return nil
		}
		values := make([]float64, len(raw))
		for i, r := range raw {
			values[i] = float64(Coerce(r))
		}
		*sv = FromPositional(values)
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		*sv = New(Min)
		return nil
	}
	*sv = FromMap(m)
	return nil
}

func clampInt(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
