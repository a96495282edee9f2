package history

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/san-kum/statefield/internal/dimension"
)

// Sample is one recorded state. Timestamp is milliseconds since the epoch.
type Sample struct {
	Timestamp int64                 `json:"timestamp"`
	State     dimension.StateVector `json:"state"`
}

func NewSample(at time.Time, state dimension.StateVector) Sample {
	return Sample{Timestamp: at.UnixMilli(), State: state.Clone()}
}

func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// UnmarshalJSON also accepts the short field names {t, x} written by the
// legacy browser board.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp *json.Number    `json:"timestamp"`
		State     json.RawMessage `json:"state"`
		T         *json.Number    `json:"t"`
		X         json.RawMessage `json:"x"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ts := raw.Timestamp
	if ts == nil {
		ts = raw.T
	}
	if ts == nil {
		return ErrMalformedSample
	}
	ms, err := ts.Int64()
	if err != nil {
		f, ferr := ts.Float64()
		if ferr != nil {
			return ErrMalformedSample
		}
		ms = int64(f)
	}

	body := raw.State
	if body == nil {
		body = raw.X
	}
	state, ok := decodeStateValue(body)
	if !ok {
		return ErrMalformedSample
	}

	s.Timestamp = ms
	s.State = state
	return nil
}

// decodeStateValue accepts only a JSON object or array. Scalars and null
// are rejected so a corrupt entry is skipped instead of read as all zeros.
func decodeStateValue(body []byte) (dimension.StateVector, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || (body[0] != '{' && body[0] != '[') {
		return nil, false
	}
	var st dimension.StateVector
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, false
	}
	return st, true
}

// Window returns the samples with now - t <= window, in their original order.
func Window(samples []Sample, now int64, window time.Duration) []Sample {
	limit := window.Milliseconds()
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if now-s.Timestamp <= limit {
			out = append(out, s)
		}
	}
	return out
}

// Last returns the newest sample, if any.
func Last(samples []Sample) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}
	return samples[len(samples)-1], true
}
