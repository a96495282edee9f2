package dimension

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRegistry(t *testing.T) {
	if Count != 12 {
		t.Fatalf("expected 12 dimensions, got %d", Count)
	}
	if Index(ChaosLoad) != 10 {
		t.Errorf("Chaos_Load should sit at index 10, got %d", Index(ChaosLoad))
	}
	seen := map[Key]bool{}
	for _, d := range Registry {
		if seen[d.Key] {
			t.Errorf("duplicate key %s", d.Key)
		}
		seen[d.Key] = true
		if d.Label != d.Key.Label() {
			t.Errorf("label mismatch for %s: %q vs %q", d.Key, d.Label, d.Key.Label())
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		want  Key
		found bool
	}{
		{"Energy", Energy, true},
		{"energy", Energy, true},
		{"chaos load", ChaosLoad, true},
		{"long-term-trajectory", LongTermTrajectory, true},
		{"Creative_Output", CreativeOutput, true},
		{"mood", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.name)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found=%v, want %v", tt.name, ok, tt.found)
			}
			if ok && d.Key != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, d.Key, tt.want)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int in range", 3, 3},
		{"negative", -2, 0},
		{"too large", 9, 5},
		{"fraction rounds", 2.6, 3},
		{"numeric string", "4", 4},
		{"garbage string", "high", 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"nil", nil, 0},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.in); got != tt.want {
				t.Errorf("Coerce(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromMapFillsAllKeys(t *testing.T) {
	sv := FromMap(map[string]any{"Energy": 5, "Bogus": 3, "Focus": 12})
	if len(sv) != Count {
		t.Fatalf("expected %d keys, got %d", Count, len(sv))
	}
	if sv.Get(Energy) != 5 {
		t.Errorf("Energy = %d, want 5", sv.Get(Energy))
	}
	if sv.Get(Focus) != 5 {
		t.Errorf("Focus should clamp to 5, got %d", sv.Get(Focus))
	}
	if sv.Get(Money) != 0 {
		t.Errorf("missing key should be 0, got %d", sv.Get(Money))
	}
	if _, ok := sv["Bogus"]; ok {
		t.Error("unknown key should be dropped")
	}
}

func TestPositionalRoundTrip(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 0}
	sv := FromPositional(in)
	out := sv.Positional()
	for i := range in {
		if float64(out[i]) != in[i] {
			t.Errorf("index %d: got %d, want %v", i, out[i], in[i])
		}
	}
	if sv.Get(ChaosLoad) != 5 {
		t.Errorf("Chaos_Load = %d, want 5", sv.Get(ChaosLoad))
	}

	short := FromPositional([]float64{4})
	if short.Get(Energy) != 4 || short.Get(LongTermTrajectory) != 0 {
		t.Errorf("short positional decode wrong: %v", short)
	}
}

func TestParse(t *testing.T) {
	sv, err := Parse(New(3), "Energy=5,focus=1", "chaos_load=9")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sv.Get(Energy) != 5 || sv.Get(Focus) != 1 || sv.Get(ChaosLoad) != 5 {
		t.Errorf("unexpected vector: %v", sv)
	}
	if sv.Get(Money) != 3 {
		t.Errorf("base value should be kept, got %d", sv.Get(Money))
	}

	spaced, err := Parse(New(3), "Energy=4 Focus=2\tMoney=1, Health=0")
	if err != nil {
		t.Fatalf("whitespace separated parse failed: %v", err)
	}
	if spaced.Get(Energy) != 4 || spaced.Get(Focus) != 2 || spaced.Get(Money) != 1 || spaced.Get(Health) != 0 {
		t.Errorf("unexpected vector: %v", spaced)
	}

	if _, err := Parse(nil, "Mood=3"); err == nil {
		t.Error("expected error for unknown dimension")
	}
	if _, err := Parse(nil, "Energy"); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestSetClamps(t *testing.T) {
	sv := New(2)
	sv.Set(Health, 11)
	if sv.Get(Health) != 5 {
		t.Errorf("Set should clamp, got %d", sv.Get(Health))
	}
	sv.Set("Nope", 3)
	if _, ok := sv["Nope"]; ok {
		t.Error("Set should ignore unknown keys")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(1)
	b := a.Clone()
	b.Set(Energy, 4)
	if a.Get(Energy) != 1 {
		t.Error("clone shares storage with original")
	}
	if a.Equal(b) {
		t.Error("vectors should differ after edit")
	}
}

func TestJSON(t *testing.T) {
	sv := New(2)
	sv.Set(ChaosLoad, 4)

	data, err := json.Marshal(sv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back StateVector
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(sv) {
		t.Errorf("object form mismatch: %v vs %v", back, sv)
	}

	var legacy StateVector
	if err := json.Unmarshal([]byte(`[5,4,3,2,1,0,1,2,3,4,5,"x"]`), &legacy); err != nil {
		t.Fatalf("legacy unmarshal: %v", err)
	}
	if legacy.Get(Energy) != 5 || legacy.Get(ChaosLoad) != 5 || legacy.Get(LongTermTrajectory) != 0 {
		t.Errorf("legacy decode wrong: %v", legacy)
	}

	var junk StateVector
	if err := json.Unmarshal([]byte(`"nonsense"`), &junk); err != nil {
		t.Fatalf("junk should not error: %v", err)
	}
	if junk.Sum() != 0 || len(junk) != Count {
		t.Errorf("junk should decode to zeros, got %v", junk)
	}
}

func TestString(t *testing.T) {
	s := New(3).String()
	want := "Energy=3, Focus=3"
	if len(s) < len(want) || s[:len(want)] != want {
		t.Errorf("String() = %q", s)
	}
}
