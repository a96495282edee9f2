package shaping

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{5, 1},
		{2.5, 0.5},
		{10, 2},
		{-5, -1},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReshape(t *testing.T) {
	tests := []struct {
		name     string
		x, p     float64
		expected float64
	}{
		{"zero", 0, 1.2, 0},
		{"one", 1, 1.25, 1},
		{"below range", -0.5, 1.1, 0},
		{"above range", 1.7, 1.1, 1},
		{"half", 0.5, 2, 0.25},
		{"identity exponent", 0.3, 1, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reshape(tt.x, tt.p); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Reshape(%v, %v) = %v, want %v", tt.x, tt.p, got, tt.expected)
			}
		})
	}
}

func TestReshapeSuppressesLowValues(t *testing.T) {
	for _, x := range []float64{0.2, 0.4, 0.6, 0.8} {
		if Reshape(x, 1.2) >= x {
			t.Errorf("Reshape(%v, 1.2) should be below %v", x, x)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.4, 0, 1) != 0.4 {
		t.Error("clamp bounds wrong")
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("mean of empty should be 0")
	}
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("Mean = %v, want 2", got)
	}
}
