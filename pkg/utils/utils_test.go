package utils

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{
			name:  "round to 2 decimals",
			input: 123.456789,
			want:  123.46,
		},
		{
			name:  "already 2 decimals",
			input: 123.45,
			want:  123.45,
		},
		{
			name:  "integer",
			input: 123.0,
			want:  123.0,
		},
		{
			name:  "half cent rounds up",
			input: 1.005,
			want:  1.01,
		},
		{
			name:  "negative amount",
			input: -187.499,
			want:  -187.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Round2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound2NonFinite(t *testing.T) {
	if !math.IsNaN(Round2(math.NaN())) {
		t.Error("Round2(NaN) should stay NaN")
	}
	if !math.IsInf(Round2(math.Inf(1)), 1) {
		t.Error("Round2(+Inf) should stay +Inf")
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{
			name:  "finite number",
			input: 123.45,
			want:  true,
		},
		{
			name:  "infinity",
			input: math.Inf(1),
			want:  false,
		},
		{
			name:  "negative infinity",
			input: math.Inf(-1),
			want:  false,
		},
		{
			name:  "NaN",
			input: math.NaN(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFinite(tt.input)
			if got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.5, 0.7, 1.3); got != 1.3 {
		t.Errorf("Clamp() = %v, want 1.3", got)
	}
	if got := Clamp(0.2, 0.7, 1.3); got != 0.7 {
		t.Errorf("Clamp() = %v, want 0.7", got)
	}
	if got := Clamp(1.0, 0.7, 1.3); got != 1.0 {
		t.Errorf("Clamp() = %v, want 1.0", got)
	}
	if got := NonNegative(-3); got != 0 {
		t.Errorf("NonNegative() = %v, want 0", got)
	}
}
