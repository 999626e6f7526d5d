package internal

import (
	"math"
	"testing"
)

func TestStats_ShortInputs(t *testing.T) {
	single := []float64{42}
	funcs := map[string]func([]float64) float64{
		"PopStdDev":              PopStdDev,
		"SampleStdDev":           SampleStdDev,
		"CoefficientOfVariation": CoefficientOfVariation,
		"IQR":                    IQR,
	}
	for name, f := range funcs {
		if got := f(single); got != 0 {
			t.Errorf("%s(single) = %v, want 0", name, got)
		}
		if got := f(nil); got != 0 {
			t.Errorf("%s(nil) = %v, want 0", name, got)
		}
	}

	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("Median(nil) = %v, want 0", got)
	}
	if got, n := Mode(nil); got != 0 || n != 0 {
		t.Errorf("Mode(nil) = %v, %d, want 0, 0", got, n)
	}
}

func TestStats(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(xs); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	if got := PopStdDev(xs); !approx(got, 2) {
		t.Errorf("PopStdDev = %v, want 2", got)
	}
	if got := SampleStdDev(xs); !approx(got, math.Sqrt(32.0/7)) {
		t.Errorf("SampleStdDev = %v, want %v", got, math.Sqrt(32.0/7))
	}
	if got := CoefficientOfVariation(xs); !approx(got, 0.4) {
		t.Errorf("CoefficientOfVariation = %v, want 0.4", got)
	}
	if got := Median(xs); got != 4.5 {
		t.Errorf("Median = %v, want 4.5", got)
	}
	if got, n := Mode(xs); got != 4 || n != 3 {
		t.Errorf("Mode = %v (%d), want 4 (3)", got, n)
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, tt := range tests {
		if got := Percentile(xs, tt.p); !approx(got, tt.expected) {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.expected)
		}
	}
	if got := IQR(xs); !approx(got, 1.5) {
		t.Errorf("IQR = %v, want 1.5", got)
	}
	if xs[0] != 4 {
		t.Error("input was sorted in place")
	}
}

func TestMode_TieGoesToFirst(t *testing.T) {
	if got, _ := Mode([]float64{9.99, 4.99, 4.99, 9.99}); got != 9.99 {
		t.Errorf("expected 9.99, got %v", got)
	}
	if got, _ := ModeInt([]int{3, 1, 1, 3}); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestCoefficientOfVariation_ZeroMean(t *testing.T) {
	if got := CoefficientOfVariation([]float64{-1, 1}); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(1, 0, 1); got != 1 {
		t.Errorf("expected fallback 1, got %v", got)
	}
	if got := SafeDiv(1, 4, 1); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}
}
