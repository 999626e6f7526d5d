package internal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// PopStdDev returns the population standard deviation; 0 with fewer than 2 points.
func PopStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(xs, nil))
}

// SampleStdDev returns the sample (n-1) standard deviation; 0 with fewer than 2 points.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// CoefficientOfVariation returns PopStdDev/|Mean|; 0 with fewer than 2 points or a zero mean.
func CoefficientOfVariation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return SafeDiv(PopStdDev(xs), math.Abs(Mean(xs)), 0)
}

// Median returns the middle value, averaging the two middle values for even lengths.
func Median(xs []float64) float64 {
	return Percentile(xs, 50)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between the closest ranks. Empty input yields 0.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// IQR returns the interquartile range (75th - 25th percentile).
func IQR(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return Percentile(xs, 75) - Percentile(xs, 25)
}

// Mode returns the most frequent value and its count. Ties go to the value
// encountered first in xs. Empty input yields (0, 0).
func Mode(xs []float64) (float64, int) {
	counts := make(map[float64]int, len(xs))
	var best float64
	bestCount := 0
	for _, x := range xs {
		counts[x]++
	}
	for _, x := range xs {
		if c := counts[x]; c > bestCount {
			best, bestCount = x, c
		}
	}
	return best, bestCount
}

// ModeInt is Mode for integer samples such as days of month.
func ModeInt(xs []int) (int, int) {
	counts := make(map[int]int, len(xs))
	best, bestCount := 0, 0
	for _, x := range xs {
		counts[x]++
	}
	for _, x := range xs {
		if c := counts[x]; c > bestCount {
			best, bestCount = x, c
		}
	}
	return best, bestCount
}

// SafeDiv returns num/den, or fallback when den is zero.
func SafeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}

// Clip01 clamps v into [0, 1].
func Clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func intsToFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return floats.Min(xs), floats.Max(xs)
}
