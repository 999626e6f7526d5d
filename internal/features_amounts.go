package internal

import (
	"math"
)

func init() {
	RegisterFeatureSet("amounts", func(*Config) FeatureSet {
		return FeatureSet{Scope: ScopeVendor, Compute: AmountFeatures}
	})
}

// AmountFeatures describes the absolute amounts of the history and where tx
// sits among them. The z-score is 0 when the spread is 0 and the ratio to the
// mean is 1 when the mean is 0.
func AmountFeatures(tx Transaction, h *History) Features {
	amounts := h.Amounts()
	a := math.Abs(tx.AmountFloat())
	mean := Mean(amounts)
	std := PopStdDev(amounts)
	mode, modeCount := Mode(amounts)

	round := 0
	for _, t := range h.Transactions() {
		if t.Amount.IsInteger() {
			round++
		}
	}

	sorted := h.Sorted()
	return Features{
		"mean":               mean,
		"median":             Median(amounts),
		"mode":               mode,
		"mode_share":         SafeDiv(float64(modeCount), float64(len(amounts)), 0),
		"std":                std,
		"cv":                 CoefficientOfVariation(amounts),
		"iqr":                IQR(amounts),
		"zscore":             SafeDiv(a-mean, std, 0),
		"ratio_to_mean":      SafeDiv(a, mean, 1),
		"consistency_5pct":   AmountConsistency(sorted, 0.05, RefMedian),
		"consistency_10pct":  AmountConsistency(sorted, 0.10, RefMedian),
		"variability":        AmountVariability(sorted),
		"round_amount_share": SafeDiv(float64(round), float64(len(amounts)), 0),
		"is_round":           boolValue(tx.Amount.IsInteger()),
		"is_max_in_history":  boolValue(len(amounts) > 0 && a >= maxOf(amounts)),
		"log_abs_amount":     math.Log1p(a),
	}
}

func maxOf(xs []float64) float64 {
	_, hi := minMax(xs)
	return hi
}
