package internal

import (
	"math"
)

// PairwiseSampleSize caps how many transactions the pairwise amount
// similarity looks at. The most recent ones are used.
const PairwiseSampleSize = 50

func init() {
	RegisterFeatureSet("confidence", func(cfg *Config) FeatureSet {
		return FeatureSet{Scope: ScopeVendor, Compute: ConfidenceFeatures(cfg.Weights())}
	})
}

// ConfidenceFeatures combines timing, amount and frequency regularity into a
// single recurring confidence score.
func ConfidenceFeatures(w ConfidenceWeights) FeatureFunc {
	return func(_ Transaction, h *History) Features {
		sorted := h.Sorted()
		_, timeScore := BestPeriodFit(sorted)
		amountScore := AmountConsistency(sorted, 0.10, RefMedian)
		freqScore := FrequencyScore(len(sorted))

		return Features{
			"period_fit":         timeScore,
			"amount_consistency": amountScore,
			"frequency":          freqScore,
			"score":              RecurringConfidence(timeScore, amountScore, freqScore, w),
			"pairwise_amount":    PairwiseAmountSimilarity(h.Recent(PairwiseSampleSize)),
		}
	}
}

// PairwiseAmountSimilarity is the mean over all pairs of 1 - |a-b|/max(|a|,|b|).
// Two zero amounts are identical. Fewer than two transactions score 0.
func PairwiseAmountSimilarity(txs []Transaction) float64 {
	if len(txs) < 2 {
		return 0
	}
	amounts := absAmounts(txs)
	total, pairs := 0.0, 0
	for i := 0; i < len(amounts); i++ {
		for j := i + 1; j < len(amounts); j++ {
			hi := math.Max(amounts[i], amounts[j])
			total += 1 - SafeDiv(math.Abs(amounts[i]-amounts[j]), hi, 0)
			pairs++
		}
	}
	return total / float64(pairs)
}
