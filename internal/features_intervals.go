package internal

func init() {
	RegisterFeatureSet("intervals", func(*Config) FeatureSet {
		return FeatureSet{Scope: ScopeVendor, Compute: IntervalFeatures}
	})
}

// IntervalFeatures describes the spacing of the history in days.
// With fewer than two transactions every gap statistic is 0 and the
// previous/next distances are -1.
func IntervalFeatures(tx Transaction, h *History) Features {
	gaps := h.Gaps()
	g := intsToFloats(gaps)
	minGap, maxGap := minMax(g)

	zeroGaps := 0
	for _, gap := range gaps {
		if gap == 0 {
			zeroGaps++
		}
	}

	f := Features{
		"n_gaps":              float64(len(gaps)),
		"mean_gap":            Mean(g),
		"median_gap":          Median(g),
		"std_gap":             PopStdDev(g),
		"cv_gap":              CoefficientOfVariation(g),
		"min_gap":             minGap,
		"max_gap":             maxGap,
		"zero_gap_count":      float64(zeroGaps),
		"days_since_previous": float64(daysSincePrevious(tx, h.Sorted())),
		"days_until_next":     float64(daysUntilNext(tx, h.Sorted())),
	}
	for _, p := range Periods {
		f[p.Name+"_fit"] = gapFit(gaps, p)
	}
	return f
}

// daysSincePrevious returns the distance to the latest transaction strictly
// before tx, or -1 when there is none.
func daysSincePrevious(tx Transaction, sorted []Transaction) int {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Date.Before(tx.Date) {
			return DaysBetween(sorted[i].Date, tx.Date)
		}
	}
	return -1
}

// daysUntilNext returns the distance to the earliest transaction strictly
// after tx, or -1 when there is none.
func daysUntilNext(tx Transaction, sorted []Transaction) int {
	for _, t := range sorted {
		if t.Date.After(tx.Date) {
			return DaysBetween(tx.Date, t.Date)
		}
	}
	return -1
}
