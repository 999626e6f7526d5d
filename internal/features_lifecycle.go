package internal

func init() {
	RegisterFeatureSet("lifecycle", func(cfg *Config) FeatureSet {
		return FeatureSet{Scope: ScopeVendor, Compute: LifecycleFeatures(cfg.Tolerance())}
	})
}

// LifecycleFeatures scores the history as a monthly subscription: one payment
// per calendar month, stable amounts, and whether tx continues the series on time.
func LifecycleFeatures(tolerance float64) FeatureFunc {
	return func(tx Transaction, h *History) Features {
		sorted := h.Sorted()
		typical := TypicalDay(sorted)

		continues := false
		if prev := previousPayment(tx, sorted); prev != nil {
			continues = DetermineStatus(prev.Date, typical, tx.Date) == StatusActive
		}

		complete := CompleteMonths(sorted)
		paidMonths := make(map[string]bool)
		for _, t := range sorted {
			paidMonths[monthKey(t.Date)] = true
		}
		paidComplete := 0
		for _, m := range complete {
			if paidMonths[m] {
				paidComplete++
			}
		}

		return Features{
			"once_per_month":           boolValue(IsOncePerMonth(sorted)),
			"amounts_within_tolerance": boolValue(ConsecutiveWithinTolerance(sorted, tolerance)),
			"typical_day":              float64(typical),
			"continues_series":         boolValue(continues),
			"is_expense":               boolValue(tx.Amount.IsNegative()),
			"complete_months":          float64(len(complete)),
			"complete_month_coverage":  SafeDiv(float64(paidComplete), float64(len(complete)), 0),
		}
	}
}

// previousPayment returns the latest transaction dated before tx, or nil.
func previousPayment(tx Transaction, sorted []Transaction) *Transaction {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Date.Before(tx.Date) {
			return &sorted[i]
		}
	}
	return nil
}
