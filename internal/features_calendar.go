package internal

import (
	"time"
)

func init() {
	RegisterFeatureSet("calendar", func(*Config) FeatureSet {
		return FeatureSet{Scope: ScopeVendor, Compute: CalendarFeatures}
	})
}

// CalendarFeatures places tx on the calendar and measures how the history
// clusters by day of month and month.
func CalendarFeatures(tx Transaction, h *History) Features {
	sorted := h.Sorted()
	modeDay, _ := ModeInt(daysOfMonth(sorted))

	months := make(map[string]bool)
	for _, t := range sorted {
		months[monthKey(t.Date)] = true
	}
	span := monthsSpanned(sorted)

	weekday := tx.Date.Weekday()
	lastDay := time.Date(tx.Date.Year(), tx.Date.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	return Features{
		"day_of_month":      float64(tx.Date.Day()),
		"weekday":           float64(weekday),
		"is_weekend":        boolValue(weekday == time.Saturday || weekday == time.Sunday),
		"is_month_start":    boolValue(tx.Date.Day() <= 3),
		"is_month_end":      boolValue(lastDay-tx.Date.Day() < 3),
		"mode_day":          float64(modeDay),
		"on_mode_day":       boolValue(len(sorted) > 0 && tx.Date.Day() == modeDay),
		"day_consistency":   DayOfMonthConsistency(sorted, 0),
		"day_consistency_1": DayOfMonthConsistency(sorted, 1),
		"day_consistency_2": DayOfMonthConsistency(sorted, 2),
		"distinct_months":   float64(len(months)),
		"months_span":       float64(span),
		"per_month_rate":    SafeDiv(float64(len(sorted)), float64(span), 0),
		"month_coverage":    SafeDiv(float64(len(months)), float64(span), 0),
	}
}

// monthsSpanned counts calendar months from the first to the last transaction
// inclusive; 0 for an empty history.
func monthsSpanned(sorted []Transaction) int {
	if len(sorted) == 0 {
		return 0
	}
	first, last := sorted[0].Date, sorted[len(sorted)-1].Date
	return (last.Year()-first.Year())*12 + int(last.Month()-first.Month()) + 1
}
