package internal

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GetNTransactionsSameAmount counts transactions in history with exactly tx's amount.
func GetNTransactionsSameAmount(tx Transaction, history []Transaction) int {
	n := 0
	for _, t := range history {
		if t.Amount.Equal(tx.Amount) {
			n++
		}
	}
	return n
}

// GetPercentTransactionsSameAmount is GetNTransactionsSameAmount over len(history); 0 when empty.
func GetPercentTransactionsSameAmount(tx Transaction, history []Transaction) float64 {
	return SafeDiv(float64(GetNTransactionsSameAmount(tx, history)), float64(len(history)), 0)
}

// GetEndsIn99 reports whether the cents of |amount| are 99.
func GetEndsIn99(tx Transaction) bool {
	cents := tx.Amount.Abs().Shift(2).Truncate(0).Mod(hundred)
	return cents.Equal(decimal.NewFromInt(99))
}

// GetNTransactionsSameDay counts transactions whose day of month is within nDaysOff of tx's.
func GetNTransactionsSameDay(tx Transaction, history []Transaction, nDaysOff int) int {
	day := tx.Date.Day()
	n := 0
	for _, t := range history {
		if absInt(t.Date.Day()-day) <= nDaysOff {
			n++
		}
	}
	return n
}

// GetPctTransactionsSameDay is GetNTransactionsSameDay over len(history); 0 when empty.
func GetPctTransactionsSameDay(tx Transaction, history []Transaction, nDaysOff int) float64 {
	return SafeDiv(float64(GetNTransactionsSameDay(tx, history, nDaysOff)), float64(len(history)), 0)
}

// GetNTransactionsDaysApart counts transactions that lie a multiple of nDaysApart
// days away from tx, give or take nDaysOff. Transactions closer than
// nDaysApart-nDaysOff (including tx itself) are not counted.
func GetNTransactionsDaysApart(tx Transaction, history []Transaction, nDaysApart, nDaysOff int) int {
	if nDaysApart <= 0 {
		return 0
	}
	lower := nDaysApart - nDaysOff
	day := DayNumber(tx.Date)
	n := 0
	for _, t := range history {
		diff := absInt(DayNumber(t.Date) - day)
		if diff < lower {
			continue
		}
		rem := diff % nDaysApart
		if rem >= lower || rem <= nDaysOff {
			n++
		}
	}
	return n
}

// GetPctTransactionsDaysApart is GetNTransactionsDaysApart over len(history); 0 when empty.
func GetPctTransactionsDaysApart(tx Transaction, history []Transaction, nDaysApart, nDaysOff int) float64 {
	return SafeDiv(float64(GetNTransactionsDaysApart(tx, history, nDaysApart, nDaysOff)), float64(len(history)), 0)
}

func GetIsInsurance(tx Transaction) bool        { return IsInsurance(tx.Name) }
func GetIsUtility(tx Transaction) bool          { return IsUtility(tx.Name) }
func GetIsPhone(tx Transaction) bool            { return IsPhone(tx.Name) }
func GetIsAlwaysRecurring(tx Transaction) bool  { return IsAlwaysRecurring(tx.Name) }
func GetIsConvenienceStore(tx Transaction) bool { return IsConvenienceStore(tx.Name) }

// GetFeatures computes the base feature mapping of tx against history, which is
// expected to be the same-user, same-vendor group containing tx.
func GetFeatures(tx Transaction, history []Transaction) Features {
	return Features{
		"amount":                           tx.AmountFloat(),
		"n_transactions_same_amount":       float64(GetNTransactionsSameAmount(tx, history)),
		"percent_transactions_same_amount": GetPercentTransactionsSameAmount(tx, history),
		"ends_in_99":                       boolValue(GetEndsIn99(tx)),
		"same_day_exact":                   float64(GetNTransactionsSameDay(tx, history, 0)),
		"same_day_off_by_1":                float64(GetNTransactionsSameDay(tx, history, 1)),
		"same_day_off_by_2":                float64(GetNTransactionsSameDay(tx, history, 2)),
		"same_day_exact_pct":               GetPctTransactionsSameDay(tx, history, 0),
		"7_days_apart_exact":               float64(GetNTransactionsDaysApart(tx, history, 7, 0)),
		"7_days_apart_pct":                 GetPctTransactionsDaysApart(tx, history, 7, 0),
		"7_days_apart_off_by_1":            float64(GetNTransactionsDaysApart(tx, history, 7, 1)),
		"7_days_apart_off_by_1_pct":        GetPctTransactionsDaysApart(tx, history, 7, 1),
		"14_days_apart_exact":              float64(GetNTransactionsDaysApart(tx, history, 14, 0)),
		"14_days_apart_pct":                GetPctTransactionsDaysApart(tx, history, 14, 0),
		"14_days_apart_off_by_1":           float64(GetNTransactionsDaysApart(tx, history, 14, 1)),
		"14_days_apart_off_by_1_pct":       GetPctTransactionsDaysApart(tx, history, 14, 1),
		"30_days_apart_off_by_2":           float64(GetNTransactionsDaysApart(tx, history, 30, 2)),
		"30_days_apart_off_by_2_pct":       GetPctTransactionsDaysApart(tx, history, 30, 2),
		"is_insurance":                     boolValue(GetIsInsurance(tx)),
		"is_utility":                       boolValue(GetIsUtility(tx)),
		"is_phone":                         boolValue(GetIsPhone(tx)),
		"is_always_recurring":              boolValue(GetIsAlwaysRecurring(tx)),
		"is_convenience_store":             boolValue(GetIsConvenienceStore(tx)),
	}
}
