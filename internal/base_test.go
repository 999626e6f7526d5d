package internal

import (
	"testing"
)

func scenarioHistory() []Transaction {
	var txs []Transaction
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-14", "2024-01-15", "2024-01-16", "2024-01-29", "2024-01-31"} {
		txs = append(txs, mkTx("Gym", "25.00", d))
	}
	return txs
}

func TestGetNTransactionsDaysApart(t *testing.T) {
	history := scenarioHistory()
	target := history[0]

	tests := []struct {
		apart, off int
		expected   int
	}{
		{14, 0, 2},
		{7, 1, 4},
		{30, 2, 2},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := GetNTransactionsDaysApart(target, history, tt.apart, tt.off); got != tt.expected {
			t.Errorf("days apart (%d, %d): expected %d, got %d", tt.apart, tt.off, tt.expected, got)
		}
	}

	if got := GetPctTransactionsDaysApart(target, history, 14, 0); !approx(got, 2.0/7) {
		t.Errorf("expected 2/7, got %v", got)
	}
	if got := GetPctTransactionsDaysApart(target, nil, 14, 0); got != 0 {
		t.Errorf("expected 0 for empty history, got %v", got)
	}
}

func TestGetNTransactionsSameDay(t *testing.T) {
	history := scenarioHistory()
	target := history[3] // 2024-01-15

	tests := []struct {
		off      int
		expected int
	}{
		{0, 1},
		{1, 3},
		{2, 3},
	}
	for _, tt := range tests {
		if got := GetNTransactionsSameDay(target, history, tt.off); got != tt.expected {
			t.Errorf("off by %d: expected %d, got %d", tt.off, tt.expected, got)
		}
	}
	if got := GetPctTransactionsSameDay(target, history, 0); !approx(got, 1.0/7) {
		t.Errorf("expected 1/7, got %v", got)
	}
}

func TestGetNTransactionsSameAmount_Monotone(t *testing.T) {
	target := mkTx("Netflix", "15.99", "2024-01-01")
	history := []Transaction{target}
	prev := GetNTransactionsSameAmount(target, history)

	additions := []string{"15.99", "9.99", "15.990", "16", "15.99"}
	for _, a := range additions {
		history = append(history, mkTx("Netflix", a, "2024-02-01"))
		n := GetNTransactionsSameAmount(target, history)
		if n < prev {
			t.Fatalf("count decreased after appending %s: %d -> %d", a, prev, n)
		}
		prev = n
	}
	if prev != 4 {
		t.Errorf("expected 4 matching amounts, got %d", prev)
	}
}

func TestGetPercentTransactionsSameAmount(t *testing.T) {
	target := mkTx("X", "10", "2024-01-01")
	if got := GetPercentTransactionsSameAmount(target, nil); got != 0 {
		t.Errorf("expected 0 for empty history, got %v", got)
	}
	history := []Transaction{target, mkTx("X", "10.00", "2024-02-01"), mkTx("X", "11", "2024-03-01"), mkTx("X", "12", "2024-04-01")}
	if got := GetPercentTransactionsSameAmount(target, history); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestGetEndsIn99(t *testing.T) {
	tests := []struct {
		amount   string
		expected bool
	}{
		{"15.99", true},
		{"-9.99", true},
		{"0.99", true},
		{"10.00", false},
		{"99", false},
		{"5.9", false},
	}
	for _, tt := range tests {
		if got := GetEndsIn99(mkTx("X", tt.amount, "2024-01-01")); got != tt.expected {
			t.Errorf("GetEndsIn99(%s) = %v, want %v", tt.amount, got, tt.expected)
		}
	}
}

func TestGetFeatures_Keys(t *testing.T) {
	target := mkTx("GEICO", "120.99", "2024-01-15")
	f := GetFeatures(target, []Transaction{target})

	expected := []string{
		"amount", "n_transactions_same_amount", "percent_transactions_same_amount", "ends_in_99",
		"same_day_exact", "same_day_off_by_1", "same_day_off_by_2", "same_day_exact_pct",
		"7_days_apart_exact", "7_days_apart_pct", "7_days_apart_off_by_1", "7_days_apart_off_by_1_pct",
		"14_days_apart_exact", "14_days_apart_pct", "14_days_apart_off_by_1", "14_days_apart_off_by_1_pct",
		"30_days_apart_off_by_2", "30_days_apart_off_by_2_pct",
		"is_insurance", "is_utility", "is_phone", "is_always_recurring", "is_convenience_store",
	}
	if len(f) != len(expected) {
		t.Errorf("expected %d features, got %d: %v", len(expected), len(f), f.Keys())
	}
	for _, k := range expected {
		if _, ok := f[k]; !ok {
			t.Errorf("missing feature %q", k)
		}
	}

	if f["amount"] != 120.99 {
		t.Errorf("expected amount 120.99, got %v", f["amount"])
	}
	if f["ends_in_99"] != 1 || f["is_insurance"] != 1 || f["is_phone"] != 0 {
		t.Errorf("unexpected flags: %v", f)
	}
	if f["n_transactions_same_amount"] != 1 || f["percent_transactions_same_amount"] != 1 {
		t.Errorf("singleton history should match itself: %v", f)
	}
	if f["7_days_apart_exact"] != 0 {
		t.Errorf("a transaction is never days apart from itself, got %v", f["7_days_apart_exact"])
	}
}

func TestGetFeatures_SameForFoldedNames(t *testing.T) {
	upper := mkTx("GEICO", "100", "2024-01-01")
	lower := mkTx("geico", "100", "2024-01-01")
	fu := GetFeatures(upper, []Transaction{upper})
	fl := GetFeatures(lower, []Transaction{lower})
	for k, v := range fu {
		if fl[k] != v {
			t.Errorf("%s differs: %v vs %v", k, v, fl[k])
		}
	}
}
