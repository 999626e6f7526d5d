package internal

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Transaction is a single row of a user's transaction history.
// It is treated as an immutable value once constructed.
type Transaction struct {
	ID         string
	UserID     string
	Name       string
	Amount     decimal.Decimal
	Date       time.Time // UTC midnight of the calendar day
	Category   string
	MerchantID string
}

// NameKey returns the case-folded, trimmed vendor name used for grouping and matching.
func (t Transaction) NameKey() string {
	return FoldName(t.Name)
}

// AmountFloat returns the amount as a float64 for statistics.
func (t Transaction) AmountFloat() float64 {
	return t.Amount.InexactFloat64()
}

// DateString formats the transaction date as YYYY-MM-DD.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// FoldName normalizes a vendor name for case-insensitive comparisons.
// A Caser is stateful, so one is created per call to stay safe across workers.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Label is the optional ground-truth recurring flag of a labeled row.
type Label int

const (
	LabelUnknown Label = iota
	LabelOneOff
	LabelRecurring
)

// Dataset is what a parser produces: the raw table plus the decoded transactions.
// Rows[i], Transactions[i] and Labels[i] describe the same input row.
type Dataset struct {
	Header       []string
	Rows         [][]string
	Transactions []Transaction
	Labels       []Label
}

// Len returns the number of rows in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Transactions)
}

// HasLabels reports whether any row carries a ground-truth label.
func (d *Dataset) HasLabels() bool {
	for _, l := range d.Labels {
		if l != LabelUnknown {
			return true
		}
	}
	return false
}

// Features is a flat mapping from feature name to value. Booleans are stored as 1/0.
type Features map[string]float64

// Keys returns the feature names in sorted order.
func (f Features) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new mapping with the entries of f and other, prefixing other's keys.
func (f Features) Merge(prefix string, other Features) Features {
	out := make(Features, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[prefix+k] = v
	}
	return out
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
