package internal

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical transaction date format.
const DateLayout = "2006-01-02"

// dateTimeLayouts are accepted when a date column carries a time of day.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// DateParseError is returned when a date string is not YYYY-MM-DD (optionally with a time).
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// ParseDate parses a transaction date and truncates it to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if dt, dtErr := time.Parse(layout, s); dtErr == nil {
			return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &DateParseError{Value: s, Err: err}
}

// MustParseDate is ParseDate for constants and tests; it panics on bad input.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// DayNumber returns the number of whole days since the Unix epoch.
func DayNumber(t time.Time) int {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}

// DaysBetween returns b - a in calendar days.
func DaysBetween(a, b time.Time) int {
	return DayNumber(b) - DayNumber(a)
}

// SortByDate returns a copy of txs sorted by date ascending. Ties keep input order.
func SortByDate(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Gaps returns the day differences between chronologically adjacent transactions.
// Same-day transactions produce zero gaps.
func Gaps(txs []Transaction) []int {
	if len(txs) < 2 {
		return nil
	}
	sorted := SortByDate(txs)
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, DaysBetween(sorted[i-1].Date, sorted[i].Date))
	}
	return gaps
}

// DateSpan returns the earliest and latest dates in txs.
func DateSpan(txs []Transaction) (start, end time.Time) {
	if len(txs) == 0 {
		return time.Time{}, time.Time{}
	}
	start, end = txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return start, end
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
