package internal

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Analysis thresholds and output file names.
const (
	DefaultNameMinPct     = 0.9
	DefaultAmountMinPct   = 0.5
	DefaultAmountMinCount = 10

	NamesFile    = "highly_recurring_names.csv"
	AmountsFile  = "highly_recurring_amounts.csv"
	WorkbookFile = "recurring_analysis.xlsx"
)

// RecurrenceStat counts how often a grouping key was labeled recurring.
type RecurrenceStat struct {
	Key            string  `json:"key"`
	TotalCount     int     `json:"total_count"`
	RecurringCount int     `json:"recurring_count"`
	RecurringPct   float64 `json:"recurring_pct"`
}

// RoundAmount rounds an amount half away from zero to 2 decimals.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// AmountKey is the grouping key of an amount: rounded to 2 decimals, fixed point.
func AmountKey(d decimal.Decimal) string {
	return RoundAmount(d).StringFixed(2)
}

// FindHighlyRecurringNames groups labeled rows by exact vendor name and keeps
// names whose recurring share is at least minPct.
func FindHighlyRecurringNames(ds *Dataset, minPct float64) []RecurrenceStat {
	return findHighlyRecurring(ds, func(tx Transaction) string { return tx.Name }, minPct, 0)
}

// FindHighlyRecurringAmounts groups labeled rows by amount rounded to 2
// decimals and keeps amounts seen at least minCount times with a recurring
// share of at least minPct.
func FindHighlyRecurringAmounts(ds *Dataset, minPct float64, minCount int) []RecurrenceStat {
	return findHighlyRecurring(ds, func(tx Transaction) string { return AmountKey(tx.Amount) }, minPct, minCount)
}

func findHighlyRecurring(ds *Dataset, key func(Transaction) string, minPct float64, minCount int) []RecurrenceStat {
	stats := make(map[string]*RecurrenceStat)
	for i, tx := range ds.Transactions {
		label := ds.Labels[i]
		if label == LabelUnknown {
			continue
		}
		k := key(tx)
		s, ok := stats[k]
		if !ok {
			s = &RecurrenceStat{Key: k}
			stats[k] = s
		}
		s.TotalCount++
		if label == LabelRecurring {
			s.RecurringCount++
		}
	}

	var out []RecurrenceStat
	for _, s := range stats {
		s.RecurringPct = float64(s.RecurringCount) / float64(s.TotalCount)
		if s.RecurringPct >= minPct && s.TotalCount >= minCount {
			out = append(out, *s)
		}
	}
	SortRecurrenceStats(out)
	return out
}

// SortRecurrenceStats orders by recurring count, then recurring share (both
// descending), then key ascending.
func SortRecurrenceStats(stats []RecurrenceStat) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RecurringCount != stats[j].RecurringCount {
			return stats[i].RecurringCount > stats[j].RecurringCount
		}
		if stats[i].RecurringPct != stats[j].RecurringPct {
			return stats[i].RecurringPct > stats[j].RecurringPct
		}
		return stats[i].Key < stats[j].Key
	})
}

// WriteRecurrenceCSV writes stats with keyColumn as the header of the key column.
func WriteRecurrenceCSV(path, keyColumn string, stats []RecurrenceStat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{keyColumn, "total_count", "recurring_count", "recurring_pct"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range stats {
		if err := w.Write(recurrenceRecord(s)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

func recurrenceRecord(s RecurrenceStat) []string {
	return []string{
		s.Key,
		strconv.Itoa(s.TotalCount),
		strconv.Itoa(s.RecurringCount),
		strconv.FormatFloat(s.RecurringPct, 'f', -1, 64),
	}
}

// EvalReport is the result of analyzing a labeled dataset.
type EvalReport struct {
	Rows        int                `json:"rows"`
	Labeled     int                `json:"labeled"`
	Recurring   int                `json:"recurring"`
	Names       []RecurrenceStat   `json:"names"`
	Amounts     []RecurrenceStat   `json:"amounts"`
	Features    []FeatureSummary   `json:"features,omitempty"`
	Suggestions []FamilySuggestion `json:"suggestions,omitempty"`
}

// EvalOptions holds the analysis thresholds.
type EvalOptions struct {
	NameMinPct     float64
	AmountMinPct   float64
	AmountMinCount int
}

// DefaultEvalOptions returns the standard thresholds.
func DefaultEvalOptions() EvalOptions {
	return EvalOptions{
		NameMinPct:     DefaultNameMinPct,
		AmountMinPct:   DefaultAmountMinPct,
		AmountMinCount: DefaultAmountMinCount,
	}
}

// Evaluate computes the recurrence tables of a labeled dataset.
func Evaluate(ds *Dataset, opts EvalOptions) *EvalReport {
	r := &EvalReport{Rows: ds.Len()}
	for _, l := range ds.Labels {
		if l != LabelUnknown {
			r.Labeled++
		}
		if l == LabelRecurring {
			r.Recurring++
		}
	}
	r.Names = FindHighlyRecurringNames(ds, opts.NameMinPct)
	r.Amounts = FindHighlyRecurringAmounts(ds, opts.AmountMinPct, opts.AmountMinCount)
	return r
}

// WriteEvalCSVs writes the names and amounts tables into dir.
func WriteEvalCSVs(dir string, r *EvalReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := WriteRecurrenceCSV(filepath.Join(dir, NamesFile), "name", r.Names); err != nil {
		return err
	}
	return WriteRecurrenceCSV(filepath.Join(dir, AmountsFile), "amount_rounded", r.Amounts)
}

// WriteEvalWorkbook writes the report as an Excel workbook with one sheet per table.
func WriteEvalWorkbook(path string, r *EvalReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		key   string
		stats []RecurrenceStat
	}{
		{"names", "name", r.Names},
		{"amounts", "amount_rounded", r.Amounts},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.name, err)
		}
		if err := writeStatsSheet(f, s.name, s.key, s.stats); err != nil {
			return err
		}
	}

	if len(r.Features) > 0 {
		if _, err := f.NewSheet("features"); err != nil {
			return fmt.Errorf("creating sheet features: %w", err)
		}
		if err := f.SetSheetRow("features", "A1", &[]any{"feature", "recurring_mean", "one_off_mean", "difference"}); err != nil {
			return fmt.Errorf("writing features header: %w", err)
		}
		for i, s := range r.Features {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow("features", cell, &[]any{s.Name, s.RecurringMean, s.OneOffMean, s.Difference}); err != nil {
				return fmt.Errorf("writing features row: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeStatsSheet(f *excelize.File, sheet, keyColumn string, stats []RecurrenceStat) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{keyColumn, "total_count", "recurring_count", "recurring_pct"}); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, s := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{s.Key, s.TotalCount, s.RecurringCount, s.RecurringPct}); err != nil {
			return fmt.Errorf("writing %s row: %w", sheet, err)
		}
	}
	return nil
}

// FeatureSummary compares the mean of one feature between recurring and one-off rows.
type FeatureSummary struct {
	Name          string  `json:"name"`
	RecurringMean float64 `json:"recurring_mean"`
	OneOffMean    float64 `json:"one_off_mean"`
	Difference    float64 `json:"difference"`
}

// SummarizeFeatures computes per-feature class means over labeled rows, ordered
// by absolute difference descending. features[i] belongs to labels[i].
func SummarizeFeatures(features []Features, labels []Label) []FeatureSummary {
	type acc struct {
		recSum, oneSum float64
	}
	sums := make(map[string]*acc)
	nRec, nOne := 0, 0
	for i, f := range features {
		if labels[i] == LabelUnknown {
			continue
		}
		if labels[i] == LabelRecurring {
			nRec++
		} else {
			nOne++
		}
		for k, v := range f {
			a, ok := sums[k]
			if !ok {
				a = &acc{}
				sums[k] = a
			}
			if labels[i] == LabelRecurring {
				a.recSum += v
			} else {
				a.oneSum += v
			}
		}
	}

	out := make([]FeatureSummary, 0, len(sums))
	for k, a := range sums {
		s := FeatureSummary{
			Name:          k,
			RecurringMean: SafeDiv(a.recSum, float64(nRec), 0),
			OneOffMean:    SafeDiv(a.oneSum, float64(nOne), 0),
		}
		s.Difference = s.RecurringMean - s.OneOffMean
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := math.Abs(out[i].Difference), math.Abs(out[j].Difference)
		if di != dj {
			return di > dj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
