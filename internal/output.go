package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// OutputOptions controls how the analysis report is displayed
type OutputOptions struct {
	Limit       int // max rows per table, 0 for all
	TopFeatures int // feature summary rows, 0 to hide
	Currency    Currency
}

// PrintEvalJSON outputs the report in JSON format
func PrintEvalJSON(w io.Writer, r *EvalReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintEvalTable outputs the report as formatted tables
func PrintEvalTable(w io.Writer, r *EvalReport, opts OutputOptions) {
	fmt.Fprintf(w, "Analyzed %d rows (%d labeled, %d recurring)\n\n", r.Rows, r.Labeled, r.Recurring)

	fmt.Fprintln(w, text.Bold.Sprint("Highly recurring names"))
	renderStats(w, "Name", r.Names, opts, func(key string) string { return key })

	fmt.Fprintln(w, text.Bold.Sprint("Highly recurring amounts"))
	renderStats(w, "Amount", r.Amounts, opts, func(key string) string {
		d, err := decimal.NewFromString(key)
		if err != nil {
			return key
		}
		return opts.Currency.FormatDecimal(d)
	})

	if opts.TopFeatures > 0 && len(r.Features) > 0 {
		fmt.Fprintln(w, text.Bold.Sprint("Most separating features"))
		renderFeatures(w, r.Features, opts.TopFeatures)
	}

	if len(r.Suggestions) > 0 {
		PrintFamilySuggestions(w, r.Suggestions)
	}
}

func renderStats(w io.Writer, keyHeader string, stats []RecurrenceStat, opts OutputOptions, formatKey func(string) string) {
	if len(stats) == 0 {
		fmt.Fprintln(w, text.FgHiBlack.Sprint("  none"))
		fmt.Fprintln(w)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{keyHeader, "Total", "Recurring", "Recurring %"})

	shown := stats
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}
	for _, s := range shown {
		pct := fmt.Sprintf("%.1f%%", s.RecurringPct*100)
		if s.RecurringPct >= 0.99 {
			pct = text.FgGreen.Sprint(pct)
		}
		t.AppendRow(table.Row{formatKey(s.Key), s.TotalCount, s.RecurringCount, pct})
	}
	if len(shown) < len(stats) {
		t.AppendSeparator()
		t.AppendFooter(table.Row{fmt.Sprintf("... and %d more", len(stats)-len(shown)), "", "", ""})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

func renderFeatures(w io.Writer, summaries []FeatureSummary, top int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Feature", "Recurring", "One-off", "Difference"})

	if len(summaries) > top {
		summaries = summaries[:top]
	}
	for _, s := range summaries {
		diff := fmt.Sprintf("%+.3f", s.Difference)
		if s.Difference > 0 {
			diff = text.FgGreen.Sprint(diff)
		} else if s.Difference < 0 {
			diff = text.FgRed.Sprint(diff)
		}
		t.AppendRow(table.Row{s.Name, fmt.Sprintf("%.3f", s.RecurringMean), fmt.Sprintf("%.3f", s.OneOffMean), diff})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

// PrintFamilySuggestions displays suggested vendor families with a config snippet
func PrintFamilySuggestions(w io.Writer, suggestions []FamilySuggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No vendor family suggestions found.")
		return
	}

	fmt.Fprintf(w, "Found %d potential vendor famil%s:\n\n", len(suggestions), pluralY(len(suggestions)))
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %q (%d users, %d months, %d transactions)\n", s.Prefix, s.Users, s.MonthCount, s.TxCount)
		fmt.Fprintf(w, "    Names: %s\n", strings.Join(truncateStrings(s.Names, 3), ", "))
		if len(s.Names) > 3 {
			fmt.Fprintf(w, "           ... and %d more\n", len(s.Names)-3)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "    Add to config:")
		fmt.Fprintln(w, "      known:")
		fmt.Fprintf(w, "        - pattern: %q\n", s.Pattern)
		fmt.Fprintln(w)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// truncateStrings returns at most n strings from the slice
func truncateStrings(strs []string, n int) []string {
	if len(strs) <= n {
		return strs
	}
	return strs[:n]
}
