package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary totals a batch run.
type Summary struct {
	Files     int          `json:"files"`
	Failed    int          `json:"failed"`
	Rows      int          `json:"rows"`
	Recurring int          `json:"recurring"`
	Results   []FileResult `json:"results"`
}

// Summarize totals the file results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results), Results: results}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Rows += r.Rows
		s.Recurring += r.Recurring
	}
	return s
}

// PrintSummaryJSON outputs the summary in JSON format
func PrintSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// PrintSummaryTable outputs one row per file and a totals footer
func PrintSummaryTable(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"File", "Rows", "Recurring", "Share", "Output"})

	for _, r := range s.Results {
		if r.Err != nil {
			t.AppendRow(table.Row{filepath.Base(r.Input), "", "", "", text.FgRed.Sprint("FAILED: " + r.Error)})
			continue
		}
		t.AppendRow(table.Row{filepath.Base(r.Input), r.Rows, r.Recurring, share(r.Recurring, r.Rows), r.Output})
	}

	t.AppendSeparator()
	footer := fmt.Sprintf("%d files", s.Files)
	if s.Failed > 0 {
		footer = fmt.Sprintf("%d files (%d failed)", s.Files, s.Failed)
	}
	t.AppendFooter(table.Row{footer, s.Rows, s.Recurring, share(s.Recurring, s.Rows), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
