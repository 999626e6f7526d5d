package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleReport() *EvalReport {
	return &EvalReport{
		Rows:      40,
		Labeled:   30,
		Recurring: 12,
		Names: []RecurrenceStat{
			{Key: "Netflix", TotalCount: 10, RecurringCount: 10, RecurringPct: 1},
			{Key: "Spotify", TotalCount: 5, RecurringCount: 5, RecurringPct: 1},
		},
		Amounts:  []RecurrenceStat{{Key: "1234.50", TotalCount: 10, RecurringCount: 9, RecurringPct: 0.9}},
		Features: []FeatureSummary{{Name: "confidence_score", RecurringMean: 0.8, OneOffMean: 0.2, Difference: 0.6}},
	}
}

func TestPrintEvalJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintEvalJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("PrintEvalJSON failed: %v", err)
	}
	var decoded EvalReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Rows != 40 || len(decoded.Names) != 2 || decoded.Amounts[0].Key != "1234.50" {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}
}

func TestPrintEvalTable(t *testing.T) {
	var buf bytes.Buffer
	PrintEvalTable(&buf, sampleReport(), OutputOptions{Limit: 1, TopFeatures: 5, Currency: GetCurrency("USD")})
	out := buf.String()

	for _, want := range []string{"Analyzed 40 rows (30 labeled, 12 recurring)", "Netflix", "... and 1 more", "$1,234.50", "confidence_score"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Spotify") {
		t.Error("expected the limit to hide Spotify")
	}
}

func TestPrintEvalTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintEvalTable(&buf, &EvalReport{}, OutputOptions{Currency: GetCurrency("USD")})
	if !strings.Contains(buf.String(), "none") {
		t.Errorf("expected empty tables to print none, got:\n%s", buf.String())
	}
}

func TestPrintFamilySuggestions(t *testing.T) {
	var buf bytes.Buffer
	PrintFamilySuggestions(&buf, []FamilySuggestion{{
		Prefix:     "ICA",
		Pattern:    "^ICA",
		Names:      []string{"ICA 1", "ICA 2", "ICA 3", "ICA 4"},
		Users:      2,
		MonthCount: 6,
		TxCount:    9,
	}})
	out := buf.String()
	for _, want := range []string{"1 potential vendor family", "... and 1 more", "known:", `- pattern: "^ICA"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}

	buf.Reset()
	PrintFamilySuggestions(&buf, nil)
	if !strings.Contains(buf.String(), "No vendor family suggestions") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
