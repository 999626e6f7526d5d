package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column names of the tabular transaction formats.
const (
	ColID         = "id"
	ColUserID     = "user_id"
	ColName       = "name"
	ColAmount     = "amount"
	ColDate       = "date"
	ColCategory   = "category"
	ColMerchantID = "merchant_id"
	ColRecurring  = "recurring"
)

// RequiredColumns must be present in every input table.
var RequiredColumns = []string{ColID, ColUserID, ColName, ColAmount, ColDate}

// ParseCSV reads a CSV file with a header row.
func ParseCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV decodes CSV content with a header row.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: no header row")
	}
	return DecodeTable(rows[0], rows[1:])
}

// columnIndex maps lowercased header names to their position.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func (c columnIndex) missing() []string {
	var out []string
	for _, col := range RequiredColumns {
		if _, ok := c[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}

func (c columnIndex) get(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DecodeTable converts a header and rows into a dataset. Rows are kept for
// pass-through output, short rows padded with empty cells to the header width.
// Empty rows are skipped; a malformed date or amount
// fails the whole table with the offending row number (1-based, header excluded).
func DecodeTable(header []string, rows [][]string) (*Dataset, error) {
	cols := newColumnIndex(header)
	if missing := cols.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{Header: header}
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		tx, label, err := decodeRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ds.Rows = append(ds.Rows, padRow(row, len(header)))
		ds.Transactions = append(ds.Transactions, tx)
		ds.Labels = append(ds.Labels, label)
	}
	return ds, nil
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func decodeRow(cols columnIndex, row []string) (Transaction, Label, error) {
	date, err := ParseDate(cols.get(row, ColDate))
	if err != nil {
		return Transaction{}, LabelUnknown, err
	}
	amount, err := ParseAmount(cols.get(row, ColAmount))
	if err != nil {
		return Transaction{}, LabelUnknown, err
	}
	label, err := ParseLabel(cols.get(row, ColRecurring))
	if err != nil {
		return Transaction{}, LabelUnknown, err
	}
	return Transaction{
		ID:         cols.get(row, ColID),
		UserID:     cols.get(row, ColUserID),
		Name:       cols.get(row, ColName),
		Amount:     amount,
		Date:       date,
		Category:   cols.get(row, ColCategory),
		MerchantID: cols.get(row, ColMerchantID),
	}, label, nil
}

// ParseAmount parses a decimal amount. A lone comma is taken as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ParseLabel parses the optional recurring column. Empty means unknown.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LabelUnknown, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return LabelRecurring, nil
		}
		return LabelOneOff, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f != 0 {
			return LabelRecurring, nil
		}
		return LabelOneOff, nil
	}
	switch strings.ToLower(s) {
	case "yes", "y":
		return LabelRecurring, nil
	case "no", "n":
		return LabelOneOff, nil
	}
	return LabelUnknown, fmt.Errorf("invalid recurring label %q", s)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func init() {
	RegisterParser("csv", ParserFunc(ParseCSV), ".csv", ".txt")
}
