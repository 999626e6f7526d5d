package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of an Excel workbook. The header row is the
// first row carrying every required column; rows above it (titles, export
// metadata) are skipped.
func ParseXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	for i, row := range rows {
		if len(newColumnIndex(row).missing()) == 0 {
			// excelize trims trailing empty cells; DecodeTable pads them back
			return DecodeTable(row, rows[i+1:])
		}
	}
	return nil, fmt.Errorf("could not find a header row with columns %v", RequiredColumns)
}

func init() {
	RegisterParser("xlsx", ParserFunc(ParseXLSX), ".xlsx")
}
