package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gigurra/recurring-features/internal"
)

// WriteFeatureMatrix writes one CSV row per transaction: id, user_id, every
// feature in sorted name order and, for labeled datasets, the recurring label.
// It returns the feature column names.
func WriteFeatureMatrix(ctx context.Context, w io.Writer, ds *internal.Dataset, e *internal.Extractor, opts Options) ([]string, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("no transactions")
	}
	idx := internal.NewIndex(ds.Transactions)

	// Every set emits a fixed key set, so the first row names all columns
	names := e.Extract(ds.Transactions[0], idx).Keys()
	labeled := ds.HasLabels()

	cw := csv.NewWriter(w)
	header := append([]string{internal.ColID, internal.ColUserID}, names...)
	if labeled {
		header = append(header, internal.ColRecurring)
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	chunk := opts.chunkSize()
	for lo := 0; lo < ds.Len(); lo += chunk {
		hi := min(lo+chunk, ds.Len())
		features, err := ExtractRange(ctx, e, idx, lo, hi, opts.jobs())
		if err != nil {
			return nil, err
		}
		for i, f := range features {
			tx := ds.Transactions[lo+i]
			row := make([]string, 0, len(header))
			row = append(row, tx.ID, tx.UserID)
			for _, name := range names {
				row = append(row, strconv.FormatFloat(f[name], 'g', -1, 64))
			}
			if labeled {
				row = append(row, labelCell(ds.Labels[lo+i]))
			}
			if err := cw.Write(row); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", lo+i+1, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing output: %w", err)
	}
	return names, nil
}

func labelCell(l internal.Label) string {
	switch l {
	case internal.LabelRecurring:
		return "1"
	case internal.LabelOneOff:
		return "0"
	default:
		return ""
	}
}
