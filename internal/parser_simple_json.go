package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// SimpleJSONFormat is a minimal JSON format for importing transactions
// Example:
//
//	{
//	  "transactions": [
//	    {"id": "t1", "user_id": "u1", "name": "Netflix", "amount": 15.99, "date": "2024-01-01"},
//	    {"id": "t2", "user_id": "u1", "name": "Netflix", "amount": "15.99", "date": "2024-02-01", "recurring": true}
//	  ]
//	}
//
// Amounts may be JSON numbers or strings.
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"` // YYYY-MM-DD format
	Category   string          `json:"category,omitempty"`
	MerchantID string          `json:"merchant_id,omitempty"`
	Recurring  *bool           `json:"recurring,omitempty"`
}

// simpleJSONHeader is the pass-through header of datasets read from JSON
var simpleJSONHeader = []string{ColID, ColUserID, ColName, ColAmount, ColDate, ColCategory, ColMerchantID, ColRecurring}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	ds := &Dataset{Header: simpleJSONHeader}
	for i, tx := range jsonData.Transactions {
		date, err := ParseDate(tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}

		label, recurring := LabelUnknown, ""
		if tx.Recurring != nil {
			label, recurring = LabelOneOff, "0"
			if *tx.Recurring {
				label, recurring = LabelRecurring, "1"
			}
		}

		t := Transaction{
			ID:         tx.ID,
			UserID:     tx.UserID,
			Name:       tx.Name,
			Amount:     tx.Amount,
			Date:       date,
			Category:   tx.Category,
			MerchantID: tx.MerchantID,
		}
		ds.Transactions = append(ds.Transactions, t)
		ds.Labels = append(ds.Labels, label)
		ds.Rows = append(ds.Rows, []string{
			t.ID, t.UserID, t.Name, t.Amount.String(), t.DateString(),
			t.Category, t.MerchantID, recurring,
		})
	}

	return ds, nil
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON), ".json")
}
