package rows

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
)

// Write writes rows as CSV with the interchange headers.
func Write(filename string, rows []models.Row) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.RowHeaders); err != nil {
		return fmt.Errorf("writing headers to %s: %w", filename, err)
	}
	for i := range rows {
		if err := w.Write(recordFromRow(&rows[i])); err != nil {
			return fmt.Errorf("writing row to %s: %w", filename, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Read parses a CSV file in the interchange format. Columns are matched
// by header name; a missing level column yields height-less rows.
func Read(filename string) ([]models.Row, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[h] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var out []models.Row
	for _, record := range records[1:] {
		row := models.Row{
			Timestamp:   field(record, "timestamp"),
			Type:        models.TxType(field(record, "type")),
			Fiat:        parseDecimal(field(record, "fiat")),
			InAmt:       parseDecimal(field(record, "in_amt")),
			InToken:     field(record, "in_token"),
			InTokenId:   field(record, "in_token_id"),
			InTokenFrom: field(record, "in_token_from"),
			OutAmt:      parseDecimal(field(record, "out_amt")),
			OutToken:    field(record, "out_token"),
			OutTokenId:  field(record, "out_token_id"),
			OutTokenTo:  field(record, "out_token_to"),
			Fees:        parseDecimal(field(record, "fees")),
			Account:     field(record, "account"),
			Level:       field(record, "level"),
			Op:          field(record, "op"),
		}
		out = append(out, row)
	}
	return out, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func recordFromRow(r *models.Row) []string {
	inAmt, outAmt := "", ""
	if r.HasIn() {
		inAmt = r.InAmt.String()
	}
	if r.HasOut() {
		outAmt = r.OutAmt.String()
	}
	return []string{
		r.Timestamp,
		string(r.Type),
		r.Fiat.String(),
		inAmt,
		r.InToken,
		r.InTokenId,
		r.InTokenFrom,
		outAmt,
		r.OutToken,
		r.OutTokenId,
		r.OutTokenTo,
		r.Fees.String(),
		r.Account,
		r.Level,
		r.Op,
	}
}
