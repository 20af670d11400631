package rows

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/username/tezgains/src/models"
)

// WriteDisposals writes a gains report CSV in the tax-software import
// shape.
func WriteDisposals(filename string, records []models.DisposalRecord) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.DisposalHeaders); err != nil {
		return fmt.Errorf("writing headers to %s: %w", filename, err)
	}
	for _, rec := range records {
		record := []string{
			rec.TaxLotID,
			rec.AssetName,
			rec.Amount.String(),
			rec.DateAcquired,
			rec.DateDisposed,
			rec.Proceeds.String(),
			rec.CostBasis.String(),
			rec.Gains.String(),
			strconv.Itoa(rec.HoldingDays),
			rec.DataSource,
			string(rec.OriginalType),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing record to %s: %w", filename, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteIncome writes the income summary CSV.
func WriteIncome(filename string, entries []models.IncomeEntry) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"asset", "income"}); err != nil {
		return fmt.Errorf("writing headers to %s: %w", filename, err)
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Asset, e.Income.String()}); err != nil {
			return fmt.Errorf("writing entry to %s: %w", filename, err)
		}
	}
	w.Flush()
	return w.Error()
}
