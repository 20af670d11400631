package gains

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

var incomeTypes = []models.TxType{
	models.TypeReceive,
	models.TypeSale,
	models.TypeInterest,
}

// SummarizeIncome totals the year's income rows: per-asset amounts plus
// one entry accumulating fiat value under the configured currency. The
// currency entry always comes first.
func SummarizeIncome(year int, collatedRows []models.Row, currency string) []models.IncomeEntry {
	currencyKey := strings.ToUpper(currency)
	totals := map[string]decimal.Decimal{currencyKey: decimal.Zero}
	order := []string{currencyKey}

	for i := range collatedRows {
		r := &collatedRows[i]
		income := false
		for _, t := range incomeTypes {
			if r.Type == t {
				income = true
				break
			}
		}
		if !income || !utils.IsTimestampInYear(r.Timestamp, year) {
			continue
		}

		if _, ok := totals[r.InToken]; !ok {
			totals[r.InToken] = decimal.Zero
			order = append(order, r.InToken)
		}
		totals[r.InToken] = totals[r.InToken].Add(r.InAmt)
		totals[currencyKey] = totals[currencyKey].Add(r.Fiat.Mul(r.InAmt))
	}

	entries := make([]models.IncomeEntry, 0, len(order))
	for _, asset := range order {
		entries = append(entries, models.IncomeEntry{Asset: asset, Income: totals[asset]})
	}
	return entries
}
