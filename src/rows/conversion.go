// Package rows flattens classification results into the tabular
// interchange format and reads/writes its CSV form.
package rows

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// FromResults flattens results into rows, one row per aligned in/out
// flow pair. Fees ride only on the first row of a group to prevent
// overcounting.
func FromResults(results []*models.Result) []models.Row {
	var out []models.Row
	for _, res := range results {
		if len(res.In) > 1 && len(res.Out) > 1 {
			if logger.L != nil {
				logger.L.Warn("Result has multiple in and out flows", "hash", res.Hash)
			}
		}
		maxLen := utils.MaxInt(len(res.In), len(res.Out))
		if maxLen == 0 {
			out = append(out, makeRow(res, nil, nil, true))
			continue
		}
		for k := 0; k < maxLen; k++ {
			var in, outFlow *models.Flow
			if k < len(res.In) {
				in = &res.In[k]
			}
			if k < len(res.Out) {
				outFlow = &res.Out[k]
			}
			out = append(out, makeRow(res, in, outFlow, k == 0))
		}
	}
	return out
}

func makeRow(res *models.Result, in, out *models.Flow, includeFees bool) models.Row {
	row := models.Row{
		Timestamp: res.Timestamp,
		Type:      res.Type,
		Fiat:      res.FiatQuote,
		Account:   res.Address,
		Level:     strconv.FormatInt(res.Level, 10),
		Op:        res.Hash,
	}
	if includeFees {
		row.Fees = res.Fees
	} else {
		row.Fees = decimal.Zero
	}
	if in != nil {
		row.InAmt = in.Amount
		row.InToken = in.Token
		row.InTokenId = in.TokenId
		row.InTokenFrom = in.From
	}
	if out != nil {
		row.OutAmt = out.Amount
		row.OutToken = out.Token
		row.OutTokenId = out.TokenId
		row.OutTokenTo = out.To
	}
	return row
}
