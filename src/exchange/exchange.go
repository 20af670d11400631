// Package exchange imports user-supplied exchange CSV exports in the
// row interchange format.
package exchange

import (
	"os"
	"slices"

	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/rows"
)

// FilterRows keeps rows involving the base asset plus any asset traded
// against it. Trades against unrelated pairs are dropped so a mixed
// exchange export doesn't leak foreign ledgers into the pipeline.
func FilterRows(rowList []models.Row, baseToken string) []models.Row {
	var otherTokens []string
	for i := range rowList {
		r := &rowList[i]
		if r.Type != models.TypeTrade {
			continue
		}
		if r.InToken == baseToken {
			otherTokens = append(otherTokens, r.OutToken)
		} else if r.OutToken == baseToken {
			otherTokens = append(otherTokens, r.InToken)
		}
	}

	var kept []models.Row
	for _, r := range rowList {
		if r.Type == models.TypeTrade {
			// only include trades against the base token
			if (r.InToken == baseToken && slices.Contains(otherTokens, r.OutToken)) ||
				(r.OutToken == baseToken && slices.Contains(otherTokens, r.InToken)) {
				kept = append(kept, r)
			}
			continue
		}
		if r.InToken == baseToken || r.OutToken == baseToken ||
			slices.Contains(otherTokens, r.InToken) || slices.Contains(otherTokens, r.OutToken) {
			kept = append(kept, r)
		}
	}
	return kept
}

// ReadFile loads and filters an exchange CSV. A missing file is not an
// error: cost basis will likely be wrong, so it is logged, but on-chain
// processing can still proceed.
func ReadFile(filename string) ([]models.Row, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if logger.L != nil {
			logger.L.Warn("Exchange CSV file missing. Cost basis will likely be wrong.", "file", filename)
		}
		return nil, nil
	}
	allRows, err := rows.Read(filename)
	if err != nil {
		return nil, err
	}
	return FilterRows(allRows, models.XTZ), nil
}
