package gains

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// TokenKey builds the ledger key for an asset: the token alone, or
// token-tokenId when an id is present.
func TokenKey(token, tokenId string) string {
	if tokenId == "" {
		return token
	}
	return token + "-" + tokenId
}

// GenerateReport runs the collated row stream through per-asset ledgers
// and returns the year's disposal records sorted by disposition date.
func GenerateReport(year int, collatedRows []models.Row, policy Policy) ([]models.DisposalRecord, error) {
	ledgers := map[string]*ledger{}
	var ledgerOrder []string
	ensure := func(key string) *ledger {
		if l, ok := ledgers[key]; ok {
			return l
		}
		l := &ledger{policy: policy, asset: key, year: year}
		ledgers[key] = l
		ledgerOrder = append(ledgerOrder, key)
		return l
	}

	xtzKey := TokenKey(models.XTZ, "")

	for i := range collatedRows {
		row := &collatedRows[i]
		t := row.Type
		date := row.Timestamp
		fiat := row.Fiat
		fees := row.Fees

		var inLedger, outLedger *ledger
		if row.HasIn() {
			inLedger = ensure(TokenKey(row.InToken, row.InTokenId))
		}
		if row.HasOut() {
			outLedger = ensure(TokenKey(row.OutToken, row.OutTokenId))
		}

		// remove fees without counting them as a disposition
		if err := ledgers[xtzKey].remove(fees, fiat, date, "", false); err != nil {
			return nil, fmt.Errorf("row %s: %w", row.Op, err)
		}

		// xtz or token in
		switch t {
		case models.TypeReceive, models.TypeReceiveToken, models.TypeTradeFiatOut,
			models.TypeSale, models.TypeSaleResale, models.TypeAirdrop:
			inFiat := decimal.Zero
			if row.InToken == models.XTZ {
				inFiat = fiat
			}
			inLedger.add(row.InAmt, inFiat, date)

			if t == models.TypeSaleResale {
				// the token leaves at a rate derived from the XTZ received
				outFiat := fiat.Mul(row.InAmt).Div(row.OutAmt)
				if err := outLedger.remove(row.OutAmt, outFiat, date, t, true); err != nil {
					return nil, fmt.Errorf("row %s: %w", row.Op, err)
				}
			}
		}

		// xtz out
		if t == models.TypeTradeFiatIn || t == models.TypeSend {
			if err := outLedger.remove(row.OutAmt, fiat, date, t, true); err != nil {
				return nil, fmt.Errorf("row %s: %w", row.Op, err)
			}
		}

		// token trade
		if t == models.TypeBuy || t == models.TypeTrade {
			inIsXTZ := row.InToken == models.XTZ
			outIsXTZ := row.OutToken == models.XTZ
			inAmt := row.InAmt
			outAmt := row.OutAmt
			inFiat := fiat
			outFiat := fiat

			if inIsXTZ {
				outFiat = fiat.Mul(inAmt.Add(fees)).Div(outAmt)
			} else if outIsXTZ {
				inFiat = fiat.Mul(outAmt.Add(fees)).Div(inAmt)
			} else {
				if logger.L != nil {
					logger.L.Warn("token-to-token trade not supported, skipping", "op", row.Op)
				}
				continue
			}

			inLedger.add(inAmt, inFiat, date)
			if err := outLedger.remove(outAmt, outFiat, date, t, true); err != nil {
				return nil, fmt.Errorf("row %s: %w", row.Op, err)
			}
		}
	}

	var records []models.DisposalRecord
	for _, key := range ledgerOrder {
		records = append(records, ledgers[key].disposed...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return utils.ParseTimestamp(records[i].DateDisposed).
			Before(utils.ParseTimestamp(records[j].DateDisposed))
	})
	return records, nil
}
