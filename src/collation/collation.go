// Package collation merges classified on-chain rows with exchange rows
// into one chronological ledger and resolves transactions that only make
// sense in light of other rows.
package collation

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// ErrMissingOpHash reports a height-less exchange transfer without the
// op hash needed to anchor it next to its on-chain counterpart.
var ErrMissingOpHash = errors.New("exchange transfer row missing op hash")

// Collate merges the row sets, sorts them chronologically and runs the
// second classification phase.
func Collate(exchangeRows, accountRows [][]models.Row) ([]models.Row, error) {
	var all []models.Row
	for _, rs := range exchangeRows {
		all = append(all, rs...)
	}
	for _, rs := range accountRows {
		all = append(all, rs...)
	}

	var accounts []string
	for _, rs := range accountRows {
		if len(rs) == 0 {
			continue
		}
		if account := rs[0].Account; !slices.Contains(accounts, account) {
			accounts = append(accounts, account)
		}
	}

	sorted, err := Sort(all)
	if err != nil {
		return nil, err
	}
	return Classify(sorted, accounts), nil
}

// Sort orders rows by block height, falling back to timestamps when a
// height is missing, then relocates height-less exchange transfers next
// to the on-chain row sharing their op hash: the outbound leg goes
// immediately before it, the inbound leg immediately after.
func Sort(rowList []models.Row) ([]models.Row, error) {
	sorted := make([]models.Row, len(rowList))
	copy(sorted, rowList)

	sort.SliceStable(sorted, func(i, j int) bool {
		la, aok := sorted[i].LevelValue()
		lb, bok := sorted[j].LevelValue()
		if !aok || !bok {
			ta := utils.ParseTimestamp(sorted[i].Timestamp)
			tb := utils.ParseTimestamp(sorted[j].Timestamp)
			return ta.Before(tb)
		}
		return la < lb
	})

	var transferIndices []int
	for i := range sorted {
		if sorted[i].Type == models.TypeTransfer && sorted[i].Level == "" {
			transferIndices = append(transferIndices, i)
		}
	}

	for _, i := range transferIndices {
		r := sorted[i]
		hash := r.Op
		if hash == "" {
			return nil, fmt.Errorf("%w: transfer on %s", ErrMissingOpHash, r.Timestamp)
		}
		// outbound legs sit before the chain row, inbound legs after
		offset := 0
		if r.HasIn() {
			offset = 1
		}
		for j := range sorted {
			if sorted[j].Op == hash {
				utils.Move(sorted, i, j+offset)
				break
			}
		}
	}
	return sorted, nil
}

type boughtToken struct {
	tokenId  string
	level    int64
	hasLevel bool
}

type bidOffer struct {
	token   string
	tokenId string
	row     *models.Row
}

type prepay struct {
	idx        int
	amount     decimal.Decimal
	xtzPerUnit decimal.Decimal
}

// Classify runs the second phase over sorted rows. The auxiliary indexes
// are built from the full original set up front; the pass itself emits
// copies, so a bid row cleared in the output still offers its payment to
// a later settlement through the index.
func Classify(rowList []models.Row, accounts []string) []models.Row {
	boughtTokens := map[string][]boughtToken{}
	cexTransferHashes := map[string]bool{}
	var bidsAndOffers []bidOffer
	contractsWithXTZ := map[string][]*prepay{}

	for idx := range rowList {
		r := &rowList[idx]
		level, hasLevel := r.LevelValue()
		switch {
		case r.Type == models.TypeTrade || r.Type == models.TypeAirdrop:
			// purchases; out empty or XTZ filters out token-for-token trades
			if !r.HasOut() || r.OutToken == models.XTZ {
				boughtTokens[r.InToken] = append(boughtTokens[r.InToken], boughtToken{
					tokenId:  r.InTokenId,
					level:    level,
					hasLevel: hasLevel,
				})
			}
		case r.Type == models.TypeTransfer && r.Level == "":
			cexTransferHashes[r.Op] = true
		case r.Type == models.TypeAuctionBid || r.Type == models.TypeOffer:
			bidsAndOffers = append(bidsAndOffers, bidOffer{
				token:   r.InToken,
				tokenId: r.InTokenId,
				row:     r,
			})
		case r.Type == models.TypeSend && utils.IsKT(r.OutTokenTo):
			amount := decimal.NewFromInt(1)
			if r.HasIn() {
				amount = r.InAmt.Truncate(0)
			}
			contractsWithXTZ[r.OutTokenTo] = append(contractsWithXTZ[r.OutTokenTo], &prepay{
				idx:        idx,
				amount:     amount,
				xtzPerUnit: r.OutAmt.Div(amount),
			})
		}
	}

	out := make([]models.Row, 0, len(rowList))
	for idx := range rowList {
		r := rowList[idx]
		level, hasLevel := r.LevelValue()

		switch {
		case r.Type == models.TypeTrade && r.OutToken == models.XTZ:
			// "buy" tokens with XTZ
			r.Type = models.TypeBuy

		case (r.Type == models.TypeSendTokenTz && slices.Contains(accounts, r.OutTokenTo)) ||
			(r.Type == models.TypeAirdrop && slices.Contains(accounts, r.InTokenFrom)):
			// transferring tokens between your own accounts
			r.Type = models.TypeTransferToken

		case (r.Type == models.TypeSend && slices.Contains(accounts, r.OutTokenTo)) ||
			(r.Type == models.TypeReceive && slices.Contains(accounts, r.InTokenFrom)):
			// transferring XTZ between your own accounts
			r.Type = models.TypeTransfer

		case (r.Type == models.TypeReceive || r.Type == models.TypeSend) && cexTransferHashes[r.Op]:
			// transferring XTZ between an exchange and one of your accounts
			r.Type = models.TypeTransfer

		case r.Type == models.TypeTrade && r.Level == "":
			r.Type = models.TypeTradeCex

		case r.Type == models.TypeSale:
			for _, bought := range boughtTokens[r.OutToken] {
				if bought.tokenId == r.OutTokenId && bought.hasLevel && hasLevel && bought.level < level {
					r.Type = models.TypeSaleResale
					break
				}
			}

		case r.Type == models.TypeAuctionSettle || r.Type == models.TypeOfferFulfill:
			// move the payment recorded at bid time to the settlement
			for _, bid := range bidsAndOffers {
				if bid.token == r.OutToken && bid.tokenId == r.OutTokenId {
					r.Type = models.TypeBuy
					r.CopyOutFrom(bid.row, nil)
					break
				}
			}
			// no matching bid can be a legit state: the bid may predate
			// the processed window

		case r.Type == models.TypeAirdrop:
			// some airdrops are the second phase of a prepaid mint; move
			// the payment to the time of the token receipt
			if pending := contractsWithXTZ[r.InTokenFrom]; len(pending) > 0 {
				p := pending[0]
				inAmt := r.InAmt.Truncate(0)
				p.amount = p.amount.Sub(inAmt)

				r.Type = models.TypeBuy
				outAmt := p.xtzPerUnit.Mul(inAmt)
				r.CopyOutFrom(&out[p.idx], &outAmt)

				if p.amount.Sign() <= 0 {
					// fully consumed; the original payment row no longer
					// represents an economic event
					contractsWithXTZ[r.InTokenFrom] = pending[1:]
					out[p.idx].ClearInOut()
				}
			}

		case r.Type == models.TypeAuctionBid || r.Type == models.TypeOffer || r.Type == models.TypeOfferRetract:
			r.ClearInOut()

		case r.Type == models.TypeAuctionOutbid:
			r.Type = models.TypeRemove
		}

		out = append(out, r)
	}

	kept := out[:0]
	for _, r := range out {
		if r.Type != models.TypeRemove {
			kept = append(kept, r)
		}
	}
	return kept
}
