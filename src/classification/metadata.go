package classification

import (
	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
)

// NewResult seeds a result from the sub-group's first operation.
func NewResult(ops []*models.Operation, address string) *models.Result {
	first := ops[0]
	return &models.Result{
		Type:      models.TypeUnknown,
		Fees:      decimal.Zero,
		Timestamp: first.Timestamp,
		FiatQuote: first.FiatQuote(),
		Level:     first.Level,
		Hash:      first.Hash,
		Address:   address,
	}
}

// AddFees accrues the operation's baker and storage fees when the
// address is the fee payer (sender or initiator). Fees stay in mutez
// until the result is finalized.
func AddFees(res *models.Result, op *models.Operation, address string) {
	paysFees := op.SenderAddress() == address || op.InitiatorAddress() == address
	if paysFees {
		res.Fees = res.Fees.Add(decimal.NewFromInt(op.BakerFee + op.StorageFee))
	}
}

// AddAmounts merges an AmountSet into the result. Flows matching an
// existing entry (same token, token id and counterparty) are summed
// rather than appended. Afterwards, opposing flows of the same
// token+tokenId are netted: equal amounts cancel both entries, unequal
// amounts leave the absolute difference on the larger side.
func AddAmounts(res *models.Result, amounts *AmountSet, pseudo bool) {
	addFlow := func(flows []models.Flow, f models.Flow, in bool) []models.Flow {
		for i := range flows {
			a := &flows[i]
			sameParty := (in && a.From == f.From) || (!in && a.To == f.To)
			if a.Token == f.Token && sameParty && a.TokenId == f.TokenId {
				a.Amount = a.Amount.Add(f.Amount)
				return flows
			}
		}
		if pseudo {
			f.Pseudo = true
		}
		return append(flows, f)
	}

	for _, f := range amounts.Incoming {
		res.In = addFlow(res.In, f, true)
	}
	for _, f := range amounts.Outgoing {
		res.Out = addFlow(res.Out, f, false)
	}

	// consolidate incoming/outgoing entries of the same token
	for i := 0; i < len(res.In); i++ {
		in := res.In[i]
		oi := -1
		for j := range res.Out {
			if res.Out[j].Token == in.Token && res.Out[j].TokenId == in.TokenId {
				oi = j
				break
			}
		}
		if oi < 0 {
			continue
		}
		diff := in.Amount.Sub(res.Out[oi].Amount)
		switch diff.Sign() {
		case 0:
			res.In = append(res.In[:i], res.In[i+1:]...)
			res.Out = append(res.Out[:oi], res.Out[oi+1:]...)
		case 1:
			res.In[i].Amount = diff
			res.Out = append(res.Out[:oi], res.Out[oi+1:]...)
		default:
			res.Out[oi].Amount = diff.Abs()
			res.In = append(res.In[:i], res.In[i+1:]...)
		}
	}
}

// StripPseudoFlows drops synthesized flows from both directions. Used as
// the disambiguation fallback when a sub-group accumulates more than one
// genuine flow per direction.
func StripPseudoFlows(res *models.Result) {
	keep := func(flows []models.Flow) []models.Flow {
		var out []models.Flow
		for _, f := range flows {
			if !f.Pseudo {
				out = append(out, f)
			}
		}
		return out
	}
	res.In = keep(res.In)
	res.Out = keep(res.Out)
}
