package classifiers

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/classification"
	"github.com/username/tezgains/src/models"
)

const fxhashGentkV1 = "KT1KEa8z6vWXDJrVqtMrAeDVzsvxat3kHaCE"

// mintValue is the payload of mint-style purchase transfers.
type mintValue struct {
	Address string          `json:"address"`
	Amount  json.RawMessage `json:"amount"`
	TokenId json.RawMessage `json:"token_id"`
}

func (v mintValue) amount() decimal.Decimal {
	if s := models.RawString(v.Amount); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.NewFromInt(1)
}

// classifyGentkV1 treats the gentk mint entrypoint as a transfer: it
// represents both sending (a collector minting your issue) and
// receiving (you minting somebody else's).
func classifyGentkV1(res *models.Result, state *classification.State, op *models.Operation, address string) bool {
	if op.Parameter.Entrypoint != "mint" {
		return false
	}
	var value mintValue
	if err := json.Unmarshal(op.Parameter.Value, &value); err != nil {
		return false
	}
	state.SetTransfer(true)

	sender := op.SenderAddress()
	set := classification.SingleTransfer(
		fxhashGentkV1,
		models.RawString(value.TokenId),
		value.amount(),
		address,
		sender,
		sender,
		value.Address,
	)
	classification.AddAmounts(res, set, false)
	return true
}

func registerFxhash(registry *classification.Registry) {
	registry.Register(fxhashGentkV1, classifyGentkV1)
}
