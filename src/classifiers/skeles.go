package classifiers

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/classification"
	"github.com/username/tezgains/src/models"
)

const (
	skelesMintQueue = "KT1AvxTNETj3U4b3wKYxkX6CKya1EgLZezv8"
	skelesFA2       = "KT1HZVd9Cjc2CMe3sQvXgbxhpJkdena21pih"
)

// classifyMintQueue handles the skeles prepay pattern: buying into the
// mint queue sends XTZ now and receives tokens in a later airdrop. The
// purchase is recorded as an incoming future token so the collator can
// match the airdrop back to this payment.
func classifyMintQueue(res *models.Result, state *classification.State, op *models.Operation, address string) bool {
	if op.Parameter.Entrypoint == "buy" && op.SenderAddress() == address {
		count := decimal.NewFromInt(1)
		if s := models.RawString(op.Parameter.Value); s != "" {
			if d, err := decimal.NewFromString(s); err == nil {
				count = d
			}
		}
		set := classification.NewAmountSet()
		set.AddIncoming(count, "", "FUTURE-"+skelesFA2, skelesMintQueue, address)
		classification.AddAmounts(res, set, false)

		res.Type = models.TypeSend
	}
	// the outgoing XTZ flow still comes from the generic amount rules
	return false
}

// classifySkelesFA2 counts queue-driven mints as receipts, but only for
// tokens minted to the address: batches mint for many buyers at once.
func classifySkelesFA2(res *models.Result, state *classification.State, op *models.Operation, address string) bool {
	if op.Parameter.Entrypoint != "mint" {
		return false
	}
	var value mintValue
	if err := json.Unmarshal(op.Parameter.Value, &value); err != nil {
		return false
	}
	if value.Address != address {
		return false
	}
	state.SetTransfer(true)

	sender := op.SenderAddress()
	set := classification.SingleTransfer(
		skelesFA2,
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

func registerSkeles(registry *classification.Registry) {
	registry.Register(skelesFA2, classifySkelesFA2)
	registry.Register(skelesMintQueue, classifyMintQueue)
}
