package classification

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// fa2Tx is one recipient of an FA2 transfer batch.
type fa2Tx struct {
	To      string          `json:"to_"`
	TokenId json.RawMessage `json:"token_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// fa2Transfer is one source of an FA2 transfer batch.
type fa2Transfer struct {
	From string  `json:"from_"`
	Txs  []fa2Tx `json:"txs"`
}

// fa12Transfer is the legacy single-recipient payload shape.
type fa12Transfer struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Value decimal.Decimal `json:"value"`
}

// decodeTransferPayload parses a transfer entrypoint value, normalizing
// the FA1.2 shape into the FA2 batch form.
func decodeTransferPayload(raw json.RawMessage) ([]fa2Transfer, error) {
	var transfers []fa2Transfer
	if err := json.Unmarshal(raw, &transfers); err == nil {
		return transfers, nil
	}
	var legacy fa12Transfer
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("unsupported transfer payload: %w", err)
	}
	return []fa2Transfer{
		{
			From: legacy.From,
			Txs: []fa2Tx{
				{
					To:      legacy.To,
					TokenId: json.RawMessage(`"0"`),
					Amount:  legacy.Value,
				},
			},
		},
	}, nil
}

// SingleTransfer classifies one token movement as incoming, outgoing or
// irrelevant from the address's perspective. Outgoing covers direct
// sends, contract-held tokens leaving on the user's behalf (collects)
// and contract-mediated sales such as fulfilled bids.
func SingleTransfer(token, tokenId string, amount decimal.Decimal, address, sender, from, to string) *AmountSet {
	set := NewAmountSet()

	isIncoming := to == address

	isFromAddr := from == address
	isFromContract := utils.IsKT(from)
	isContractMediated := utils.IsKT(sender) && utils.IsTz(from)
	isOutgoing := isFromAddr || isFromContract || isContractMediated

	if isIncoming {
		set.AddIncoming(amount, tokenId, token, from, to)
	} else if isOutgoing {
		set.AddOutgoing(amount, tokenId, token, from, to)
	}
	return set
}

// TransfersFromPayload decodes a transfer entrypoint value into flows,
// supporting both the FA2 batch and the FA1.2 single-recipient shapes.
func TransfersFromPayload(token string, raw json.RawMessage, address, sender string) (*AmountSet, error) {
	transfers, err := decodeTransferPayload(raw)
	if err != nil {
		return nil, err
	}

	set := NewAmountSet()
	for _, transfer := range transfers {
		for _, tx := range transfer.Txs {
			single := SingleTransfer(
				token,
				models.RawString(tx.TokenId),
				tx.Amount.Abs(),
				address,
				sender,
				transfer.From,
				tx.To,
			)
			set.AddAll(single)
		}
	}
	return set, nil
}
