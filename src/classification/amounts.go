package classification

import (
	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
)

// AmountSet collects the directional flows produced while interpreting a
// single operation, before they are merged into the result under
// construction.
type AmountSet struct {
	Incoming []models.Flow
	Outgoing []models.Flow
}

func NewAmountSet() *AmountSet {
	return &AmountSet{}
}

func (s *AmountSet) AddIncoming(amount decimal.Decimal, tokenId, token, from, to string) {
	s.Incoming = append(s.Incoming, models.Flow{
		Amount:  amount,
		TokenId: tokenId,
		Token:   token,
		From:    from,
		To:      to,
	})
}

func (s *AmountSet) AddOutgoing(amount decimal.Decimal, tokenId, token, from, to string) {
	s.Outgoing = append(s.Outgoing, models.Flow{
		Amount:  amount,
		TokenId: tokenId,
		Token:   token,
		From:    from,
		To:      to,
	})
}

func (s *AmountSet) AddAll(other *AmountSet) {
	s.Incoming = append(s.Incoming, other.Incoming...)
	s.Outgoing = append(s.Outgoing, other.Outgoing...)
}
