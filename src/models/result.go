package models

import "github.com/shopspring/decimal"

// Flow is a directional asset movement. Token is XTZ or an FA contract
// address; TokenId distinguishes FA2 tokens within a contract. Pseudo
// marks a flow synthesized to represent a state change (a recorded bid)
// rather than an actual transfer.
type Flow struct {
	Amount  decimal.Decimal
	Token   string
	TokenId string
	From    string
	To      string
	Pseudo  bool
}

// Result is the classification of one logical sub-group viewed from one
// address's perspective.
type Result struct {
	Type      TxType
	In        []Flow
	Out       []Flow
	Fees      decimal.Decimal
	Timestamp string
	FiatQuote decimal.Decimal
	Level     int64
	Hash      string
	Address   string
}
