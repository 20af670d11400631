package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// XTZ is the native asset symbol; flows for FA tokens carry the token's
// contract address instead.
const XTZ = "XTZ"

// XTZDecimals is the fixed precision of the native asset (mutez).
const XTZDecimals = 6

// Currencies lists the fiat quote currencies TzKT can attach to an
// operation, in lookup priority order. The quote object keys are the
// lowercase forms.
var Currencies = []string{"Btc", "Eur", "Usd", "Cny", "Jpy", "Krw", "Eth", "Gbp"}

// Account is a named address reference inside an operation.
type Account struct {
	Address string `json:"address"`
	Alias   string `json:"alias,omitempty"`
}

// Parameter is a contract call payload. Value is kept raw because its
// shape depends entirely on the entrypoint and contract.
type Parameter struct {
	Entrypoint string          `json:"entrypoint"`
	Value      json.RawMessage `json:"value"`
}

// DiffContent is the key/value of a single big-map change. Both sides are
// contract specific: keys may be scalars or objects naming an owner,
// values may be balances or token metadata records.
type DiffContent struct {
	Hash  string          `json:"hash,omitempty"`
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Diff is one big-map change recorded for an operation.
type Diff struct {
	BigMap  int64        `json:"bigmap,omitempty"`
	Path    string       `json:"path"`
	Action  string       `json:"action"`
	Content *DiffContent `json:"content"`
}

// Operation is one primitive on-chain action as served by the TzKT
// operations endpoint. Amounts and fees are in mutez.
type Operation struct {
	Type         string                     `json:"type"`
	ID           int64                      `json:"id,omitempty"`
	Hash         string                     `json:"hash"`
	Level        int64                      `json:"level"`
	Timestamp    string                     `json:"timestamp"`
	Sender       *Account                   `json:"sender"`
	Target       *Account                   `json:"target,omitempty"`
	Initiator    *Account                   `json:"initiator,omitempty"`
	NewDelegate  *Account                   `json:"newDelegate,omitempty"`
	Amount       int64                      `json:"amount,omitempty"`
	BakerFee     int64                      `json:"bakerFee,omitempty"`
	StorageFee   int64                      `json:"storageFee,omitempty"`
	HasInternals bool                       `json:"hasInternals,omitempty"`
	Parameter    *Parameter                 `json:"parameter,omitempty"`
	Diffs        []Diff                     `json:"diffs,omitempty"`
	Quote        map[string]decimal.Decimal `json:"quote,omitempty"`
	Status       string                     `json:"status,omitempty"`
}

// OperationGroup is an ordered sequence of operations sharing one
// submission hash.
type OperationGroup []*Operation

// FiatQuote returns the first fiat rate present on the operation's quote,
// probing the supported currencies in priority order.
func (o *Operation) FiatQuote() decimal.Decimal {
	for _, c := range Currencies {
		if v, ok := o.Quote[strings.ToLower(c)]; ok {
			return v
		}
	}
	return decimal.Zero
}

// SenderAddress returns the sender address or "" when absent.
func (o *Operation) SenderAddress() string {
	if o.Sender == nil {
		return ""
	}
	return o.Sender.Address
}

// TargetAddress returns the target address or "" when absent.
func (o *Operation) TargetAddress() string {
	if o.Target == nil {
		return ""
	}
	return o.Target.Address
}

// InitiatorAddress returns the initiator address or "" when absent.
func (o *Operation) InitiatorAddress() string {
	if o.Initiator == nil {
		return ""
	}
	return o.Initiator.Address
}

// Token is the metadata for one FA contract observed in an account's
// transfer history.
type Token struct {
	Address  string `json:"address"`
	Standard string `json:"standard"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// RawString interprets a raw JSON value as a string: quoted strings are
// unquoted, any other scalar is returned verbatim.
func RawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// FlexInt is an integer that TzKT serves either as a JSON number or as a
// quoted string (token metadata decimals, michelson naturals).
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}
