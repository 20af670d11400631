package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RowHeaders is the column order of the flat row interchange format.
var RowHeaders = []string{
	"timestamp",
	"type",
	"fiat",
	"in_amt",
	"in_token",
	"in_token_id",
	"in_token_from",
	"out_amt",
	"out_token",
	"out_token_id",
	"out_token_to",
	"fees",
	"account",
	"level",
	"op",
}

// Row is the flattened tabular form of a Result: one row per aligned
// in/out flow pair. The in/out legs are considered present when their
// token field is non-empty. Level is kept as a string because exchange
// rows have none.
type Row struct {
	Timestamp   string
	Type        TxType
	Fiat        decimal.Decimal
	InAmt       decimal.Decimal
	InToken     string
	InTokenId   string
	InTokenFrom string
	OutAmt      decimal.Decimal
	OutToken    string
	OutTokenId  string
	OutTokenTo  string
	Fees        decimal.Decimal
	Account     string
	Level       string
	Op          string
}

// HasIn reports whether the row carries an incoming leg.
func (r *Row) HasIn() bool { return r.InToken != "" }

// HasOut reports whether the row carries an outgoing leg.
func (r *Row) HasOut() bool { return r.OutToken != "" }

// LevelValue parses the block height; ok is false for height-less rows.
func (r *Row) LevelValue() (int64, bool) {
	if r.Level == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(r.Level, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ClearInOut zeroes both legs, leaving timestamp, fees and linkage
// fields in place.
func (r *Row) ClearInOut() {
	r.InAmt = decimal.Decimal{}
	r.InToken = ""
	r.InTokenId = ""
	r.InTokenFrom = ""
	r.OutAmt = decimal.Decimal{}
	r.OutToken = ""
	r.OutTokenId = ""
	r.OutTokenTo = ""
}

// CopyOutFrom copies the outgoing leg of src onto r, overriding the
// amount when outAmt is non-nil. Used by the collator to move a payment
// from one row to another.
func (r *Row) CopyOutFrom(src *Row, outAmt *decimal.Decimal) {
	if outAmt != nil {
		r.OutAmt = *outAmt
	} else {
		r.OutAmt = src.OutAmt
	}
	r.OutToken = src.OutToken
	r.OutTokenId = src.OutTokenId
	r.OutTokenTo = src.OutTokenTo
}
