package models

import "github.com/shopspring/decimal"

// DataSource tags disposal records with the tool that produced them.
const DataSource = "tezgains"

// DisposalRecord is one matched disposal for the gains report. TaxLotID
// stays empty: tax-software CSV importers use the blank column to
// auto-detect short vs long term holdings.
type DisposalRecord struct {
	TaxLotID     string
	AssetName    string
	Amount       decimal.Decimal
	DateAcquired string
	DateDisposed string
	Proceeds     decimal.Decimal
	CostBasis    decimal.Decimal
	Gains        decimal.Decimal
	HoldingDays  int
	DataSource   string
	OriginalType TxType
}

// DisposalHeaders is the column order of the gains report CSV.
var DisposalHeaders = []string{
	"Tax lot ID",
	"Asset Name",
	"Amount",
	"Date Acquired",
	"Date of Disposition",
	"Proceeds",
	"Cost Basis",
	"Gains (Losses)",
	"Holding Period (Days)",
	"Data Source",
	"Type",
}

// IncomeEntry is one line of the income summary: the configured
// currency's fiat total, or a per-asset amount total.
type IncomeEntry struct {
	Asset  string
	Income decimal.Decimal
}
