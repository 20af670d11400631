// Package gains matches disposals against prior acquisitions in
// per-asset lot ledgers and produces the capital gains report.
package gains

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// Policy selects the lot consumption order.
type Policy string

const (
	// FIFO consumes oldest lots first.
	FIFO Policy = "FIFO"
	// HIFO consumes highest-cost-basis lots first.
	HIFO Policy = "HIFO"
)

// ErrLedgerUnderflow reports a disposal from an empty ledger: either the
// input data is incomplete or a row was misclassified. Never clamped.
var ErrLedgerUnderflow = errors.New("disposal exceeds held amount")

// lot is one acquisition: amount held, per-unit fiat cost and the
// resulting basis.
type lot struct {
	amount decimal.Decimal
	fiat   decimal.Decimal
	basis  decimal.Decimal
	date   string
}

// ledger is the lot queue for one asset within one reporting year.
type ledger struct {
	policy   Policy
	asset    string
	year     int
	amounts  []lot
	disposed []models.DisposalRecord
}

// add pushes an acquisition lot. Under HIFO the queue is re-sorted by
// descending basis after every insertion, so the front is always the
// next lot to consume.
func (l *ledger) add(amount, fiat decimal.Decimal, date string) {
	if l == nil {
		return
	}
	l.amounts = append(l.amounts, lot{
		amount: amount,
		fiat:   fiat,
		basis:  amount.Mul(fiat),
		date:   date,
	})
	if l.policy == HIFO {
		sort.SliceStable(l.amounts, func(i, j int) bool {
			return l.amounts[i].basis.GreaterThan(l.amounts[j].basis)
		})
	}
}

// remove consumes lots from the front of the queue until the disposed
// amount is satisfied, splitting the last lot when needed. A disposal
// record is emitted per consumed lot, but only when calculateGains is
// set and the disposal date falls inside the reporting year; the lots
// are consumed either way so later years start from a correct queue.
func (l *ledger) remove(amount, fiat decimal.Decimal, date string, rowType models.TxType, calculateGains bool) error {
	if amount.Sign() <= 0 {
		return nil
	}
	if l == nil {
		return nil
	}

	remaining := amount
	for remaining.Sign() > 0 {
		if len(l.amounts) == 0 {
			return fmt.Errorf("%w: asset %s, disposing %s on %s", ErrLedgerUnderflow, l.asset, amount, date)
		}
		top := l.amounts[0]
		l.amounts = l.amounts[1:]

		var subamount decimal.Decimal
		if remaining.GreaterThanOrEqual(top.amount) {
			subamount = top.amount
		} else {
			subamount = remaining
			top.amount = top.amount.Sub(subamount)
			l.amounts = append([]lot{top}, l.amounts...)
		}

		if calculateGains && utils.IsTimestampInYear(date, l.year) {
			proceeds := subamount.Mul(fiat)
			basis := subamount.Mul(top.fiat)
			l.disposed = append(l.disposed, models.DisposalRecord{
				TaxLotID:     "",
				AssetName:    l.asset,
				Amount:       subamount,
				DateAcquired: utils.ParseTimestamp(top.date).Format(utils.DateOnlyFormat),
				DateDisposed: utils.ParseTimestamp(date).Format(utils.DateOnlyFormat),
				Proceeds:     proceeds,
				CostBasis:    basis,
				Gains:        proceeds.Sub(basis),
				HoldingDays:  utils.DaysBetween(top.date, date),
				DataSource:   models.DataSource,
				OriginalType: rowType,
			})
		}

		remaining = remaining.Sub(subamount)
	}
	return nil
}
