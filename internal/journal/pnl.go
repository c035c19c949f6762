package journal

import (
	"github.com/shopspring/decimal"

	"github.com/trogers1052/trade-journal/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeDerived recalculates every derived field on an entry from its
// source fields. It runs once per write, after validation and before
// persistence, and is idempotent: recomputing an already-computed entry
// with unchanged inputs yields identical outputs.
//
// For closed entries the exit price is the P&L basis and is mirrored onto
// current_price for display consistency. For open entries any supplied
// exit fields are cleared. The percentage denominator is always the entry
// price; the validator guarantees it is positive.
func ComputeDerived(e *models.Entry) {
	var basis decimal.Decimal
	if e.IsClosed() {
		basis = *e.ExitPrice
		e.CurrentPrice = basis
	} else {
		basis = e.CurrentPrice
		e.ExitPrice = nil
		e.ExitDate = nil
	}

	diff := basis.Sub(e.EntryPrice)
	e.Pnl = diff.Mul(decimal.NewFromInt(int64(e.Quantity)))
	e.PnlPct = diff.Mul(hundred).Div(e.EntryPrice)

	e.ReportMonth = int(e.EntryDate.Month())
	e.ReportMonthName = e.EntryDate.Month().String()
	e.ReportYear = e.EntryDate.Year()
}

// ComputeFocusDerived recalculates the potential-return fields on a
// watchlist item. Same contract as ComputeDerived: pure, idempotent, run
// once per write.
func ComputeFocusDerived(f *models.FocusStock) {
	f.PotentialReturn = f.TargetPrice.Sub(f.CurrentPrice)
	f.PotentialReturnPct = f.PotentialReturn.Mul(hundred).Div(f.CurrentPrice)
}
