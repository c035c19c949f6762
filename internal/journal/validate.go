package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/trogers1052/trade-journal/internal/models"
)

// Field length limits
const (
	MaxSymbolLen      = 20
	MaxFocusSymbolLen = 10
	MaxReasonLen      = 200
	MaxRemarksLen     = 500
	MaxNotesLen       = 500
)

// FieldError describes one violated validation rule, tagged with the
// offending field so clients can highlight every problem at once.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors collects every violated rule for a submission. It is
// never fail-fast: all rules are checked and reported in one batch.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ErrOrNil returns the batch as an error, or nil when no rule was violated.
func (v ValidationErrors) ErrOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) add(field, message string, value interface{}) {
	*v = append(*v, FieldError{Field: field, Message: message, Value: value})
}

// NormalizeEntry applies input canonicalization that runs before
// validation: symbol trim/upper-case and the quantity default.
func NormalizeEntry(e *models.Entry) {
	e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
	e.Remarks = strings.TrimSpace(e.Remarks)
	if e.Quantity == 0 {
		e.Quantity = 1
	}
}

// ValidateEntry checks every field-level and cross-field rule for a trade
// entry and returns the full batch of violations.
func ValidateEntry(e *models.Entry) ValidationErrors {
	var errs ValidationErrors
	now := time.Now()

	if e.Symbol == "" {
		errs.add("symbol", "symbol is required", nil)
	} else if len(e.Symbol) > MaxSymbolLen {
		errs.add("symbol", fmt.Sprintf("symbol must be at most %d characters", MaxSymbolLen), e.Symbol)
	}

	if !e.EntryPrice.IsPositive() {
		errs.add("entry_price", "entry price must be greater than zero", e.EntryPrice)
	}
	if !e.CurrentPrice.IsPositive() {
		errs.add("current_price", "current price must be greater than zero", e.CurrentPrice)
	}

	if e.EntryDate.IsZero() {
		errs.add("entry_date", "entry date is required", nil)
	} else if e.EntryDate.After(endOfDay(now)) {
		errs.add("entry_date", "entry date cannot be in the future", e.EntryDate)
	}

	if e.Quantity < 0 {
		errs.add("quantity", "quantity must be a positive integer", e.Quantity)
	}

	switch e.Status {
	case models.StatusOpen:
		// Exit fields supplied on an open entry are ignored, not rejected;
		// ComputeDerived clears them before persistence.
	case models.StatusClosed:
		if e.ExitPrice == nil {
			errs.add("exit_price", "exit price is required for closed entries", nil)
		} else if !e.ExitPrice.IsPositive() {
			errs.add("exit_price", "exit price must be greater than zero", *e.ExitPrice)
		}
		if e.ExitDate == nil {
			errs.add("exit_date", "exit date is required for closed entries", nil)
		} else {
			if !e.EntryDate.IsZero() && e.ExitDate.Before(e.EntryDate) {
				errs.add("exit_date", "exit date cannot be before entry date", *e.ExitDate)
			}
			if e.ExitDate.After(endOfDay(now)) {
				errs.add("exit_date", "exit date cannot be in the future", *e.ExitDate)
			}
		}
	default:
		errs.add("status", "status must be open or closed", e.Status)
	}

	if len(e.Remarks) > MaxRemarksLen {
		errs.add("remarks", fmt.Sprintf("remarks must be at most %d characters", MaxRemarksLen), len(e.Remarks))
	}

	return errs
}

// ValidateEntryUpdate checks the rules that only apply when updating an
// existing entry, on top of ValidateEntry. A closed entry cannot be
// reopened.
func ValidateEntryUpdate(existing, updated *models.Entry) ValidationErrors {
	errs := ValidateEntry(updated)
	if existing.Status == models.StatusClosed && updated.Status == models.StatusOpen {
		errs.add("status", "a closed entry cannot be reopened", updated.Status)
	}
	return errs
}

// NormalizeFocusStock canonicalizes focus-stock input before validation.
func NormalizeFocusStock(f *models.FocusStock) {
	f.Symbol = strings.ToUpper(strings.TrimSpace(f.Symbol))
	f.Reason = strings.TrimSpace(f.Reason)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.DateAdded.IsZero() {
		f.DateAdded = time.Now()
	}
}

// ValidateFocusStock checks every rule for a watchlist item.
func ValidateFocusStock(f *models.FocusStock) ValidationErrors {
	var errs ValidationErrors

	if f.Symbol == "" {
		errs.add("symbol", "symbol is required", nil)
	} else if len(f.Symbol) > MaxFocusSymbolLen {
		errs.add("symbol", fmt.Sprintf("symbol must be at most %d characters", MaxFocusSymbolLen), f.Symbol)
	}

	if !f.TargetPrice.IsPositive() {
		errs.add("target_price", "target price must be greater than zero", f.TargetPrice)
	}
	if !f.CurrentPrice.IsPositive() {
		errs.add("current_price", "current price must be greater than zero", f.CurrentPrice)
	}

	if f.Reason == "" {
		errs.add("reason", "reason is required", nil)
	} else if len(f.Reason) > MaxReasonLen {
		errs.add("reason", fmt.Sprintf("reason must be at most %d characters", MaxReasonLen), len(f.Reason))
	}

	if f.TradeTaken {
		if f.TradeDate == nil {
			errs.add("trade_date", "trade date is required when the trade is taken", nil)
		} else if f.TradeDate.Before(f.DateAdded) {
			errs.add("trade_date", "trade date cannot be before the date the stock was added", *f.TradeDate)
		}
	} else if f.TradeDate != nil {
		errs.add("trade_date", "trade date is only allowed when the trade is taken", *f.TradeDate)
	}

	if len(f.Notes) > MaxNotesLen {
		errs.add("notes", fmt.Sprintf("notes must be at most %d characters", MaxNotesLen), len(f.Notes))
	}

	return errs
}

// endOfDay returns the last instant of t's calendar day in t's location,
// giving date-only client input a full-day tolerance against "now".
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
