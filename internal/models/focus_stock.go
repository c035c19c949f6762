package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FocusStock represents a watchlist item being tracked for a possible
// trade. PotentialReturn and PotentialReturnPct are derived on every save.
type FocusStock struct {
	ID                 int             `json:"id"`
	OwnerID            string          `json:"owner_id"`
	Symbol             string          `json:"symbol"`
	TargetPrice        decimal.Decimal `json:"target_price"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	Reason             string          `json:"reason"`
	DateAdded          time.Time       `json:"date_added"`
	TradeTaken         bool            `json:"trade_taken"`
	TradeDate          *time.Time      `json:"trade_date,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	PotentialReturn    decimal.Decimal `json:"potential_return"`
	PotentialReturnPct decimal.Decimal `json:"potential_return_pct"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
