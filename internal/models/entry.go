package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Entry represents one journal entry: a trade that is either still open
// or closed with realized exit data. Pnl, PnlPct and the report bucket
// fields are derived on every save and never accepted from clients.
type Entry struct {
	ID              int              `json:"id"`
	OwnerID         string           `json:"owner_id"`
	Symbol          string           `json:"symbol"`
	EntryPrice      decimal.Decimal  `json:"entry_price"`
	EntryDate       time.Time        `json:"entry_date"`
	CurrentPrice    decimal.Decimal  `json:"current_price"`
	Quantity        int              `json:"quantity"`
	Status          string           `json:"status"`
	ExitPrice       *decimal.Decimal `json:"exit_price,omitempty"`
	ExitDate        *time.Time       `json:"exit_date,omitempty"`
	Pnl             decimal.Decimal  `json:"pnl"`
	PnlPct          decimal.Decimal  `json:"pnl_pct"`
	ReportMonth     int              `json:"report_month"`
	ReportMonthName string           `json:"report_month_name"`
	ReportYear      int              `json:"report_year"`
	Remarks         string           `json:"remarks,omitempty"`
	IsTeamTrade     bool             `json:"is_team_trade"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsClosed reports whether the entry has been closed out.
func (e *Entry) IsClosed() bool {
	return e.Status == StatusClosed
}

// EntryEvent represents a Kafka event for entry lifecycle changes
type EntryEvent struct {
	EventType string    `json:"event_type"`
	OwnerID   string    `json:"owner_id"`
	Entry     *Entry    `json:"entry,omitempty"`
	EntryID   int       `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}
