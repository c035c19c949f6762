package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TeamTradeEvent is the Kafka message shape published by collaborative
// trading rooms when a member shares a trade with the group.
type TeamTradeEvent struct {
	EventType string            `json:"event_type"`
	EventID   string            `json:"event_id"`
	Source    string            `json:"source"`
	Data      TeamTradeEventData `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
}

// TeamTradeEventData carries the trade fields as strings, the way the
// upstream rooms serialize them.
type TeamTradeEventData struct {
	OwnerID      string  `json:"owner_id"`
	Symbol       string  `json:"symbol"`
	EntryPrice   string  `json:"entry_price"`
	CurrentPrice string  `json:"current_price"`
	Quantity     string  `json:"quantity"`
	EntryDate    *string `json:"entry_date,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
}

// TeamTrade is the raw audit record of an ingested team-trade event,
// kept for dedupe and troubleshooting independently of the Entry it
// produced.
type TeamTrade struct {
	ID           int             `json:"id"`
	EventID      string          `json:"event_id"`
	Source       string          `json:"source"`
	OwnerID      string          `json:"owner_id"`
	Symbol       string          `json:"symbol"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Quantity     int             `json:"quantity"`
	EntryDate    time.Time       `json:"entry_date"`
	EntryID      *int            `json:"entry_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
