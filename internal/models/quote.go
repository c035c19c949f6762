package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents current market data for a symbol. Available is false
// when every provider failed for the symbol; callers render a placeholder
// instead of failing the request.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePct     decimal.Decimal `json:"change_pct"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	Provider      string          `json:"provider,omitempty"`
	Available     bool            `json:"available"`
	FetchedAt     time.Time       `json:"fetched_at"`
}
