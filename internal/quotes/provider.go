// Package quotes fetches current market data for symbols from external
// providers, with a short-lived cache and per-symbol degradation: a
// provider outage yields an unavailable quote, never a failed request.
package quotes

import (
	"context"

	"github.com/trogers1052/trade-journal/internal/models"
)

// Provider is one upstream market-data service. Implementations bound
// their own request latency; callers never wait on a provider beyond its
// HTTP client timeout.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
}
