package quotes

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/trogers1052/trade-journal/internal/cache"
	"github.com/trogers1052/trade-journal/internal/models"
)

// DefaultCacheTTL bounds how stale a served quote can be.
const DefaultCacheTTL = time.Minute

// exchangeSuffixes maps known regionally-listed tickers to the exchange
// suffix the providers expect. This is a symbol-specific table, not a
// general rule: most symbols pass through unchanged.
var exchangeSuffixes = map[string]string{
	"RELIANCE":   ".NS",
	"TCS":        ".NS",
	"INFY":       ".NS",
	"HDFCBANK":   ".NS",
	"ICICIBANK":  ".NS",
	"SBIN":       ".NS",
	"TATAMOTORS": ".NS",
	"VOD":        ".L",
	"BARC":       ".L",
	"SHEL":       ".L",
}

// NormalizeSymbol upper-cases a ticker and applies the exchange suffix
// for known regional listings. Symbols that already carry a suffix are
// left alone.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(s, ".") {
		return s
	}
	if suffix, ok := exchangeSuffixes[s]; ok {
		return s + suffix
	}
	return s
}

// Client serves quotes from a cache backed by a primary provider with a
// fallback. Provider failures degrade to an unavailable quote so the
// enclosing request can still succeed.
type Client struct {
	primary   Provider
	secondary Provider
	store     cache.Store
	ttl       time.Duration
	log       zerolog.Logger
}

// NewClient creates a quote client. secondary may be nil when only one
// provider is configured.
func NewClient(primary, secondary Provider, store cache.Store, ttl time.Duration, log zerolog.Logger) *Client {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		primary:   primary,
		secondary: secondary,
		store:     store,
		ttl:       ttl,
		log:       log.With().Str("component", "quotes").Logger(),
	}
}

// GetQuote returns the current quote for a symbol. The result is always
// non-nil: when every provider fails the quote comes back with
// Available=false and the caller renders a placeholder.
func (c *Client) GetQuote(ctx context.Context, symbol string) *models.Quote {
	normalized := NormalizeSymbol(symbol)
	cacheKey := "quote:" + normalized

	if data, found, err := c.store.Get(ctx, cacheKey); err == nil && found {
		var q models.Quote
		if err := json.Unmarshal(data, &q); err == nil {
			return &q
		}
	}

	q := c.fetch(ctx, normalized)
	if q.Available {
		if data, err := json.Marshal(q); err == nil {
			if err := c.store.Set(ctx, cacheKey, data, c.ttl); err != nil {
				c.log.Warn().Err(err).Str("symbol", normalized).Msg("failed to cache quote")
			}
		}
	}
	return q
}

// GetQuotes fetches a batch of quotes, applying the per-symbol fallback
// independently: one symbol's provider failure never fails the batch.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) []*models.Quote {
	results := make([]*models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		results = append(results, c.GetQuote(ctx, symbol))
	}
	return results
}

func (c *Client) fetch(ctx context.Context, symbol string) *models.Quote {
	q, err := c.primary.Quote(ctx, symbol)
	if err == nil {
		return q
	}
	c.log.Warn().Err(err).Str("symbol", symbol).Str("provider", c.primary.Name()).Msg("primary provider failed")

	if c.secondary != nil {
		q, err = c.secondary.Quote(ctx, symbol)
		if err == nil {
			return q
		}
		c.log.Warn().Err(err).Str("symbol", symbol).Str("provider", c.secondary.Name()).Msg("fallback provider failed")
	}

	return &models.Quote{
		Symbol:    symbol,
		Available: false,
		FetchedAt: time.Now(),
	}
}
