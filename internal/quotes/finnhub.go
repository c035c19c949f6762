package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/trade-journal/internal/models"
)

// Finnhub fetches quotes from the finnhub.io /quote endpoint.
type Finnhub struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

func NewFinnhub(token string, log zerolog.Logger) *Finnhub {
	return &Finnhub{
		baseURL: "https://finnhub.io/api/v1",
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("provider", "finnhub").Logger(),
	}
}

func (f *Finnhub) Name() string { return "finnhub" }

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

func (f *Finnhub) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	reqURL := fmt.Sprintf("%s/quote?symbol=%s&token=%s", f.baseURL, url.QueryEscape(symbol), f.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Finnhub returns an all-zero quote for unknown symbols.
	if parsed.Current == 0 && parsed.PreviousClose == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	q := &models.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(parsed.Current),
		Change:        decimal.NewFromFloat(parsed.Change),
		ChangePct:     decimal.NewFromFloat(parsed.ChangePercent),
		Open:          decimal.NewFromFloat(parsed.Open),
		High:          decimal.NewFromFloat(parsed.High),
		Low:           decimal.NewFromFloat(parsed.Low),
		PreviousClose: decimal.NewFromFloat(parsed.PreviousClose),
		Provider:      f.Name(),
		Available:     true,
		FetchedAt:     time.Now(),
	}

	f.log.Debug().Str("symbol", symbol).Float64("price", parsed.Current).Msg("fetched quote")
	return q, nil
}
