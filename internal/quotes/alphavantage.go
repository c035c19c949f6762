package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/trade-journal/internal/models"
)

// AlphaVantage fetches quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

func NewAlphaVantage(apiKey string, log zerolog.Logger) *AlphaVantage {
	return &AlphaVantage{
		baseURL: "https://www.alphavantage.co/query",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("provider", "alphavantage").Logger(),
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload; every value is a
// string on the wire.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	reqURL := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	gq := parsed.GlobalQuote
	if gq.Symbol == "" || gq.Price == "" {
		// Alpha Vantage reports unknown symbols and rate limits as an
		// empty Global Quote with HTTP 200.
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	price, err := decimal.NewFromString(gq.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", gq.Price, err)
	}

	q := &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Open:          parseDecimal(gq.Open),
		High:          parseDecimal(gq.High),
		Low:           parseDecimal(gq.Low),
		PreviousClose: parseDecimal(gq.PreviousClose),
		Change:        parseDecimal(gq.Change),
		ChangePct:     parseDecimal(strings.TrimSuffix(gq.ChangePercent, "%")),
		Provider:      a.Name(),
		Available:     true,
		FetchedAt:     time.Now(),
	}

	a.log.Debug().Str("symbol", symbol).Str("price", price.String()).Msg("fetched quote")
	return q, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
