package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/trade-journal/internal/auth"
	"github.com/trogers1052/trade-journal/internal/cache"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/quotes"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	return &models.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(150.25),
		Provider:  s.name,
		Available: true,
		FetchedAt: time.Now(),
	}, nil
}

func testJWT() auth.JWT {
	return auth.JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
}

// newTestRouter wires handlers with a stub quote provider. Database and
// producer stay nil; tests here only exercise paths that never reach them.
func newTestRouter() *mux.Router {
	log := zerolog.Nop()
	quoteClient := quotes.NewClient(&stubProvider{name: "stub"}, nil, cache.NewMemoryStore(), time.Minute, log)
	handler := NewHandler(nil, quoteClient, nil, log)
	return SetupRoutes(handler, testJWT(), log)
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := testJWT().Sign(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, router *mux.Router, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
}

func TestAuthentication(t *testing.T) {
	router := newTestRouter()

	t.Run("rejects missing bearer token", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/api/v1/quotes/AAPL", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "missing bearer token", body["message"])
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/api/v1/quotes/AAPL", "Bearer not-a-token", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid token", body["message"])
	})

	t.Run("rejects token signed with wrong secret", func(t *testing.T) {
		other := auth.JWT{Secret: []byte("other-secret"), TokenTTL: time.Hour}
		token, err := other.Sign("user-a")
		require.NoError(t, err)

		rec := doRequest(t, router, "GET", "/api/v1/quotes/AAPL", "Bearer "+token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts valid token", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/api/v1/quotes/AAPL", bearerFor(t, "user-a"), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health check needs no token", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter()

	t.Run("generates request id", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/health", "", "")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoes provided request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestGetQuoteEndpoint(t *testing.T) {
	router := newTestRouter()
	token := bearerFor(t, "user-a")

	rec := doRequest(t, router, "GET", "/api/v1/quotes/AAPL", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Equal(t, true, data["available"])
	assert.Equal(t, "stub", data["provider"])
}

func TestGetQuotesEndpoint(t *testing.T) {
	router := newTestRouter()
	token := bearerFor(t, "user-a")

	t.Run("requires symbols parameter", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/api/v1/quotes", token, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "symbols is required", body["message"])
	})

	t.Run("returns one quote per symbol", func(t *testing.T) {
		rec := doRequest(t, router, "GET", "/api/v1/quotes?symbols=AAPL,%20msft%20,", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		data := body["data"].([]interface{})
		assert.Len(t, data, 2)
	})
}

func TestCreateEntryValidation(t *testing.T) {
	router := newTestRouter()
	token := bearerFor(t, "user-a")

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := doRequest(t, router, "POST", "/api/v1/entries", token, "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid request body", body["message"])
	})

	t.Run("reports all field errors in one response", func(t *testing.T) {
		payload := `{"symbol": "", "entry_price": "-5", "entry_date": "2024-01-15T00:00:00Z", "current_price": "0"}`
		rec := doRequest(t, router, "POST", "/api/v1/entries", token, payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "validation failed", body["message"])

		errs := body["errors"].([]interface{})
		fields := make(map[string]bool)
		for _, e := range errs {
			fields[e.(map[string]interface{})["field"].(string)] = true
		}
		assert.True(t, fields["symbol"])
		assert.True(t, fields["entry_price"])
		assert.True(t, fields["current_price"])
	})
}

func TestCreateFocusStockValidation(t *testing.T) {
	router := newTestRouter()
	token := bearerFor(t, "user-a")

	payload := `{"symbol": "WAYTOOLONGSYMBOL", "target_price": "0", "current_price": "100", "reason": ""}`
	rec := doRequest(t, router, "POST", "/api/v1/focus-stocks", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "validation failed", body["message"])

	errs := body["errors"].([]interface{})
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, fields["symbol"])
	assert.True(t, fields["target_price"])
	assert.True(t, fields["reason"])
}

func TestPathIDValidation(t *testing.T) {
	router := newTestRouter()
	token := bearerFor(t, "user-a")

	for _, path := range []string{"/api/v1/entries/abc", "/api/v1/entries/-1", "/api/v1/focus-stocks/abc"} {
		rec := doRequest(t, router, "GET", path, token, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s should be rejected", path)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid id", body["message"])
	}
}
