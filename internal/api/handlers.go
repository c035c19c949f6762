package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/trogers1052/trade-journal/internal/auth"
	"github.com/trogers1052/trade-journal/internal/database"
	"github.com/trogers1052/trade-journal/internal/journal"
	"github.com/trogers1052/trade-journal/internal/kafka"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/quotes"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db       *database.DB
	quotes   *quotes.Client
	producer *kafka.Producer
	log      zerolog.Logger
}

// NewHandler creates a new Handler. producer may be nil when event
// publishing is disabled.
func NewHandler(db *database.DB, quoteClient *quotes.Client, producer *kafka.Producer, log zerolog.Logger) *Handler {
	return &Handler{
		db:       db,
		quotes:   quoteClient,
		producer: producer,
		log:      log.With().Str("component", "api").Logger(),
	}
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return "", false
	}
	return ownerID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// CreateEntry handles POST /entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var entry models.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry.ID = 0
	entry.IsTeamTrade = false
	if entry.Status == "" {
		entry.Status = models.StatusOpen
	}

	journal.NormalizeEntry(&entry)
	if errs := journal.ValidateEntry(&entry); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.db.CreateEntry(ownerID, &entry); err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create entry")
		respondError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishEntryCreated(r.Context(), &entry); err != nil {
			h.log.Warn().Err(err).Int("entry_id", entry.ID).Msg("failed to publish entry created event")
		}
	}

	respondData(w, http.StatusCreated, &entry)
}

// ListEntries handles GET /entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	filter := database.EntryFilter{
		Status: r.URL.Query().Get("status"),
		Symbol: r.URL.Query().Get("symbol"),
		Year:   queryInt(r, "year"),
		Month:  queryInt(r, "month"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	entries, err := h.db.ListEntries(ownerID, filter)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list entries")
		respondError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}
	if entries == nil {
		entries = []*models.Entry{}
	}

	respondData(w, http.StatusOK, entries)
}

// GetEntry handles GET /entries/{id}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.db.GetEntryByID(ownerID, id)
	if err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		h.log.Error().Err(err).Int("entry_id", id).Msg("failed to get entry")
		respondError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}

	respondData(w, http.StatusOK, entry)
}

// UpdateEntry handles PUT /entries/{id}
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.db.GetEntryByID(ownerID, id)
	if err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		h.log.Error().Err(err).Int("entry_id", id).Msg("failed to load entry for update")
		respondError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}

	var updated models.Entry
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated.ID = existing.ID
	updated.OwnerID = existing.OwnerID
	updated.IsTeamTrade = existing.IsTeamTrade
	updated.CreatedAt = existing.CreatedAt
	if updated.Status == "" {
		updated.Status = existing.Status
	}

	journal.NormalizeEntry(&updated)
	if errs := journal.ValidateEntryUpdate(existing, &updated); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.db.UpdateEntry(ownerID, &updated); err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		h.log.Error().Err(err).Int("entry_id", id).Msg("failed to update entry")
		respondError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	if h.producer != nil && !existing.IsClosed() && updated.IsClosed() {
		if err := h.producer.PublishEntryClosed(r.Context(), &updated); err != nil {
			h.log.Warn().Err(err).Int("entry_id", updated.ID).Msg("failed to publish entry closed event")
		}
	}

	respondData(w, http.StatusOK, &updated)
}

// DeleteEntry handles DELETE /entries/{id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteEntry(ownerID, id); err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		h.log.Error().Err(err).Int("entry_id", id).Msg("failed to delete entry")
		respondError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishEntryDeleted(r.Context(), ownerID, id); err != nil {
			h.log.Warn().Err(err).Int("entry_id", id).Msg("failed to publish entry deleted event")
		}
	}

	respondMessage(w, http.StatusOK, "entry deleted")
}

// GetEntryStats handles GET /entries/stats
func (h *Handler) GetEntryStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	stats, err := h.db.GetEntryStats(ownerID)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to get entry stats")
		respondError(w, http.StatusInternalServerError, "failed to load statistics")
		return
	}

	respondData(w, http.StatusOK, stats)
}

// GetMonthlyPerformance handles GET /entries/stats/monthly
func (h *Handler) GetMonthlyPerformance(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	year := queryInt(r, "year")
	if year == 0 {
		year = time.Now().Year()
	}

	months, err := h.db.GetMonthlyPerformance(ownerID, year)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Int("year", year).Msg("failed to get monthly performance")
		respondError(w, http.StatusInternalServerError, "failed to load statistics")
		return
	}
	if months == nil {
		months = []*database.MonthlyPerformance{}
	}

	respondData(w, http.StatusOK, months)
}

// CreateFocusStock handles POST /focus-stocks
func (h *Handler) CreateFocusStock(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var stock models.FocusStock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stock.ID = 0

	journal.NormalizeFocusStock(&stock)
	if errs := journal.ValidateFocusStock(&stock); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.db.CreateFocusStock(ownerID, &stock); err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create focus stock")
		respondError(w, http.StatusInternalServerError, "failed to save focus stock")
		return
	}

	respondData(w, http.StatusCreated, &stock)
}

// ListFocusStocks handles GET /focus-stocks
func (h *Handler) ListFocusStocks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	stocks, err := h.db.ListFocusStocks(ownerID)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list focus stocks")
		respondError(w, http.StatusInternalServerError, "failed to load focus stocks")
		return
	}
	if stocks == nil {
		stocks = []*models.FocusStock{}
	}

	respondData(w, http.StatusOK, stocks)
}

// GetFocusStock handles GET /focus-stocks/{id}
func (h *Handler) GetFocusStock(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stock, err := h.db.GetFocusStockByID(ownerID, id)
	if err != nil {
		if errors.Is(err, database.ErrFocusStockNotFound) {
			respondError(w, http.StatusNotFound, "focus stock not found")
			return
		}
		h.log.Error().Err(err).Int("focus_stock_id", id).Msg("failed to get focus stock")
		respondError(w, http.StatusInternalServerError, "failed to load focus stock")
		return
	}

	respondData(w, http.StatusOK, stock)
}

// UpdateFocusStock handles PUT /focus-stocks/{id}
func (h *Handler) UpdateFocusStock(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.db.GetFocusStockByID(ownerID, id)
	if err != nil {
		if errors.Is(err, database.ErrFocusStockNotFound) {
			respondError(w, http.StatusNotFound, "focus stock not found")
			return
		}
		h.log.Error().Err(err).Int("focus_stock_id", id).Msg("failed to load focus stock for update")
		respondError(w, http.StatusInternalServerError, "failed to load focus stock")
		return
	}

	var updated models.FocusStock
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.DateAdded.IsZero() {
		updated.DateAdded = existing.DateAdded
	}

	journal.NormalizeFocusStock(&updated)
	if errs := journal.ValidateFocusStock(&updated); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.db.UpdateFocusStock(ownerID, &updated); err != nil {
		if errors.Is(err, database.ErrFocusStockNotFound) {
			respondError(w, http.StatusNotFound, "focus stock not found")
			return
		}
		h.log.Error().Err(err).Int("focus_stock_id", id).Msg("failed to update focus stock")
		respondError(w, http.StatusInternalServerError, "failed to save focus stock")
		return
	}

	respondData(w, http.StatusOK, &updated)
}

// DeleteFocusStock handles DELETE /focus-stocks/{id}
func (h *Handler) DeleteFocusStock(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteFocusStock(ownerID, id); err != nil {
		if errors.Is(err, database.ErrFocusStockNotFound) {
			respondError(w, http.StatusNotFound, "focus stock not found")
			return
		}
		h.log.Error().Err(err).Int("focus_stock_id", id).Msg("failed to delete focus stock")
		respondError(w, http.StatusInternalServerError, "failed to delete focus stock")
		return
	}

	respondMessage(w, http.StatusOK, "focus stock deleted")
}

// GetFocusStockStats handles GET /focus-stocks/stats
func (h *Handler) GetFocusStockStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	stats, err := h.db.GetFocusStockStats(ownerID)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to get focus stock stats")
		respondError(w, http.StatusInternalServerError, "failed to load statistics")
		return
	}

	respondData(w, http.StatusOK, stats)
}

// GetQuote handles GET /quotes/{symbol}. Provider failures come back as
// an unavailable quote with HTTP 200, never as a failed request.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	respondData(w, http.StatusOK, h.quotes.GetQuote(r.Context(), symbol))
}

// GetQuotes handles GET /quotes?symbols=A,B,C
func (h *Handler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	respondData(w, http.StatusOK, h.quotes.GetQuotes(r.Context(), symbols))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
