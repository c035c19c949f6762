package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/trogers1052/trade-journal/internal/auth"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, jwt auth.JWT, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(log))

	// Health check stays outside authentication
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(Authenticate(jwt))

	// Stats routes are registered before the {id} routes so mux does not
	// swallow "stats" as an id.
	api.HandleFunc("/entries/stats/monthly", handler.GetMonthlyPerformance).Methods("GET")
	api.HandleFunc("/entries/stats", handler.GetEntryStats).Methods("GET")
	api.HandleFunc("/entries", handler.ListEntries).Methods("GET")
	api.HandleFunc("/entries", handler.CreateEntry).Methods("POST")
	api.HandleFunc("/entries/{id}", handler.GetEntry).Methods("GET")
	api.HandleFunc("/entries/{id}", handler.UpdateEntry).Methods("PUT")
	api.HandleFunc("/entries/{id}", handler.DeleteEntry).Methods("DELETE")

	api.HandleFunc("/focus-stocks/stats", handler.GetFocusStockStats).Methods("GET")
	api.HandleFunc("/focus-stocks", handler.ListFocusStocks).Methods("GET")
	api.HandleFunc("/focus-stocks", handler.CreateFocusStock).Methods("POST")
	api.HandleFunc("/focus-stocks/{id}", handler.GetFocusStock).Methods("GET")
	api.HandleFunc("/focus-stocks/{id}", handler.UpdateFocusStock).Methods("PUT")
	api.HandleFunc("/focus-stocks/{id}", handler.DeleteFocusStock).Methods("DELETE")

	api.HandleFunc("/quotes", handler.GetQuotes).Methods("GET")
	api.HandleFunc("/quotes/{symbol}", handler.GetQuote).Methods("GET")

	return r
}
