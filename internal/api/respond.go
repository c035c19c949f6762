package api

import (
	"encoding/json"
	"net/http"

	"github.com/trogers1052/trade-journal/internal/journal"
)

// envelope is the uniform JSON response shape for every endpoint
type envelope struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
	Errors  []journal.FieldError `json:"errors,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func respondValidationErrors(w http.ResponseWriter, errs journal.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
