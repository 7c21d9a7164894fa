// Package handlers render provides HTTP response utilities.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"racetally/domain/contracts"
	"racetally/domain/ingest"
	"racetally/logging"
)

// ErrorView is the uniform JSON error response body.
type ErrorView struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already written; the failure can only be logged.
		logging.Default().WithComponent("render").Error("Failed to encode response", "error", err)
	}
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorView{Error: message})
}

// StatusFromError maps service errors onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, contracts.ErrJobNotFound),
		errors.Is(err, contracts.ErrEventNotFound),
		errors.Is(err, contracts.ErrAthleteNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrNoScraperAvailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
