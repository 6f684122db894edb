package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"minnal/services/catalog"
	"minnal/services/history"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/services/streams"
)

// writeJSON writes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] encode response failed: %v", err)
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeJSONError(w, err.Error(), statusFor(err))
}

// statusFor maps service errors onto HTTP statuses. Input errors are checked
// first because an invalid id also counts as a resolution failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidID),
		errors.Is(err, streams.ErrEpisodeRequired),
		errors.Is(err, history.ErrUserIDRequired),
		errors.Is(err, history.ErrItemIDRequired),
		errors.Is(err, history.ErrInvalidItemType),
		errors.Is(err, history.ErrEpisodeRequired),
		errors.Is(err, history.ErrInvalidDuration),
		errors.Is(err, history.ErrInvalidPosition),
		errors.Is(err, history.ErrInvalidQuality):
		return http.StatusBadRequest
	case errors.Is(err, metadata.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, identity.ErrResolution),
		errors.Is(err, metadata.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownCatalog):
		return http.StatusNotFound
	case errors.Is(err, metadata.ErrUnavailable),
		errors.Is(err, metadata.ErrMalformed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
