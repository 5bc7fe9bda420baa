package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rainscope/internal/dataset"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

// GetContentType returns the appropriate content type for a file based on its extension
func GetContentType(filePath string) string {
	if strings.HasSuffix(filePath, ".html") {
		return "text/html"
	} else if strings.HasSuffix(filePath, ".png") {
		return "image/png"
	} else if strings.HasSuffix(filePath, ".json") {
		return "application/json"
	} else if strings.HasSuffix(filePath, ".csv") {
		return "text/csv"
	} else if strings.HasSuffix(filePath, ".txt") {
		return "text/plain"
	} else if strings.HasSuffix(filePath, ".md") {
		return "text/markdown"
	} else if strings.HasSuffix(filePath, ".css") {
		return "text/css"
	} else if strings.HasSuffix(filePath, ".js") {
		return "application/javascript"
	}
	return "application/octet-stream"
}

// writeJSON encodes a payload as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

// statusForError maps service errors onto HTTP status codes. Anything the
// caller could fix is a 400, a broken source is a 502, a source that loads
// but cannot serve as a rainfall dataset is a 422.
func statusForError(err error) int {
	switch {
	case errors.Is(err, timeseries.ErrInvalidRange), errors.Is(err, season.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, dataset.ErrEmptySeries):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
