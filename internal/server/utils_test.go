package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rainscope/internal/dataset"
	"rainscope/internal/season"
	"rainscope/internal/timeseries"
)

func TestGetContentType(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"2026/08/23/RainfallReport-120000/index.html", "text/html"},
		{"charts/series.png", "image/png"},
		{"summary.json", "application/json"},
		{"rainfall_daily.csv", "text/csv"},
		{"summary.md", "text/markdown"},
		{"styles.css", "text/css"},
		{"echarts.min.js", "application/javascript"},
		{"notes.txt", "text/plain"},
		{"archive.bin", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := GetContentType(tc.path); got != tc.want {
			t.Errorf("GetContentType(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", fmt.Errorf("june window: %w", timeseries.ErrInvalidRange), http.StatusBadRequest},
		{"invalid query", fmt.Errorf("%w: threshold is negative", season.ErrInvalidQuery), http.StatusBadRequest},
		{"source unavailable", fmt.Errorf("fetch: %w", dataset.ErrUnavailable), http.StatusBadGateway},
		{"missing column", fmt.Errorf("%w: Rainfall_mm", dataset.ErrMissingColumn), http.StatusUnprocessableEntity},
		{"empty series", dataset.ErrEmptySeries, http.StatusUnprocessableEntity},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(tc.err); got != tc.want {
				t.Errorf("statusForError = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, "invalid level")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var body struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != "invalid level" || body.Status != http.StatusBadRequest {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"status": "stored"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "stored" {
		t.Errorf("body = %v", body)
	}
}
