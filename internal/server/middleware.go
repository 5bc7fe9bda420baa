package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rainscope/internal/logger"
	"rainscope/internal/observability"
)

// statusRecorder captures the response status code for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request IDs, request logging, and the HTTP
// metrics. An incoming X-Request-ID header is kept so callers can correlate
// their retries; otherwise a fresh UUID is assigned.
func Instrument(next http.Handler, metrics *observability.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(started)

		if metrics != nil {
			route := routeLabel(r.URL.Path)
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}

		logger.Info("Request handled", map[string]interface{}{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     recorder.status,
			"duration":   elapsed.String(),
		})
	})
}

// routeLabel collapses request paths into a fixed set of route names so the
// metric labels stay bounded
func routeLabel(path string) string {
	switch path {
	case "/", "/health", "/metrics", "/snapshot", "/reports", "/export/csv",
		"/api/series", "/api/summary", "/api/withdrawal", "/api/climatology",
		"/charts/series.png", "/charts/climatology.png", "/charts/anomaly.png",
		"/static/styles.css":
		return path
	}
	if strings.HasPrefix(path, "/files/") {
		return "/files/"
	}
	return "other"
}
