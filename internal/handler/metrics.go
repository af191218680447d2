package handler

import (
	"net/http"
)

// MetricsHandler exposes the metrics endpoint.
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler creates a new MetricsHandler.
// A nil exporter means metrics are disabled.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "Metrics are disabled",
		})
		return
	}
	h.exporter.ServeHTTP(w, r)
}
