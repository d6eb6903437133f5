package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sensor-analytics/internal/transport"
	"sensor-analytics/pkg/logging"
)

// StatsProvider exposes a snapshot of the dataset server's exchange
// counters.
type StatsProvider interface {
	Stats() transport.Stats
}

// OpsHandler serves the operational HTTP endpoints of the dataset
// server: health, exchange stats and prometheus metrics.
type OpsHandler struct {
	stats  StatsProvider
	logger *logging.StructuredLogger
}

// NewOpsHandler creates a new operational handler
func NewOpsHandler(stats StatsProvider, logger *logging.StructuredLogger) *OpsHandler {
	return &OpsHandler{
		stats:  stats,
		logger: logger,
	}
}

// HealthCheck handles GET /health
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(r.Context(), "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// GetStats handles GET /stats
func (h *OpsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.stats.Stats(), http.StatusOK)
}

func (h *OpsHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// RegisterRoutes registers all operational routes
func (h *OpsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/stats", h.GetStats).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
}
