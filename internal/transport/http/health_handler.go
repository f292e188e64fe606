package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports service health and build information.
type HealthHandler struct {
	version   string
	startTime time.Time
	aiEnabled bool
	dbEnabled bool
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, aiEnabled, dbEnabled bool, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		aiEnabled: aiEnabled,
		dbEnabled: dbEnabled,
		logger:    logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HealthCheck)
	return r
}

// HealthStatus is the GET /api/health response body.
type HealthStatus struct {
	Status          string    `json:"status"`
	Version         string    `json:"version"`
	Uptime          string    `json:"uptime"`
	AIEnabled       bool      `json:"ai_enabled"`
	DatabaseEnabled bool      `json:"database_enabled"`
	Timestamp       time.Time `json:"timestamp"`
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthStatus{
		Status:          "healthy",
		Version:         h.version,
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		AIEnabled:       h.aiEnabled,
		DatabaseEnabled: h.dbEnabled,
		Timestamp:       time.Now().UTC(),
	})
}
