package handler

import (
	"context"
	"net/http"
	"time"
)

// DatabasePinger defines the interface for checking database connectivity
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db DatabasePinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db DatabasePinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Uptime string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// GetHealth handles GET /health
// Basic health check - returns 200 OK if service is running
func GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(startTime).String(),
		Checks: map[string]string{},
	})
}

// GetHealthDetailed handles GET /health/detailed
// Detailed health check - includes database connectivity
func (h *HealthHandler) GetHealthDetailed(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	respondJSON(w, code, HealthResponse{
		Status: status,
		Uptime: time.Since(startTime).String(),
		Checks: checks,
	})
}
