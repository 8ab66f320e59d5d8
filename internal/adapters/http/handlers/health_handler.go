package handlers

import (
	"context"
	"time"

	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *repositories.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{store: store, cfg: cfg}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "🚀 Debo Loans API v1.0 is running",
		"data": fiber.Map{
			"mode": h.cfg.AppMode,
			"docs": "/swagger/index.html",
		},
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbStatus := "healthy"
	status := fiber.StatusOK
	envelope := "success"
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
		envelope = "error"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  envelope,
		"message": "health check",
		"data": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}
