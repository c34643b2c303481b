package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/itinerary-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler проверяет подключённые зависимости (redis, postgres)
type HealthHandler struct {
	checks map[string]HealthChecker
	logger *zap.Logger
}

func NewHealthHandler(checks map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{
		Status:       "healthy",
		Dependencies: make(map[string]string, len(names)),
	}

	for _, name := range names {
		if err := h.checks[name].Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "up"
	}

	status := fiber.StatusOK
	if resp.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
