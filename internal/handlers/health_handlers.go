package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Atlys USA Visa API is running", "status": "healthy"})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
		"message":  "All systems operational",
	})
}
