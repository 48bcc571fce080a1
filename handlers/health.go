package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushub/campus-api/database"
	"github.com/campushub/campus-api/utils/response"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	store *database.GORMStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *database.GORMStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /ping
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database is unreachable")
	}

	return response.Success(c, fiber.Map{
		"status": "ok",
	})
}
