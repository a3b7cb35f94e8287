package handlers

import (
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	source  dataset.Source
	storage storage.Provider
}

func NewHealthHandler(source dataset.Source, storage storage.Provider) *HealthHandler {
	return &HealthHandler{source: source, storage: storage}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "sales-api",
		"dataset": h.source.Name(),
		"storage": h.storage.GetProviderName(),
	})
}
