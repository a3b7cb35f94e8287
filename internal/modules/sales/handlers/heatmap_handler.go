package handlers

import (
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/gofiber/fiber/v2"
)

type HeatmapHandler struct {
	heatmapService *services.HeatmapService
}

func NewHeatmapHandler(heatmapService *services.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{heatmapService: heatmapService}
}

// GetHeatmap godoc
// @Summary Sales per region
// @Description Sales amount per product subtype for every region, with pie chart data
// @Tags Sales
// @Accept json
// @Produce json
// @Param filters body models.ExportRequest false "Filter criteria"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/sales/heatmap [post]
func (h *HeatmapHandler) GetHeatmap(c *fiber.Ctx) error {
	var req models.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	criteria, err := req.Criteria()
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.heatmapService.Build(c.UserContext(), criteria)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Heatmap data generated successfully",
		"data":    result.Data,
		"charts":  result.Charts,
	})
}
