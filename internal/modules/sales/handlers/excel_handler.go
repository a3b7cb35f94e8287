package handlers

import (
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/gofiber/fiber/v2"
)

type ExcelHandler struct {
	exportService   *services.ExportService
	forecastService *services.ForecastService
}

func NewExcelHandler(exportService *services.ExportService, forecastService *services.ForecastService) *ExcelHandler {
	return &ExcelHandler{
		exportService:   exportService,
		forecastService: forecastService,
	}
}

// GenerateExcel godoc
// @Summary Export filtered sales data
// @Description Filter the sales dataset and generate the formatted Excel report
// @Tags Excel
// @Accept json
// @Produce json
// @Param filters body models.ExportRequest true "Filter criteria"
// @Success 200 {object} models.ExportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/excel/generate-excel [post]
func (h *ExcelHandler) GenerateExcel(c *fiber.Ctx) error {
	var req models.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	criteria, err := req.Criteria()
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.exportService.Export(c.UserContext(), criteria)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ExportResponse{
		Message: "Excel file generated successfully",
		Path:    result.Path,
		URL:     absoluteURL(c, result.URL),
		Rows:    result.Rows,
	})
}

// Preview godoc
// @Summary Preview an export
// @Description Row count, extremes, totals and band counts of the filtered set, without generating a file
// @Tags Excel
// @Accept json
// @Produce json
// @Param filters body models.ExportRequest true "Filter criteria"
// @Success 200 {object} services.PreviewResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/excel/preview [post]
func (h *ExcelHandler) Preview(c *fiber.Ctx) error {
	var req models.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	criteria, err := req.Criteria()
	if err != nil {
		return badRequest(c, err.Error())
	}

	preview, err := h.exportService.Preview(c.UserContext(), criteria)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

// ExportForecast godoc
// @Summary Export sales forecast
// @Description Fit yearly totals with the chosen trend model and generate the prediction workbook
// @Tags Excel
// @Accept json
// @Produce json
// @Param filters body models.ForecastRequest true "Forecast filters"
// @Success 200 {object} models.ForecastResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/excel/export-page2 [post]
func (h *ExcelHandler) ExportForecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Filters == nil {
		return badRequest(c, "filters is required")
	}

	result, err := h.forecastService.Export(c.UserContext(), req.Criteria())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ForecastResponse{
		Message:  "Excel file generated successfully",
		FilePath: absoluteURL(c, result.URL),
	})
}

// PreviewForecast godoc
// @Summary Preview sales forecast
// @Description Chart-ready history, prediction and trend series without generating a file
// @Tags Excel
// @Accept json
// @Produce json
// @Param filters body models.ForecastRequest true "Forecast filters"
// @Success 200 {object} services.ForecastPreview
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/excel/forecast-preview [post]
func (h *ExcelHandler) PreviewForecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Filters == nil {
		return badRequest(c, "filters is required")
	}

	preview, err := h.forecastService.Preview(c.UserContext(), req.Criteria())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

// GetLegend godoc
// @Summary Report legend
// @Description The format legend written to every report
// @Tags Excel
// @Produce json
// @Success 200 {array} models.LegendEntry
// @Router /api/excel/legend [get]
func (h *ExcelHandler) GetLegend(c *fiber.Ctx) error {
	return c.JSON(export.Legend())
}
