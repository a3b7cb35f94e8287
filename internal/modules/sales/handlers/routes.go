package handlers

import "github.com/gofiber/fiber/v2"

// Handlers groups the sales module handlers for route registration
type Handlers struct {
	Health    *HealthHandler
	Excel     *ExcelHandler
	Heatmap   *HeatmapHandler
	ExportLog *ExportLogHandler // nil when no database is configured
}

// RegisterRoutes mounts the sales API on app
func RegisterRoutes(app fiber.Router, h Handlers) {
	// Health check
	app.Get("/health", h.Health.GetHealth)

	api := app.Group("/api")

	// Excel routes
	excel := api.Group("/excel")
	excel.Post("/generate-excel", h.Excel.GenerateExcel)
	excel.Post("/export-page2", h.Excel.ExportForecast)
	excel.Post("/preview", h.Excel.Preview)
	excel.Post("/forecast-preview", h.Excel.PreviewForecast)
	excel.Get("/legend", h.Excel.GetLegend)
	if h.ExportLog != nil {
		excel.Get("/exports", h.ExportLog.ListExports)
	}

	// Sales routes
	api.Post("/sales/heatmap", h.Heatmap.GetHeatmap)
}
