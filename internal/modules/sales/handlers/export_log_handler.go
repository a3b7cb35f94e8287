package handlers

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/gofiber/fiber/v2"
)

// ExportLister reads the export log
type ExportLister interface {
	List(ctx context.Context, filter audit.ExportFilter) ([]audit.ExportLog, error)
}

type ExportLogHandler struct {
	lister ExportLister
}

func NewExportLogHandler(lister ExportLister) *ExportLogHandler {
	return &ExportLogHandler{lister: lister}
}

// ListExports godoc
// @Summary List recent exports
// @Description Export log entries, newest first. Only available when a database is configured.
// @Tags Excel
// @Produce json
// @Param variant query string false "sales or forecast"
// @Param status query string false "success, empty, invalid or failed"
// @Param since query string false "RFC3339 timestamp"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/excel/exports [get]
func (h *ExportLogHandler) ListExports(c *fiber.Ctx) error {
	filter := audit.ExportFilter{
		Variant: c.Query("variant"),
		Status:  c.Query("status"),
		Limit:   c.QueryInt("limit", 50),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return badRequest(c, "since must be an RFC3339 timestamp")
		}
		filter.StartDate = &t
	}

	logs, err := h.lister.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"exports": logs,
		"count":   len(logs),
	})
}
