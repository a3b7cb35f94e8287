package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError maps pipeline errors onto status codes. Internal details are
// logged and never sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	logger := zerolog.Ctx(c.UserContext())

	var (
		validation *services.ValidationError
		empty      *services.EmptyResultError
		source     *services.SourceUnavailableError
		render     *services.RenderError
	)
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: validation.Error()})
	case errors.As(err, &empty):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: empty.Error()})
	case errors.As(err, &source):
		logger.Error().Err(err).Str("source", source.Source).Msg("dataset unavailable")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Sales data is unavailable"})
	case errors.As(err, &render):
		logger.Error().Err(err).Str("stage", render.Stage).Msg("report generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Failed to generate Excel file"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("request cancelled")
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "Request cancelled"})
	default:
		logger.Error().Err(err).Msg("unexpected error")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
}

// parseBody decodes a JSON body. An empty body decodes to the zero value.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msg})
}

// absoluteURL resolves a root-relative artifact URL against the request host
func absoluteURL(c *fiber.Ctx, url string) string {
	if strings.HasPrefix(url, "/") {
		return c.BaseURL() + url
	}
	return url
}
