package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/rs/zerolog"
)

// MaxForecastYears bounds the forecast horizon
const MaxForecastYears = 100

// ForecastResult describes a stored forecast workbook
type ForecastResult struct {
	FileName  string
	Path      string
	URL       string
	Model     forecast.Model
	History   []forecast.Point
	Predicted []forecast.Point
}

// ForecastPreview is the chart-ready forecast without a workbook
type ForecastPreview struct {
	Model     forecast.Model      `json:"model"`
	History   []forecast.Point    `json:"history"`
	Predicted []forecast.Point    `json:"predicted"`
	Formula   string              `json:"formula"`
	Chart     analytics.ChartData `json:"chart"`
}

// forecastRun is the computed state shared by export and preview
type forecastRun struct {
	model     forecast.Model
	history   []forecast.Point
	predicted []forecast.Point // connected to the last historical point
	trend     *forecast.Trend
}

// ForecastService fits yearly totals and renders the prediction workbook
type ForecastService struct {
	deps   Deps
	engine *filter.Engine
	render *export.ForecastReport
	now    func() time.Time
}

func NewForecastService(deps Deps) *ForecastService {
	return &ForecastService{
		deps:   deps,
		engine: filter.NewEngine(),
		render: export.NewForecastReport(),
		now:    deps.clock(),
	}
}

// Validate checks the required forecast fields and resolves the model
func (s *ForecastService) Validate(criteria models.ForecastCriteria) (forecast.Model, error) {
	if strings.TrimSpace(criteria.Filter.Gender) == "" {
		return "", invalid("filters.gender", "is required")
	}
	if criteria.Years <= 0 {
		return "", invalid("filters.years", "must be a positive integer")
	}
	if criteria.Years > MaxForecastYears {
		return "", invalid("filters.years", "must be at most %d", MaxForecastYears)
	}
	if strings.TrimSpace(criteria.TrendType) == "" {
		return "", invalid("filters.trendType", "is required")
	}

	model, err := forecast.ParseModel(criteria.TrendType)
	if err != nil {
		return "", &ValidationError{Field: "filters.trendType", Err: err}
	}
	return model, nil
}

func (s *ForecastService) run(ctx context.Context, criteria models.ForecastCriteria) (*forecastRun, error) {
	model, err := s.Validate(criteria)
	if err != nil {
		return nil, err
	}

	records, err := selectRecords(ctx, s.deps.Source, s.engine, criteria.Filter)
	if err != nil {
		return nil, err
	}

	history := forecast.YearlyTotals(records)
	if len(history) == 0 {
		return nil, &EmptyResultError{}
	}

	years := forecast.Years(s.now().Year(), criteria.Years)
	predicted, err := forecast.Predict(model, history, years)
	if err != nil {
		return nil, &ValidationError{
			Field: "filters.trendType",
			Err:   fmt.Errorf("%s model cannot be fitted to %d yearly totals: %w", model, len(history), err),
		}
	}
	connected := forecast.Connect(history, predicted)

	points := make([]forecast.Point, 0, len(history)+len(connected))
	points = append(points, history...)
	points = append(points, connected...)
	trend, err := forecast.FitTrend(points)
	if err != nil {
		return nil, &ValidationError{Field: "filters.years", Err: err}
	}

	return &forecastRun{
		model:     model,
		history:   history,
		predicted: connected,
		trend:     trend,
	}, nil
}

// Export renders the forecast workbook and stores it under a unique name
func (s *ForecastService) Export(ctx context.Context, criteria models.ForecastCriteria) (result *ForecastResult, err error) {
	started := s.now()
	entry := audit.NewEntry(audit.VariantForecast, criteria)
	entry.Source = s.deps.Source.Name()
	entry.Model = strings.ToLower(strings.TrimSpace(criteria.TrendType))
	defer func() {
		if result != nil {
			entry.Rows = len(result.History) + len(result.Predicted)
			entry.FileName = result.FileName
			entry.URL = result.URL
		}
		finish(ctx, s.deps.Recorder, entry, s.now().Sub(started), err)
	}()

	fc, err := s.run(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.render.Export(export.ForecastInput{
		Model:     fc.model,
		History:   fc.history,
		Predicted: fc.predicted,
		Trend:     fc.trend,
	}, &buf); err != nil {
		return nil, &RenderError{Stage: "render", Err: err}
	}

	name := fmt.Sprintf("Forecast_%s_%s%s", sanitize(criteria.Filter.Gender), fc.model, export.ExtensionXLSX)
	saved, err := s.deps.Storage.Save(ctx, &buf, name, &storage.Options{
		ContentType: export.ContentTypeXLSX,
	})
	if err != nil {
		return nil, &RenderError{Stage: "store", Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Str("file", saved.FileName).
		Str("model", string(fc.model)).
		Int("years", criteria.Years).
		Msg("forecast workbook generated")

	publish(ctx, s.deps.Hooks, audit.VariantForecast, saved)

	return &ForecastResult{
		FileName:  saved.FileName,
		Path:      saved.Path,
		URL:       saved.URL,
		Model:     fc.model,
		History:   fc.history,
		Predicted: fc.predicted,
	}, nil
}

// Preview returns the forecast series and chart payload without a file
func (s *ForecastService) Preview(ctx context.Context, criteria models.ForecastCriteria) (*ForecastPreview, error) {
	fc, err := s.run(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return &ForecastPreview{
		Model:     fc.model,
		History:   fc.history,
		Predicted: fc.predicted,
		Formula:   fc.trend.Formula,
		Chart:     analytics.ToForecastChartData(fc.history, fc.predicted, fc.trend),
	}, nil
}

// sanitize keeps file name parts to letters, digits and dashes
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}
