package services

import (
	"bytes"
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/aggregate"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/rs/zerolog"
)

// ExportFileName is the base name of the filtered data workbook
const ExportFileName = "ExportedData" + export.ExtensionXLSX

// ExportResult describes a stored report
type ExportResult struct {
	FileName string
	Path     string
	URL      string
	Rows     int
}

// PreviewResult summarizes a filtered set without producing a file
type PreviewResult struct {
	models.PreviewResponse
	Chart analytics.ChartData `json:"chart"`
}

// ExportService filters the dataset and renders the formatted report
type ExportService struct {
	deps   Deps
	engine *filter.Engine
	report *export.SalesReport
	now    func() time.Time
}

func NewExportService(deps Deps) *ExportService {
	return &ExportService{
		deps:   deps,
		engine: filter.NewEngine(),
		report: export.NewSalesReport(),
		now:    deps.clock(),
	}
}

// Export runs validate, load, filter, aggregate, render and store for one
// request. Every call produces a new artifact.
func (s *ExportService) Export(ctx context.Context, criteria models.FilterCriteria) (result *ExportResult, err error) {
	started := s.now()
	entry := audit.NewEntry(audit.VariantSales, criteria)
	entry.Source = s.deps.Source.Name()
	defer func() {
		if result != nil {
			entry.Rows = result.Rows
			entry.FileName = result.FileName
			entry.URL = result.URL
		}
		finish(ctx, s.deps.Recorder, entry, s.now().Sub(started), err)
	}()

	bands, err := renderBands(criteria)
	if err != nil {
		return nil, err
	}

	records, err := selectRecords(ctx, s.deps.Source, s.engine, criteria)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Compute(records, bands)

	var buf bytes.Buffer
	if err := s.report.Export(export.ReportInput{
		Records: records,
		Bands:   bands,
		Summary: summary,
	}, &buf); err != nil {
		return nil, &RenderError{Stage: "render", Err: err}
	}

	saved, err := s.deps.Storage.Save(ctx, &buf, ExportFileName, &storage.Options{
		ContentType: s.report.GetContentType(),
	})
	if err != nil {
		return nil, &RenderError{Stage: "store", Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Str("file", saved.FileName).
		Int("rows", len(records)).
		Str("storage", s.deps.Storage.GetProviderName()).
		Msg("sales report generated")

	publish(ctx, s.deps.Hooks, audit.VariantSales, saved)

	return &ExportResult{
		FileName: saved.FileName,
		Path:     saved.Path,
		URL:      saved.URL,
		Rows:     len(records),
	}, nil
}

// Preview computes what the report would contain without rendering it
func (s *ExportService) Preview(ctx context.Context, criteria models.FilterCriteria) (*PreviewResult, error) {
	bands, err := renderBands(criteria)
	if err != nil {
		return nil, err
	}

	records, err := selectRecords(ctx, s.deps.Source, s.engine, criteria)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Compute(records, bands)
	return &PreviewResult{
		PreviewResponse: models.PreviewResponse{
			Rows:       len(records),
			Extremes:   summary.Extremes,
			BandCounts: summary.BandCounts,
			Totals:     summary.Totals,
		},
		Chart: analytics.ToBandChartData(bands, summary.BandCounts),
	}, nil
}
