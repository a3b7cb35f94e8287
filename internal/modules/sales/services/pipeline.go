package services

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/hooks"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/rs/zerolog"
)

// Recorder persists export log entries
type Recorder interface {
	Record(ctx context.Context, entry *audit.ExportLog) error
}

// HookRunner runs post-generation hooks. Failures never reach the caller.
type HookRunner interface {
	Run(ctx context.Context, a hooks.Artifact)
}

// Deps groups the collaborators shared by the export services
type Deps struct {
	Source   dataset.Source
	Storage  storage.Provider
	Hooks    HookRunner // optional
	Recorder Recorder   // optional, nil when no database is configured
	Now      func() time.Time
}

func (d Deps) clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// load reads the whole dataset for one request
func load(ctx context.Context, source dataset.Source) ([]models.SaleRecord, error) {
	records, err := source.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &SourceUnavailableError{Source: source.Name(), Err: err}
	}
	return records, nil
}

// renderBands picks the bands used for colouring: the request's margins
// when given, otherwise the legend defaults.
func renderBands(criteria models.FilterCriteria) (models.Bands, error) {
	if len(criteria.ErrorMargins) == 0 {
		return models.DefaultBands(), nil
	}
	if err := filter.ValidateBands(criteria.ErrorMargins); err != nil {
		return nil, &ValidationError{Field: "errorMargins", Err: err}
	}
	return criteria.ErrorMargins, nil
}

// selectRecords loads the dataset and applies the criteria
func selectRecords(ctx context.Context, source dataset.Source, engine *filter.Engine, criteria models.FilterCriteria) ([]models.SaleRecord, error) {
	records, err := load(ctx, source)
	if err != nil {
		return nil, err
	}

	matched := engine.Apply(records, criteria)
	zerolog.Ctx(ctx).Debug().
		Int("loaded", len(records)).
		Int("matched", len(matched)).
		Msg("filtered dataset")

	if len(matched) == 0 {
		return nil, &EmptyResultError{}
	}
	return matched, nil
}

// publish runs the hooks for a stored artifact
func publish(ctx context.Context, runner HookRunner, variant string, saved *storage.Result) {
	if runner == nil {
		return
	}
	artifact := hooks.Artifact{
		Variant:  variant,
		URL:      saved.URL,
		FileName: saved.FileName,
	}
	// only local files can be opened
	if filepath.IsAbs(saved.Path) {
		artifact.Path = saved.Path
	}
	runner.Run(ctx, artifact)
}

// finish completes and stores the audit entry. Recording failures are
// logged and never fail the export.
func finish(ctx context.Context, recorder Recorder, entry *audit.ExportLog, elapsed time.Duration, err error) {
	if recorder == nil {
		return
	}

	entry.Status = status(err)
	entry.Duration = elapsed.Milliseconds()
	if err != nil {
		entry.Error = err.Error()
	}

	if rerr := recorder.Record(ctx, entry); rerr != nil {
		zerolog.Ctx(ctx).Warn().Err(rerr).
			Str("variant", entry.Variant).
			Msg("failed to record export")
	}
}
