package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/hooks"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context) ([]models.SaleRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SaleRecord), args.Error(1)
}

func (m *mockSource) Name() string { return "mock" }

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, entry *audit.ExportLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type mockHooks struct {
	mock.Mock
}

func (m *mockHooks) Run(ctx context.Context, a hooks.Artifact) {
	m.Called(ctx, a)
}

// brokenStorage fails every save
type brokenStorage struct {
	storage.Provider
}

func (brokenStorage) Save(ctx context.Context, r io.Reader, filename string, opts *storage.Options) (*storage.Result, error) {
	return nil, errors.New("disk full")
}

func (brokenStorage) GetProviderName() string { return "broken" }

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func record(year int, gender, region, subtype string, amount, total, change float64) models.SaleRecord {
	return models.SaleRecord{
		Date:               "",
		Year:               models.Int(year),
		Month:              1,
		ProductType:        "Cosmetics",
		ProductSubtype:     subtype,
		CustomerGender:     gender,
		Region:             region,
		SalesAmount:        models.Number(amount),
		QuantitySold:       2,
		UnitPrice:          models.Number(amount / 2),
		TotalSale:          models.Number(total),
		SalesChangePercent: models.Number(change),
	}
}

func fixture() []models.SaleRecord {
	return []models.SaleRecord{
		record(2021, "Female", "Moldova", "Face Cream", 100, 100, 25),
		record(2022, "Female", "Moldova", "Face Cream", 50, 200, -15),
		record(2023, "Male", "Banat", "Perfume", 20, 300, 0),
		record(2024, "Female", "Banat", "Perfume", 40, 300, 5),
	}
}

func localStorage(t *testing.T) (*storage.LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := storage.NewLocalProvider(dir, "http://localhost:5000")
	require.NoError(t, err)
	return p, dir
}

func TestExportService_Export(t *testing.T) {
	// Given
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)

	recorder := new(mockRecorder)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.ExportLog) bool {
		return e.Status == audit.StatusSuccess && e.Rows == 2 && e.Variant == audit.VariantSales && e.Source == "mock"
	})).Return(nil).Once()

	runner := new(mockHooks)
	runner.On("Run", mock.Anything, mock.MatchedBy(func(a hooks.Artifact) bool {
		return a.Variant == audit.VariantSales && filepath.IsAbs(a.Path)
	})).Once()

	store, dir := localStorage(t)
	svc := NewExportService(Deps{Source: source, Storage: store, Hooks: runner, Recorder: recorder, Now: func() time.Time { return fixedNow }})

	// When
	result, err := svc.Export(context.Background(), models.FilterCriteria{Region: "moldova"})

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.True(t, strings.HasPrefix(result.FileName, "ExportedData_"))
	assert.True(t, strings.HasSuffix(result.FileName, ".xlsx"))
	assert.Equal(t, "http://localhost:5000/files/"+result.FileName, result.URL)

	f, err := excelize.OpenFile(filepath.Join(dir, result.FileName))
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("Filtered Data", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", value)

	recorder.AssertExpectations(t)
	runner.AssertExpectations(t)
}

func TestExportService_EveryCallProducesNewArtifact(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	store, dir := localStorage(t)
	svc := NewExportService(Deps{Source: source, Storage: store})

	first, err := svc.Export(context.Background(), models.FilterCriteria{})
	require.NoError(t, err)
	second, err := svc.Export(context.Background(), models.FilterCriteria{})
	require.NoError(t, err)

	assert.NotEqual(t, first.FileName, second.FileName)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	source.AssertNumberOfCalls(t, "Load", 2)
}

func TestExportService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.FilterCriteria
		load     func(*mockSource)
		store    storage.Provider
		status   string
		check    func(t *testing.T, err error)
	}{
		{
			name: "invalid error margins",
			criteria: models.FilterCriteria{ErrorMargins: models.Bands{
				{ID: "a", Max: 10},
				{ID: "b", Max: 20},
			}},
			load:   func(m *mockSource) {},
			status: audit.StatusInvalid,
			check: func(t *testing.T, err error) {
				var target *ValidationError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "errorMargins", target.Field)
			},
		},
		{
			name:     "no matching rows",
			criteria: models.FilterCriteria{Region: "Oltenia"},
			load: func(m *mockSource) {
				m.On("Load", mock.Anything).Return(fixture(), nil)
			},
			status: audit.StatusEmpty,
			check: func(t *testing.T, err error) {
				var target *EmptyResultError
				require.ErrorAs(t, err, &target)
				assert.ErrorIs(t, err, ErrNoData)
			},
		},
		{
			name: "dataset missing",
			load: func(m *mockSource) {
				m.On("Load", mock.Anything).Return(nil, dataset.ErrSourceNotFound)
			},
			status: audit.StatusFailed,
			check: func(t *testing.T, err error) {
				var target *SourceUnavailableError
				require.ErrorAs(t, err, &target)
				assert.ErrorIs(t, err, dataset.ErrSourceNotFound)
			},
		},
		{
			name: "storage failure",
			load: func(m *mockSource) {
				m.On("Load", mock.Anything).Return(fixture(), nil)
			},
			store:  brokenStorage{},
			status: audit.StatusFailed,
			check: func(t *testing.T, err error) {
				var target *RenderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "store", target.Stage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSource)
			tt.load(source)
			recorder := new(mockRecorder)
			recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.ExportLog) bool {
				return e.Status == tt.status && e.Error != ""
			})).Return(nil).Once()

			store := tt.store
			if store == nil {
				store, _ = localStorage(t)
			}
			svc := NewExportService(Deps{Source: source, Storage: store, Recorder: recorder})

			result, err := svc.Export(context.Background(), tt.criteria)

			assert.Nil(t, result)
			tt.check(t, err)
			recorder.AssertExpectations(t)
		})
	}
}

func TestExportService_RecorderFailureIsNotFatal(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	recorder := new(mockRecorder)
	recorder.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down"))
	store, _ := localStorage(t)

	svc := NewExportService(Deps{Source: source, Storage: store, Recorder: recorder})
	result, err := svc.Export(context.Background(), models.FilterCriteria{})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Rows)
}

func TestExportService_Preview(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	svc := NewExportService(Deps{Source: source})

	preview, err := svc.Preview(context.Background(), models.FilterCriteria{Gender: "female"})

	require.NoError(t, err)
	assert.Equal(t, 3, preview.Rows)
	assert.Equal(t, 100.0, preview.Extremes.MaxSalesAmount)
	assert.Equal(t, 40.0, preview.Extremes.MinSalesAmount)
	assert.Equal(t, 600.0, preview.Totals.TotalSale)
	assert.Equal(t, 1, preview.BandCounts[models.BandHighIncrease])
	assert.Equal(t, 0, preview.BandCounts[models.BandModerateIncrease])
	assert.Equal(t, 1, preview.BandCounts[models.BandNeutral])
	assert.Equal(t, 1, preview.BandCounts[models.BandModerateDecrease])
	assert.Equal(t, 0, preview.BandCounts[models.BandHighDecrease])
	assert.Equal(t, "bar", preview.Chart.Type)
}

func TestExportService_PreviewFiltersByGivenBands(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	svc := NewExportService(Deps{Source: source})

	preview, err := svc.Preview(context.Background(), models.FilterCriteria{ErrorMargins: models.Bands{
		{ID: "up", Max: 100},
		{ID: "flat", Max: 1},
	}})

	require.NoError(t, err)
	assert.Equal(t, 4, preview.Rows)
	assert.Equal(t, 2, preview.BandCounts["up"])
	assert.Equal(t, 2, preview.BandCounts["flat"])
}

func forecastFixture() []models.SaleRecord {
	return []models.SaleRecord{
		record(2021, "Female", "Moldova", "Face Cream", 10, 100, 0),
		record(2022, "Female", "Moldova", "Face Cream", 10, 150, 0),
		record(2022, "Female", "Banat", "Perfume", 10, 50, 0),
		record(2023, "Female", "Moldova", "Face Cream", 10, 300, 0),
		record(2024, "Female", "Moldova", "Face Cream", 10, 400, 0),
		record(2024, "Male", "Moldova", "Face Cream", 10, 9999, 0),
	}
}

func TestForecastService_Export(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(forecastFixture(), nil)
	recorder := new(mockRecorder)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.ExportLog) bool {
		return e.Variant == audit.VariantForecast && e.Model == "linear" && e.Status == audit.StatusSuccess
	})).Return(nil).Once()
	store, dir := localStorage(t)

	svc := NewForecastService(Deps{Source: source, Storage: store, Recorder: recorder, Now: func() time.Time { return fixedNow }})
	result, err := svc.Export(context.Background(), models.ForecastCriteria{
		Filter:    models.FilterCriteria{Gender: "Female"},
		Years:     2,
		TrendType: "Linear",
	})

	require.NoError(t, err)
	assert.Equal(t, forecast.Linear, result.Model)
	assert.True(t, strings.HasPrefix(result.FileName, "Forecast_Female_linear_"))
	require.Len(t, result.History, 4)
	assert.Equal(t, 200.0, result.History[1].Value)

	require.Len(t, result.Predicted, 3)
	assert.Equal(t, forecast.Point{Year: 2024, Value: 400}, result.Predicted[0])
	assert.Equal(t, 2025, result.Predicted[1].Year)
	assert.InDelta(t, 500, result.Predicted[1].Value, 0.011)
	assert.InDelta(t, 600, result.Predicted[2].Value, 0.011)

	f, err := excelize.OpenFile(filepath.Join(dir, result.FileName))
	require.NoError(t, err)
	defer f.Close()
	year, err := f.GetCellValue("Prediction Data", "A8")
	require.NoError(t, err)
	assert.Equal(t, "2026", year)
	recorder.AssertExpectations(t)
}

func TestForecastService_Validation(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.ForecastCriteria
		field    string
	}{
		{"missing gender", models.ForecastCriteria{Years: 1, TrendType: "linear"}, "filters.gender"},
		{"zero years", models.ForecastCriteria{Filter: models.FilterCriteria{Gender: "Female"}, TrendType: "linear"}, "filters.years"},
		{"too many years", models.ForecastCriteria{Filter: models.FilterCriteria{Gender: "Female"}, Years: 101, TrendType: "linear"}, "filters.years"},
		{"missing trend", models.ForecastCriteria{Filter: models.FilterCriteria{Gender: "Female"}, Years: 1}, "filters.trendType"},
		{"unknown trend", models.ForecastCriteria{Filter: models.FilterCriteria{Gender: "Female"}, Years: 1, TrendType: "quartic"}, "filters.trendType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSource)
			svc := NewForecastService(Deps{Source: source})

			_, err := svc.Export(context.Background(), tt.criteria)

			var target *ValidationError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, tt.field, target.Field)
			source.AssertNotCalled(t, "Load", mock.Anything)
		})
	}
}

func TestForecastService_ExponentialRejectsNonPositiveTotals(t *testing.T) {
	records := forecastFixture()
	records[0].TotalSale = 0
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(records, nil)
	svc := NewForecastService(Deps{Source: source, Now: func() time.Time { return fixedNow }})

	_, err := svc.Preview(context.Background(), models.ForecastCriteria{
		Filter:    models.FilterCriteria{Gender: "Female"},
		Years:     1,
		TrendType: "exponential",
	})

	var target *ValidationError
	require.ErrorAs(t, err, &target)
	assert.ErrorIs(t, err, forecast.ErrNonPositive)
}

func TestForecastService_EmptySelection(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(forecastFixture(), nil)
	svc := NewForecastService(Deps{Source: source})

	_, err := svc.Preview(context.Background(), models.ForecastCriteria{
		Filter:    models.FilterCriteria{Gender: "Other"},
		Years:     1,
		TrendType: "linear",
	})

	assert.ErrorIs(t, err, ErrNoData)
}

func TestForecastService_Preview(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(forecastFixture(), nil)
	svc := NewForecastService(Deps{Source: source, Now: func() time.Time { return fixedNow }})

	preview, err := svc.Preview(context.Background(), models.ForecastCriteria{
		Filter:    models.FilterCriteria{Gender: "Female", Region: "Moldova"},
		Years:     3,
		TrendType: "cubic_spline",
	})

	require.NoError(t, err)
	assert.Equal(t, forecast.CubicSpline, preview.Model)
	assert.Len(t, preview.History, 4)
	assert.Len(t, preview.Predicted, 4)
	assert.Contains(t, preview.Formula, "y = ")
	assert.Len(t, preview.Chart.Labels, 8)
	assert.Len(t, preview.Chart.Data, 5)
}

func TestHeatmapService_Build(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	svc := NewHeatmapService(Deps{Source: source})

	result, err := svc.Build(context.Background(), models.FilterCriteria{})

	require.NoError(t, err)
	assert.Len(t, result.Data, len(models.Regions))
	assert.Equal(t, map[string]float64{"Face Cream": 150}, result.Data["Moldova"])
	assert.Equal(t, map[string]float64{"Perfume": 60}, result.Data["Banat"])
	assert.Empty(t, result.Data["Oltenia"])
	assert.Equal(t, []string{"Perfume"}, result.Charts["Banat"].Labels)
}

func TestHeatmapService_BuildFiltered(t *testing.T) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixture(), nil)
	svc := NewHeatmapService(Deps{Source: source})

	result, err := svc.Build(context.Background(), models.FilterCriteria{Gender: "Male"})

	require.NoError(t, err)
	assert.Empty(t, result.Data["Moldova"])
	assert.Equal(t, map[string]float64{"Perfume": 20}, result.Data["Banat"])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Female", sanitize(" Female "))
	assert.Equal(t, "non-binary", sanitize("non binary"))
	assert.Equal(t, "all", sanitize("../"))
}
