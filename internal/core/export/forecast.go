package export

import (
	"fmt"
	"io"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/forecast"
	"github.com/xuri/excelize/v2"
)

// ForecastInput is everything the forecast workbook is rendered from
type ForecastInput struct {
	Model   forecast.Model
	History []forecast.Point
	// Predicted already starts with the last historical point
	Predicted []forecast.Point
	Trend     *forecast.Trend
}

// ForecastReport renders historical totals, predictions and the trend band
type ForecastReport struct {
	sheetName string
}

// NewForecastReport creates a new forecast report renderer
func NewForecastReport() *ForecastReport {
	return &ForecastReport{sheetName: ForecastSheet}
}

var forecastHeaders = []string{"Year", "Total Sales", "Prediction", "Trend Sales", "Trend Upper", "Trend Lower"}

// Render builds the workbook. The caller owns the returned file and must close it.
func (r *ForecastReport) Render(in ForecastInput) (*excelize.File, error) {
	rows := len(in.History) + len(in.Predicted)
	if in.Trend == nil || len(in.Trend.Values) != rows {
		return nil, fmt.Errorf("trend does not cover the %d forecast rows", rows)
	}

	f := excelize.NewFile()
	sheet := r.sheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name forecast sheet: %w", err)
	}

	if err := r.writeTable(f, in); err != nil {
		f.Close()
		return nil, err
	}
	if err := r.addCharts(f, in.Model, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Export renders the workbook straight to writer
func (r *ForecastReport) Export(in ForecastInput, writer io.Writer) error {
	f, err := r.Render(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (r *ForecastReport) writeTable(f *excelize.File, in ForecastInput) error {
	sheet := r.sheetName
	styles := newStyleCache(f)

	for i, h := range forecastHeaders {
		cell := cellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %q: %w", h, err)
		}
		if err := styles.apply(sheet, cell, headerStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "F", 15); err != nil {
		return fmt.Errorf("failed to set widths: %w", err)
	}

	row := 2
	write := func(values ...interface{}) error {
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
		return nil
	}

	i := 0
	for _, p := range in.History {
		if err := write(p.Year, p.Value, nil, in.Trend.Values[i], in.Trend.Upper[i], in.Trend.Lower[i]); err != nil {
			return err
		}
		i++
	}
	for _, p := range in.Predicted {
		if err := write(p.Year, nil, p.Value, in.Trend.Values[i], in.Trend.Upper[i], in.Trend.Lower[i]); err != nil {
			return err
		}
		i++
	}

	// Trend formula below the table
	formulaRow := row + 1
	if err := f.SetCellValue(sheet, cellName(1, formulaRow), "Trend Formula:"); err != nil {
		return fmt.Errorf("failed to write trend label: %w", err)
	}
	if err := f.SetCellValue(sheet, cellName(2, formulaRow), in.Trend.Formula); err != nil {
		return fmt.Errorf("failed to write trend formula: %w", err)
	}
	return nil
}

func (r *ForecastReport) addCharts(f *excelize.File, model forecast.Model, rows int) error {
	sheet := r.sheetName
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, rows+1)
	}
	name := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$1", sheet, col)
	}
	series := func(col, color string) excelize.ChartSeries {
		return excelize.ChartSeries{
			Name:       name(col),
			Categories: ref("A"),
			Values:     ref(col),
			Line:       excelize.ChartLine{Width: 2},
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		}
	}

	prediction := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			series("B", "0000FF"),
			series("C", "FF0000"),
		},
		Title: []excelize.RichTextRun{{Text: fmt.Sprintf("Sales Prediction (%s)", model.Title())}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Year"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Total Sales"}}},
	}
	if err := f.AddChart(sheet, "H5", prediction); err != nil {
		return fmt.Errorf("failed to add prediction chart: %w", err)
	}

	trend := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			series("D", "0000FF"),
			series("E", "00FF00"),
			series("F", "FF0000"),
		},
		Title: []excelize.RichTextRun{{Text: "Trend of Sales (Including Forecast)"}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Year"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Sales"}}},
	}
	if err := f.AddChart(sheet, "R5", trend); err != nil {
		return fmt.Errorf("failed to add trend chart: %w", err)
	}
	return nil
}
