package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/aggregate"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const barWidth = 10

// bandStyle is the glyph and fill shown for a sales-change band
type bandStyle struct {
	Glyph string
	Fill  string
}

var bandStyles = map[string]bandStyle{
	models.BandHighIncrease:     {Glyph: "▲", Fill: "00B050"},
	models.BandModerateIncrease: {Glyph: "⇧", Fill: "92D050"},
	models.BandNeutral:          {Glyph: "➔", Fill: "FFFF00"},
	models.BandModerateDecrease: {Glyph: "⇩", Fill: "FF9A99"},
	models.BandHighDecrease:     {Glyph: "▼", Fill: "FF0000"},
}

// ReportInput is everything the sales report is rendered from
type ReportInput struct {
	Records []models.SaleRecord
	Bands   models.Bands
	Summary aggregate.Result
}

// SalesReport renders filtered sales records into a styled workbook
type SalesReport struct {
	dataSheet   string
	legendSheet string
}

// NewSalesReport creates a new sales report renderer
func NewSalesReport() *SalesReport {
	return &SalesReport{
		dataSheet:   DataSheet,
		legendSheet: LegendSheet,
	}
}

// Render builds the workbook. The caller owns the returned file and must close it.
func (r *SalesReport) Render(in ReportInput) (*excelize.File, error) {
	if len(in.Summary.RowBands) != len(in.Records) {
		return nil, fmt.Errorf("summary covers %d rows, got %d records", len(in.Summary.RowBands), len(in.Records))
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", r.dataSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name data sheet: %w", err)
	}

	styles := newStyleCache(f)
	if err := r.writeData(f, styles, in); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeLegend(f, styles, r.legendSheet); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Export renders the workbook straight to writer
func (r *SalesReport) Export(in ReportInput, writer io.Writer) error {
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

// GetContentType returns the MIME type for Excel files
func (r *SalesReport) GetContentType() string {
	return ContentTypeXLSX
}

// GetFileExtension returns the file extension for Excel files
func (r *SalesReport) GetFileExtension() string {
	return ExtensionXLSX
}

func (r *SalesReport) writeData(f *excelize.File, styles *styleCache, in ReportInput) error {
	sheet := r.dataSheet

	// Write headers
	for i, col := range Columns {
		cell := cellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", col.Header, err)
		}
		if err := styles.apply(sheet, cell, headerStyle); err != nil {
			return err
		}
		name := columnName(i + 1)
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return fmt.Errorf("failed to set width of %s: %w", name, err)
		}
	}

	ext := in.Summary.Extremes

	// Write data rows
	for i, rec := range in.Records {
		row := i + 2
		values := rowValues(rec)
		for col, v := range values {
			if err := f.SetCellValue(sheet, cellName(col+1, row), v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}

		// Row highlight for the total-sale extremes, max wins on ties
		var base cellStyle
		totalSale := rec.TotalSale.Float64()
		switch totalSale {
		case ext.MaxTotalSale:
			base = cellStyle{Fill: ColorMaxRowFill, FontColor: ColorMaxRowFont}
		case ext.MinTotalSale:
			base = cellStyle{Fill: ColorMinRowFill, FontColor: ColorMinRowFont}
		}
		rowHighlighted := base.Fill != ""

		for col := 1; col <= len(Columns); col++ {
			style := base

			switch col {
			case colSalesAmount:
				if !rowHighlighted {
					switch rec.SalesAmount.Float64() {
					case ext.MaxSalesAmount:
						style = cellStyle{Fill: ColorMaxCellFill, FontColor: ColorMaxRowFont}
					case ext.MinSalesAmount:
						style = cellStyle{Fill: ColorMinCellFill, FontColor: ColorMinRowFont}
					}
				}
			case colQuantitySold:
				style.FontColor = ColorQuantityFont
				style.Bold = true
				style.Horizontal = "left"
				style.NumFmt = quantityFormat(rec.QuantitySold.Float64(), ext.MaxQuantitySold)
			case colSalesChange:
				band, ok := in.Summary.BandOf(in.Bands, i)
				if !ok {
					break
				}
				bs, ok := bandStyles[band.ID]
				if !ok {
					break
				}
				cell := cellName(col, row)
				if err := f.SetCellValue(sheet, cell, ChangeText(bs.Glyph, rec.SalesChangePercent.Float64())); err != nil {
					return fmt.Errorf("failed to write sales change at %s: %w", cell, err)
				}
				style.Fill = bs.Fill
				style.Horizontal = "center"
			}

			if style == (cellStyle{}) {
				continue
			}
			if err := styles.apply(sheet, cellName(col, row), style); err != nil {
				return err
			}
		}
	}

	// Totals row
	lastDataRow := len(in.Records) + 1
	totalRow := lastDataRow + 1
	if err := f.SetCellValue(sheet, cellName(colDate, totalRow), "Total"); err != nil {
		return fmt.Errorf("failed to write totals label: %w", err)
	}
	for _, col := range []int{colSalesAmount, colQuantitySold, colTotalSale} {
		name := columnName(col)
		formula := fmt.Sprintf("SUM(%s2:%s%d)", name, name, lastDataRow)
		if err := f.SetCellFormula(sheet, cellName(col, totalRow), formula); err != nil {
			return fmt.Errorf("failed to write total formula for %s: %w", name, err)
		}
	}
	for col := 1; col <= len(Columns); col++ {
		if err := styles.apply(sheet, cellName(col, totalRow), headerStyle); err != nil {
			return err
		}
	}

	// Freeze header row
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return nil
}

func rowValues(rec models.SaleRecord) []interface{} {
	return []interface{}{
		rec.Date,
		rec.ProductType,
		rec.ProductSubtype,
		rec.CustomerCategory,
		rec.CustomerGender,
		rec.AgeRange,
		rec.Country,
		rec.Region,
		rec.SalesAmount.Float64(),
		rec.QuantitySold.Float64(),
		rec.UnitPrice.Float64(),
		rec.TotalSale.Float64(),
		rec.SalesChangePercent.Float64(),
	}
}

// barFill returns how many of the bar's cells are filled for quantity q
func barFill(q, maxQ float64) int {
	if maxQ <= 0 || math.IsInf(maxQ, 0) || math.IsNaN(q) {
		return 0
	}
	n := int(math.Round(q / maxQ * barWidth))
	if n < 0 {
		return 0
	}
	if n > barWidth {
		return barWidth
	}
	return n
}

func bar(filled int) string {
	return strings.Repeat("█", filled) + strings.Repeat("▒", barWidth-filled)
}

// QuantityBar is the text shown in a quantity cell, e.g. "███████▒▒▒ 7"
func QuantityBar(q, maxQ float64) string {
	return bar(barFill(q, maxQ)) + " " + strconv.FormatFloat(q, 'f', -1, 64)
}

// quantityFormat keeps the cell numeric while displaying the bar in front of it
func quantityFormat(q, maxQ float64) string {
	return `"` + bar(barFill(q, maxQ)) + ` "General`
}

// ChangeText formats a sales change as "glyph x.xx%"
func ChangeText(glyph string, pct float64) string {
	return glyph + " " + decimal.NewFromFloat(pct).StringFixed(2) + "%"
}
