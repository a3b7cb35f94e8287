package export

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/xuri/excelize/v2"
)

var legendEntries = []models.LegendEntry{
	{Format: "Header Row", Description: "Bold text with blue background."},
	{Format: "Max Total Sale", Description: "Green background and dark green text."},
	{Format: "Min Total Sale", Description: "Red background and dark red text."},
	{Format: "Max Sales Amount", Description: "Light green background in 'Sales Amount' column."},
	{Format: "Min Sales Amount", Description: "Light red background in 'Sales Amount' column."},
	{Format: "Quantity Sold", Description: "Progress bar with quantity appended."},
	{Format: "Sales Change (%) ▲", Description: "Sales increased by more than 20% (dark green background)."},
	{Format: "Sales Change (%) ⇧", Description: "Sales increased between 10% and 20% (light green background)."},
	{Format: "Sales Change (%) ➔", Description: "Sales change within ±10% (yellow background)."},
	{Format: "Sales Change (%) ⇩", Description: "Sales decreased between 10% and 20% (light red background)."},
	{Format: "Sales Change (%) ▼", Description: "Sales decreased by more than 20% (dark red background)."},
}

// Legend returns the static rows of the legend sheet
func Legend() []models.LegendEntry {
	out := make([]models.LegendEntry, len(legendEntries))
	copy(out, legendEntries)
	return out
}

func writeLegend(f *excelize.File, styles *styleCache, sheet string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create legend sheet: %w", err)
	}

	headers := []struct {
		title string
		width float64
	}{
		{"Format", 30},
		{"Description", 50},
	}
	for i, h := range headers {
		cell := cellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h.title); err != nil {
			return fmt.Errorf("failed to write legend header: %w", err)
		}
		if err := styles.apply(sheet, cell, headerStyle); err != nil {
			return err
		}
		name := columnName(i + 1)
		if err := f.SetColWidth(sheet, name, name, h.width); err != nil {
			return fmt.Errorf("failed to set legend width: %w", err)
		}
	}

	for i, e := range legendEntries {
		row := i + 2
		if err := f.SetCellValue(sheet, cellName(1, row), e.Format); err != nil {
			return fmt.Errorf("failed to write legend row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheet, cellName(2, row), e.Description); err != nil {
			return fmt.Errorf("failed to write legend row %d: %w", row, err)
		}
	}

	return nil
}
