package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// cellStyle is the comparable description of a cell's formatting
type cellStyle struct {
	Fill       string
	FontColor  string
	Bold       bool
	Horizontal string
	NumFmt     string
}

// styleCache creates each distinct style once per workbook
type styleCache struct {
	f   *excelize.File
	ids map[cellStyle]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[cellStyle]int)}
}

func (c *styleCache) id(s cellStyle) (int, error) {
	if id, ok := c.ids[s]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if s.FontColor != "" || s.Bold {
		style.Font = &excelize.Font{Bold: s.Bold, Color: s.FontColor}
	}
	if s.Fill != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{s.Fill},
		}
	}
	if s.Horizontal != "" {
		style.Alignment = &excelize.Alignment{
			Horizontal: s.Horizontal,
			Vertical:   "center",
		}
	}
	if s.NumFmt != "" {
		numFmt := s.NumFmt
		style.CustomNumFmt = &numFmt
	}

	id, err := c.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	c.ids[s] = id
	return id, nil
}

func (c *styleCache) apply(sheet, cell string, s cellStyle) error {
	id, err := c.id(s)
	if err != nil {
		return err
	}
	return c.f.SetCellStyle(sheet, cell, cell, id)
}

// headerStyle is shared by header rows and the totals row
var headerStyle = cellStyle{
	Fill:       ColorHeaderFill,
	FontColor:  ColorWhite,
	Bold:       true,
	Horizontal: "center",
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
