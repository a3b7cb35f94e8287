package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// JSONSource reads a flat JSON array of records from disk
type JSONSource struct {
	path string
}

// NewJSONSource creates a source for the file at path
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// Name returns the source description used in logs
func (s *JSONSource) Name() string {
	return "json:" + s.path
}

// Load reads and decodes the whole file
func (s *JSONSource) Load(ctx context.Context) ([]models.SaleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return Decode(raw)
}

// Decode parses a JSON array of records and normalizes each one
func Decode(raw []byte) ([]models.SaleRecord, error) {
	var records []models.SaleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}
