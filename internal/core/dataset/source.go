// Package dataset loads the historical sales records from their backing store.
// Sources are re-read on every call, so edits to the store show up on the next
// request without a restart.
package dataset

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

var (
	ErrSourceNotFound  = errors.New("dataset not found")
	ErrSourceMalformed = errors.New("dataset is malformed")
)

// Source provides the full sales dataset
type Source interface {
	Load(ctx context.Context) ([]models.SaleRecord, error)
	Name() string
}
