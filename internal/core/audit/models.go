package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Export variants
const (
	VariantSales    = "sales"
	VariantForecast = "forecast"
)

// Export outcomes
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// ExportLog records one export request and its outcome
type ExportLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// Request
	Variant  string         `json:"variant" gorm:"type:text;not null;index"` // sales, forecast
	Criteria datatypes.JSON `json:"criteria,omitempty" gorm:"type:jsonb"`    // Canonical filter criteria
	Model    string         `json:"model,omitempty" gorm:"type:text"`        // Trend model for forecasts
	Source   string         `json:"source,omitempty" gorm:"type:text"`       // Dataset the rows came from
	Status   string         `json:"status" gorm:"type:text;not null;index"`  // success, empty, invalid, failed
	Error    string         `json:"error,omitempty" gorm:"type:text"`        // Failure detail, never shown to clients
	Duration int64          `json:"duration,omitempty" gorm:"type:bigint"`   // Export duration in ms

	// Artifact
	Rows     int    `json:"rows" gorm:"type:integer"`
	FileName string `json:"file_name,omitempty" gorm:"type:text"`
	URL      string `json:"url,omitempty" gorm:"type:text"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (ExportLog) TableName() string {
	return "export_logs"
}

// ExportFilter represents filters for querying export logs
type ExportFilter struct {
	Variant   string
	Status    string
	StartDate *time.Time
	Limit     int
}
