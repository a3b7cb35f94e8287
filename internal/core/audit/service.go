package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service provides export logging functionality
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record stores an export log entry
func (s *Service) Record(ctx context.Context, entry *ExportLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create export log: %w", err)
	}
	return nil
}

// List retrieves export logs, newest first
func (s *Service) List(ctx context.Context, filter ExportFilter) ([]ExportLog, error) {
	query := s.db.WithContext(ctx).Model(&ExportLog{})

	// Apply filters
	if filter.Variant != "" {
		query = query.Where("variant = ?", filter.Variant)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 50
	}

	var logs []ExportLog
	if err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get export logs: %w", err)
	}

	return logs, nil
}

// DeleteOlderThan deletes export logs created before cutoff
func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&ExportLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old export logs: %w", result.Error)
	}

	utils.LogInfo("Deleted old export logs", map[string]interface{}{
		"count":  result.RowsAffected,
		"cutoff": cutoff,
	})
	return result.RowsAffected, nil
}

// NewEntry starts a log entry for the given variant and criteria
func NewEntry(variant string, criteria interface{}) *ExportLog {
	criteriaJSON, err := toJSON(criteria)
	if err != nil {
		utils.LogWarn("Failed to serialize export criteria", map[string]interface{}{"error": err.Error()})
	}
	return &ExportLog{
		Variant:  variant,
		Criteria: criteriaJSON,
	}
}

// Helper function to convert value to JSON
func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
