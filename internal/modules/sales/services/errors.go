package services

import (
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
)

// ErrNoData is the message clients see for an empty filtered set
var ErrNoData = errors.New("No data found for the given filters")

// ValidationError rejects a request before any data is loaded
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// invalid builds a ValidationError from a message
func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// EmptyResultError means no record matched the criteria
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return ErrNoData.Error()
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrNoData
}

// SourceUnavailableError wraps a dataset that could not be read
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("dataset %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// RenderError covers failures while building or storing an artifact
type RenderError struct {
	Stage string // render, store
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// status maps a pipeline error onto an audit status
func status(err error) string {
	var (
		validation *ValidationError
		empty      *EmptyResultError
	)
	switch {
	case err == nil:
		return audit.StatusSuccess
	case errors.As(err, &validation):
		return audit.StatusInvalid
	case errors.As(err, &empty):
		return audit.StatusEmpty
	default:
		return audit.StatusFailed
	}
}
