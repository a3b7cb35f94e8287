package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OptionalInt decodes a JSON number, numeric string, empty string or null
type OptionalInt struct {
	Value   int
	Set     bool
	Invalid string // raw input when it could not be parsed
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		o.Invalid = raw
		return nil
	}
	o.Value = int(v)
	o.Set = true
	return nil
}

func (o OptionalInt) Ptr() *int {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// ExportRequest is the flat filter payload of the spreadsheet export
type ExportRequest struct {
	Year            OptionalInt `json:"year"`
	Month           OptionalInt `json:"month"`
	ProductCategory string      `json:"productCategory"`
	Gender          string      `json:"gender"`
	Region          string      `json:"region"`
	ErrorMargins    Bands       `json:"errorMargins"`
}

// Criteria maps the flat payload onto FilterCriteria
func (r ExportRequest) Criteria() (FilterCriteria, error) {
	if r.Year.Invalid != "" {
		return FilterCriteria{}, fmt.Errorf("year must be an integer, got %q", r.Year.Invalid)
	}
	if r.Month.Invalid != "" {
		return FilterCriteria{}, fmt.Errorf("month must be an integer, got %q", r.Month.Invalid)
	}

	return FilterCriteria{
		Year:            r.Year.Ptr(),
		Month:           r.Month.Ptr(),
		ProductCategory: strings.TrimSpace(r.ProductCategory),
		Gender:          strings.TrimSpace(r.Gender),
		Region:          strings.TrimSpace(r.Region),
		ErrorMargins:    r.ErrorMargins,
	}, nil
}

// ForecastFilters is the nested payload of the forecast export
type ForecastFilters struct {
	Gender      string      `json:"gender"`
	Years       OptionalInt `json:"years"`
	Region      string      `json:"region"`
	ProductType string      `json:"productType"`
	TrendType   string      `json:"trendType"`
}

// ForecastRequest wraps the forecast filters under "filters"
type ForecastRequest struct {
	Filters *ForecastFilters `json:"filters"`
}

// Criteria maps the nested payload onto ForecastCriteria. Required field
// checks happen in the forecast service.
func (r ForecastRequest) Criteria() ForecastCriteria {
	if r.Filters == nil {
		return ForecastCriteria{}
	}
	f := r.Filters
	return ForecastCriteria{
		Filter: FilterCriteria{
			ProductCategory: strings.TrimSpace(f.ProductType),
			Gender:          strings.TrimSpace(f.Gender),
			Region:          strings.TrimSpace(f.Region),
		},
		Years:     f.Years.Value,
		TrendType: strings.TrimSpace(f.TrendType),
	}
}

// ExportResponse is returned by the spreadsheet export
type ExportResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	URL     string `json:"url,omitempty"`
	Rows    int    `json:"rows"`
}

// ForecastResponse is returned by the forecast export
type ForecastResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
