package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Band ids understood by the report renderer
const (
	BandHighIncrease     = "highIncrease"
	BandModerateIncrease = "moderateIncrease"
	BandNeutral          = "neutral"
	BandModerateDecrease = "moderateDecrease"
	BandHighDecrease     = "highDecrease"
)

// Band is a named error margin: an upper bound on the sales change
// percentage. The lower bound is the next band's Max.
type Band struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	Max   float64 `json:"max"`
}

// UnmarshalJSON accepts null or a missing max as negative infinity,
// which is how browsers serialize -Infinity.
func (b *Band) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string          `json:"id"`
		Label string          `json:"label"`
		Max   json.RawMessage `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	bound, err := parseBound(raw.Max)
	if err != nil {
		return fmt.Errorf("band %q: %w", raw.ID, err)
	}

	b.ID = raw.ID
	b.Label = raw.Label
	b.Max = bound
	return nil
}

func (b Band) MarshalJSON() ([]byte, error) {
	var bound interface{} = b.Max
	switch {
	case math.IsInf(b.Max, -1):
		bound = nil
	case math.IsInf(b.Max, 1):
		bound = "Infinity"
	}
	return json.Marshal(struct {
		ID    string      `json:"id"`
		Label string      `json:"label,omitempty"`
		Max   interface{} `json:"max"`
	}{b.ID, b.Label, bound})
}

func parseBound(data json.RawMessage) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return math.Inf(-1), nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return 0, err
		}
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "-infinity", "-inf":
		return math.Inf(-1), nil
	case "infinity", "+infinity", "inf":
		return math.Inf(1), nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid max %q", raw)
	}
	return v, nil
}

// Bands is an ordered list of error margins, highest Max first
type Bands []Band

// IDs returns the band identifiers in order
func (b Bands) IDs() []string {
	ids := make([]string, len(b))
	for i, band := range b {
		ids[i] = band.ID
	}
	return ids
}

// DefaultBands returns the five margins described by the report legend:
// above 20, 10 to 20, within 10 either way, -10 to -20 and -20 or below.
// Together they cover every real value.
func DefaultBands() Bands {
	return Bands{
		{ID: BandHighIncrease, Label: "High Increase (▲)", Max: math.Inf(1)},
		{ID: BandModerateIncrease, Label: "Moderate Increase (⇧)", Max: 20},
		{ID: BandNeutral, Label: "Neutral (➔)", Max: 10},
		{ID: BandModerateDecrease, Label: "Moderate Decrease (⇩)", Max: -10},
		{ID: BandHighDecrease, Label: "High Decrease (▼)", Max: -20},
	}
}

// FilterCriteria describes which rows go into a report. Zero values
// mean "match all" for that dimension.
type FilterCriteria struct {
	Year            *int   `json:"year,omitempty"`
	Month           *int   `json:"month,omitempty"`
	ProductCategory string `json:"productCategory,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Region          string `json:"region,omitempty"`
	ErrorMargins    Bands  `json:"errorMargins,omitempty"`
}

// IsEmpty reports whether no dimension is constrained
func (c FilterCriteria) IsEmpty() bool {
	return c.Year == nil && c.Month == nil &&
		strings.TrimSpace(c.ProductCategory) == "" &&
		strings.TrimSpace(c.Gender) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		len(c.ErrorMargins) == 0
}

// ForecastCriteria drives the forecast export
type ForecastCriteria struct {
	Filter    FilterCriteria `json:"filter"`
	Years     int            `json:"years"`
	TrendType string         `json:"trendType"`
}
