package filter

import (
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// Predicate reports whether a record passes one filter dimension
type Predicate func(models.SaleRecord) bool

// FieldEquals matches a named record field against value. Text fields
// compare case-insensitively; year and month compare as integers.
// An empty value matches every record.
func FieldEquals(field, value string) Predicate {
	value = strings.TrimSpace(value)
	if value == "" {
		return func(models.SaleRecord) bool { return true }
	}

	switch field {
	case models.FieldYear, models.FieldMonth:
		want, err := strconv.Atoi(value)
		if err != nil {
			return func(models.SaleRecord) bool { return false }
		}
		return func(r models.SaleRecord) bool {
			got, err := strconv.Atoi(r.Field(field))
			return err == nil && got == want
		}
	default:
		return func(r models.SaleRecord) bool {
			return strings.EqualFold(strings.TrimSpace(r.Field(field)), value)
		}
	}
}

// InBands matches records whose sales change falls into one of the bands
func InBands(bands models.Bands) Predicate {
	return func(r models.SaleRecord) bool {
		_, ok := Classify(bands, r.SalesChangePercent.Float64())
		return ok
	}
}

// Engine applies FilterCriteria to a dataset. It holds no state.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Predicates compiles criteria into the list of active predicates.
// Dimensions left empty contribute nothing.
func (e *Engine) Predicates(criteria models.FilterCriteria) []Predicate {
	var preds []Predicate

	if criteria.Year != nil {
		preds = append(preds, FieldEquals(models.FieldYear, strconv.Itoa(*criteria.Year)))
	}
	if criteria.Month != nil {
		preds = append(preds, FieldEquals(models.FieldMonth, strconv.Itoa(*criteria.Month)))
	}

	fields := []struct {
		name  string
		value string
	}{
		{models.FieldProductType, criteria.ProductCategory},
		{models.FieldCustomerGender, criteria.Gender},
		{models.FieldRegion, criteria.Region},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			preds = append(preds, FieldEquals(f.name, f.value))
		}
	}

	if len(criteria.ErrorMargins) > 0 {
		preds = append(preds, InBands(criteria.ErrorMargins))
	}

	return preds
}

// Apply returns the records matching every predicate, in input order.
// The input slice is never modified.
func (e *Engine) Apply(records []models.SaleRecord, criteria models.FilterCriteria) []models.SaleRecord {
	return Match(records, e.Predicates(criteria))
}

// Match keeps the records that satisfy all predicates
func Match(records []models.SaleRecord, preds []Predicate) []models.SaleRecord {
	out := make([]models.SaleRecord, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(r models.SaleRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}
