package aggregate

import (
	"strings"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// Slice is one labelled total of a breakdown
type Slice struct {
	Label string
	Value float64
}

// sumBy groups records by key and sums value, keeping first-seen order.
// Records with an empty key are skipped.
func sumBy(records []models.SaleRecord, key func(models.SaleRecord) string, value func(models.SaleRecord) float64) []Slice {
	index := make(map[string]int)
	var out []Slice
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Slice{Label: k})
		}
		out[i].Value += value(r)
	}
	return out
}

// BySubtype sums sales amounts per product subtype
func BySubtype(records []models.SaleRecord) []Slice {
	return sumBy(records,
		func(r models.SaleRecord) string { return r.ProductSubtype },
		func(r models.SaleRecord) float64 { return r.SalesAmount.Float64() })
}

// ByField sums total sales per value of a named record field
func ByField(records []models.SaleRecord, field string) []Slice {
	return sumBy(records,
		func(r models.SaleRecord) string { return r.Field(field) },
		func(r models.SaleRecord) float64 { return r.TotalSale.Float64() })
}

// ByRegion splits records per region (case-insensitive) and breaks each
// region down by subtype. Every listed region is present, possibly empty.
func ByRegion(records []models.SaleRecord, regions []string) map[string][]Slice {
	grouped := make(map[string][]models.SaleRecord, len(regions))
	for _, r := range records {
		for _, region := range regions {
			if strings.EqualFold(strings.TrimSpace(r.Region), region) {
				grouped[region] = append(grouped[region], r)
				break
			}
		}
	}

	out := make(map[string][]Slice, len(regions))
	for _, region := range regions {
		out[region] = BySubtype(grouped[region])
	}
	return out
}
