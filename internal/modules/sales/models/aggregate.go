package models

// Extremes holds the max/min of the tracked numeric fields
type Extremes struct {
	MaxSalesAmount  float64 `json:"maxSalesAmount"`
	MinSalesAmount  float64 `json:"minSalesAmount"`
	MaxTotalSale    float64 `json:"maxTotalSale"`
	MinTotalSale    float64 `json:"minTotalSale"`
	MaxQuantitySold float64 `json:"maxQuantitySold"`
}

// PreviewResponse summarizes a filtered set without producing a file
type PreviewResponse struct {
	Rows       int            `json:"rows"`
	Extremes   Extremes       `json:"extremes"`
	BandCounts map[string]int `json:"bands"`
	Totals     Totals         `json:"totals"`
}

// Totals mirrors the sums of the report's totals row
type Totals struct {
	SalesAmount  float64 `json:"salesAmount"`
	QuantitySold float64 `json:"quantitySold"`
	TotalSale    float64 `json:"totalSale"`
}

// LegendEntry is one row of the report legend
type LegendEntry struct {
	Format      string `json:"format"`
	Description string `json:"description"`
}
