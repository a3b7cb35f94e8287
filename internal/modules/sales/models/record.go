package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field names accepted by SaleRecord.Field
const (
	FieldDate               = "date"
	FieldYear               = "year"
	FieldMonth              = "month"
	FieldProductType        = "productType"
	FieldProductSubtype     = "productSubtype"
	FieldCustomerCategory   = "customerCategory"
	FieldCustomerGender     = "customerGender"
	FieldAgeRange           = "ageRange"
	FieldCountry            = "country"
	FieldRegion             = "region"
	FieldSalesAmount        = "salesAmount"
	FieldQuantitySold       = "quantitySold"
	FieldUnitPrice          = "unitPrice"
	FieldTotalSale          = "totalSale"
	FieldSalesChangePercent = "salesChangePercent"
)

// Regions lists the named geographic regions used by the map views
var Regions = []string{
	"Moldova", "Banat", "Dobrogea", "Oltenia", "Ardeal",
	"Muntenia", "Bucovina", "Transilvania", "Maramureș",
}

// SaleRecord is one historical transaction line of the sales dataset.
// JSON keys follow the exported spreadsheet headers of the source file.
type SaleRecord struct {
	Date               string `json:"Date"`
	Year               Int    `json:"Year"`
	Month              Int    `json:"Month"`
	ProductType        string `json:"Product Type"`
	ProductSubtype     string `json:"Product Subtype"`
	CustomerCategory   string `json:"Customer Category"`
	CustomerGender     string `json:"Customer Gender"`
	AgeRange           string `json:"Age Range"`
	Country            string `json:"Country"`
	Region             string `json:"Region"`
	SalesAmount        Number `json:"Sales Amount"`
	QuantitySold       Number `json:"Quantity Sold"`
	UnitPrice          Number `json:"Unit Price"`
	TotalSale          Number `json:"Total Sale"`
	SalesChangePercent Number `json:"Sales Change (%)"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2006-01",
}

// Normalize fills Year and Month from Date when the source row omits them
func (r *SaleRecord) Normalize() {
	if r.Year != 0 && r.Month != 0 {
		return
	}
	date := strings.TrimSpace(r.Date)
	if date == "" {
		return
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		if r.Year == 0 {
			r.Year = Int(t.Year())
		}
		if r.Month == 0 {
			r.Month = Int(t.Month())
		}
		return
	}
}

// Field returns the textual value of a named field. Unknown names yield "".
func (r SaleRecord) Field(name string) string {
	switch name {
	case FieldDate:
		return r.Date
	case FieldYear:
		return strconv.Itoa(int(r.Year))
	case FieldMonth:
		return strconv.Itoa(int(r.Month))
	case FieldProductType:
		return r.ProductType
	case FieldProductSubtype:
		return r.ProductSubtype
	case FieldCustomerCategory:
		return r.CustomerCategory
	case FieldCustomerGender:
		return r.CustomerGender
	case FieldAgeRange:
		return r.AgeRange
	case FieldCountry:
		return r.Country
	case FieldRegion:
		return r.Region
	case FieldSalesAmount:
		return r.SalesAmount.String()
	case FieldQuantitySold:
		return r.QuantitySold.String()
	case FieldUnitPrice:
		return r.UnitPrice.String()
	case FieldTotalSale:
		return r.TotalSale.String()
	case FieldSalesChangePercent:
		return r.SalesChangePercent.String()
	default:
		return ""
	}
}

// Number is a float that decodes leniently: numbers, numeric strings,
// null and anything unparsable (which becomes zero).
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(parseLenient(data))
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Int is an integer that decodes leniently, truncating fractional values
type Int int

func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int(int(parseLenient(data)))
	return nil
}

func parseLenient(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return 0
		}
	} else {
		raw = string(data)
	}

	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
