package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownModel   = errors.New("unsupported trend model")
	ErrNotEnoughData  = errors.New("not enough data points to fit the model")
	ErrNonPositive    = errors.New("exponential model needs strictly positive totals")
	ErrInvalidDegree  = errors.New("polynomial degree must not be negative")
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrSingular       = errors.New("data points do not determine a unique fit")
	ErrUnsortedKnots  = errors.New("spline knots must be strictly increasing")
)

// Model names a trend model
type Model string

const (
	Linear      Model = "linear"
	Polynomial  Model = "polynomial"
	Exponential Model = "exponential"
	CubicSpline Model = "cubic_spline"
)

// Models lists the supported trend models
var Models = []Model{Linear, Polynomial, Exponential, CubicSpline}

// ParseModel resolves a model name case-insensitively
func ParseModel(name string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Models {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Title is the capitalized model name used in chart titles
func (m Model) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Point is one yearly total
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"totalSales"`
}

// YearlyTotals sums total sales per year, ascending by year.
// Records without a year are skipped.
func YearlyTotals(records []models.SaleRecord) []Point {
	sums := make(map[int]float64)
	for _, r := range records {
		year := int(r.Year)
		if year <= 0 {
			continue
		}
		sums[year] += r.TotalSale.Float64()
	}

	out := make([]Point, 0, len(sums))
	for year, total := range sums {
		out = append(out, Point{Year: year, Value: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Years returns count consecutive years starting at start
func Years(start, count int) []int {
	if count <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Predictor evaluates a fitted model at a year
type Predictor func(year float64) float64

// Fit fits model to the history
func Fit(model Model, history []Point) (Predictor, error) {
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	switch model {
	case Linear, Polynomial:
		degree := 1
		if model == Polynomial {
			degree = 2
		}
		coeffs, err := Polyfit(xs, ys, degree)
		if err != nil {
			return nil, err
		}
		return func(year float64) float64 { return Polyval(coeffs, year) }, nil

	case Exponential:
		logs := make([]float64, len(ys))
		for i, y := range ys {
			if y <= 0 {
				return nil, ErrNonPositive
			}
			logs[i] = math.Log(y)
		}
		coeffs, err := Polyfit(xs, logs, 1)
		if err != nil {
			return nil, err
		}
		a := math.Exp(coeffs[1])
		b := coeffs[0]
		return func(year float64) float64 { return a * math.Exp(b*year) }, nil

	case CubicSpline:
		spline, err := NewSpline(xs, ys)
		if err != nil {
			return nil, err
		}
		return spline.At, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// Predict fits model to the history and evaluates it for each year,
// rounded to cents.
func Predict(model Model, history []Point, years []int) ([]Point, error) {
	predict, err := Fit(model, history)
	if err != nil {
		return nil, err
	}

	out := make([]Point, len(years))
	for i, year := range years {
		out[i] = Point{Year: year, Value: Round2(predict(float64(year)))}
	}
	return out, nil
}

// Connect prepends the last historical point so the prediction line
// starts where the history ends.
func Connect(history, predicted []Point) []Point {
	if len(history) == 0 {
		return predicted
	}
	out := make([]Point, 0, len(predicted)+1)
	out = append(out, history[len(history)-1])
	return append(out, predicted...)
}

// Trend is a quadratic fit over history and forecast with a ±2σ band
type Trend struct {
	Coeffs  []float64
	Values  []float64
	Upper   []float64
	Lower   []float64
	Formula string
}

// FitTrend fits the quadratic trend over points in order
func FitTrend(points []Point) (*Trend, error) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	coeffs, err := Polyfit(xs, ys, 2)
	if err != nil {
		return nil, fmt.Errorf("trend fit: %w", err)
	}

	values := make([]float64, len(points))
	var sum, sumSq float64
	for i, x := range xs {
		values[i] = Polyval(coeffs, x)
		r := ys[i] - values[i]
		sum += r
		sumSq += r * r
	}
	n := float64(len(points))
	mean := sum / n
	std := math.Sqrt(math.Max(sumSq/n-mean*mean, 0))

	t := &Trend{
		Coeffs: coeffs,
		Values: make([]float64, len(values)),
		Upper:  make([]float64, len(values)),
		Lower:  make([]float64, len(values)),
		Formula: fmt.Sprintf("y = %.4fx² + %.4fx + %.4f",
			coeffs[0], coeffs[1], coeffs[2]),
	}
	for i, v := range values {
		t.Values[i] = Round2(v)
		t.Upper[i] = Round2(v + 2*std)
		t.Lower[i] = Round2(v - 2*std)
	}
	return t, nil
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
