package analytics

import (
	"strconv"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/aggregate"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// ToPieChartData converts a breakdown to pie chart format
func ToPieChartData(slices []aggregate.Slice) PieChartData {
	labels := make([]string, len(slices))
	values := make([]float64, len(slices))

	for i, s := range slices {
		labels[i] = s.Label
		values[i] = forecast.Round2(s.Value)
	}

	return PieChartData{
		Type:   "pie",
		Labels: labels,
		Values: values,
	}
}

// ToRegionPies builds one pie per region
func ToRegionPies(byRegion map[string][]aggregate.Slice) map[string]PieChartData {
	out := make(map[string]PieChartData, len(byRegion))
	for region, slices := range byRegion {
		out[region] = ToPieChartData(slices)
	}
	return out
}

// ToBandChartData converts band counts to bar chart format, in band order
func ToBandChartData(bands models.Bands, counts map[string]int) ChartData {
	labels := make([]string, len(bands))
	values := make([]interface{}, len(bands))

	for i, b := range bands {
		labels[i] = b.Label
		if labels[i] == "" {
			labels[i] = b.ID
		}
		values[i] = counts[b.ID]
	}

	return ChartData{
		Type:   "bar",
		Labels: labels,
		Data: []ChartSeries{
			{
				Name:   "Rows",
				Values: values,
			},
		},
	}
}

// ToForecastChartData lays history, prediction and trend out on one year axis.
// predicted is expected to start with the last historical point.
func ToForecastChartData(history, predicted []forecast.Point, trend *forecast.Trend) ChartData {
	n := len(history) + len(predicted)
	labels := make([]string, n)
	actual := make([]interface{}, n)
	prediction := make([]interface{}, n)

	for i, p := range history {
		labels[i] = strconv.Itoa(p.Year)
		actual[i] = p.Value
	}
	for i, p := range predicted {
		j := len(history) + i
		labels[j] = strconv.Itoa(p.Year)
		prediction[j] = p.Value
	}

	series := []ChartSeries{
		{Name: "Total Sales", Values: actual, Color: "#0000FF"},
		{Name: "Prediction", Values: prediction, Color: "#FF0000"},
	}

	if trend != nil && len(trend.Values) == n {
		series = append(series,
			ChartSeries{Name: "Trend Sales", Values: toValues(trend.Values), Color: "#0000FF"},
			ChartSeries{Name: "Trend Upper", Values: toValues(trend.Upper), Color: "#00FF00"},
			ChartSeries{Name: "Trend Lower", Values: toValues(trend.Lower), Color: "#FF0000"},
		)
	}

	return ChartData{
		Type:   "line",
		Labels: labels,
		Data:   series,
	}
}

func toValues(fs []float64) []interface{} {
	out := make([]interface{}, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}
