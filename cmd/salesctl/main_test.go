package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetJSON = `[
  {"Year": 2022, "Month": 1, "Product Type": "Cosmetics", "Product Subtype": "Face Cream", "Customer Gender": "Female",
   "Region": "Moldova", "Sales Amount": 10, "Quantity Sold": 1, "Total Sale": 100, "Sales Change (%)": 12},
  {"Year": 2023, "Month": 1, "Product Type": "Cosmetics", "Product Subtype": "Face Cream", "Customer Gender": "Female",
   "Region": "Moldova", "Sales Amount": 20, "Quantity Sold": 2, "Total Sale": 200, "Sales Change (%)": -5},
  {"Year": 2024, "Month": 1, "Product Type": "Cosmetics", "Product Subtype": "Perfume", "Customer Gender": "Male",
   "Region": "Banat", "Sales Amount": 30, "Quantity Sold": 3, "Total Sale": 300, "Sales Change (%)": 0}
]`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFilters(t *testing.T) {
	path := writeTemp(t, "filters.yaml", `
year: 2023
gender: Female
region: Moldova
errorMargins:
  - id: up
    max: 10
  - id: down
`)

	criteria, err := loadFilters(path)

	require.NoError(t, err)
	require.NotNil(t, criteria.Year)
	assert.Equal(t, 2023, *criteria.Year)
	assert.Nil(t, criteria.Month)
	assert.Equal(t, "Female", criteria.Gender)
	require.Len(t, criteria.ErrorMargins, 2)
	assert.Equal(t, 10.0, criteria.ErrorMargins[0].Max)
	assert.True(t, math.IsInf(criteria.ErrorMargins[1].Max, -1))
}

func TestLoadFilters_MissingFile(t *testing.T) {
	_, err := loadFilters(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dataset := writeTemp(t, "sales.json", datasetJSON)
	outDir := t.TempDir()
	filters := writeTemp(t, "filters.json", `{"region": "Banat", "gender": "Male"}`)

	// flags override the filter file
	out, err := execute(t, "export", "--dataset", dataset, "--out", outDir, "--filters", filters, "--region", "Moldova", "--gender", "Female")

	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "ExportedData_"))
}

func TestExportCommand_NoRows(t *testing.T) {
	dataset := writeTemp(t, "sales.json", datasetJSON)

	_, err := execute(t, "export", "--dataset", dataset, "--out", t.TempDir(), "--year", "1999")

	assert.EqualError(t, err, "No data found for the given filters")
}

func TestForecastCommand(t *testing.T) {
	dataset := writeTemp(t, "sales.json", datasetJSON)
	outDir := t.TempDir()

	out, err := execute(t, "forecast", "--dataset", dataset, "--out", outDir, "--gender", "Female", "--years", "2", "--trend", "linear")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Forecast_Female_linear_")
}

func TestForecastCommand_RequiresGender(t *testing.T) {
	_, err := execute(t, "forecast", "--years", "2")
	assert.Error(t, err)
}

func TestLegendCommand(t *testing.T) {
	out, err := execute(t, "legend")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "FORMAT"))
}

func TestSweepCommand(t *testing.T) {
	outDir := t.TempDir()
	old := filepath.Join(outDir, "ExportedData_1_aaaaaaaa.xlsx")
	fresh := filepath.Join(outDir, "ExportedData_2_bbbbbbbb.xlsx")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))
	past := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	out, err := execute(t, "sweep", "--out", outDir, "--older-than", "48h")

	require.NoError(t, err)
	assert.Contains(t, out, "ExportedData_1_aaaaaaaa.xlsx")
	assert.Contains(t, out, "scanned 2, deleted 1, failed 0")
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
