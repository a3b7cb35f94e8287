package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {"Date": "2023-03-14", "Year": 2023, "Month": 3, "Product Type": "Skincare", "Product Subtype": "Face Cream",
   "Customer Category": "Retail", "Customer Gender": "Female", "Age Range": "25-34", "Country": "Romania",
   "Region": "Moldova", "Sales Amount": 120.5, "Quantity Sold": 3, "Unit Price": 40.17, "Total Sale": 361.5,
   "Sales Change (%)": "12.5%"},
  {"Date": "2022-11-02", "Product Type": "Makeup", "Customer Gender": "Male", "Region": "Banat",
   "Sales Amount": null, "Quantity Sold": "7", "Total Sale": 99}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csvjson.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestJSONSource_Load(t *testing.T) {
	src := NewJSONSource(writeFile(t, sampleJSON))

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.Int(2023), records[0].Year)
	assert.Equal(t, "Face Cream", records[0].ProductSubtype)
	assert.Equal(t, 12.5, records[0].SalesChangePercent.Float64())

	// year and month recovered from the date, lenient numbers
	assert.Equal(t, models.Int(2022), records[1].Year)
	assert.Equal(t, models.Int(11), records[1].Month)
	assert.Equal(t, 0.0, records[1].SalesAmount.Float64())
	assert.Equal(t, 7.0, records[1].QuantitySold.Float64())
}

func TestJSONSource_ReloadsEveryCall(t *testing.T) {
	path := writeFile(t, `[{"Region": "Moldova"}]`)
	src := NewJSONSource(path)

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[{"Region": "Moldova"}, {"Region": "Banat"}]`), 0644))

	records, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONSource_Errors(t *testing.T) {
	_, err := NewJSONSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = NewJSONSource(writeFile(t, `{"not": "an array"}`)).Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceMalformed)

	_, err = NewJSONSource(writeFile(t, `[{"Region": `)).Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceMalformed)
}

func TestSQLSource_ImportAndLoad(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQL(ctx, DriverSQLite, filepath.Join(t.TempDir(), "sales.db"))
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.EnsureSchema(ctx))

	records, err := Decode([]byte(sampleJSON))
	require.NoError(t, err)

	n, err := src.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSQLSource_MissingTable(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQL(ctx, DriverSQLite, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestOpenSQL_RejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "mysql", "dsn")
	assert.Error(t, err)

	_, err = OpenSQL(context.Background(), DriverSQLite, "")
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	ctx := context.Background()

	src, err := NewSource(ctx, Config{Path: "data/csvjson.json"})
	require.NoError(t, err)
	assert.Equal(t, "json:data/csvjson.json", src.Name())

	dbPath := filepath.Join(t.TempDir(), "sales.db")
	src, err = NewSource(ctx, Config{Driver: "SQLite", Path: dbPath})
	require.NoError(t, err)
	sqlSrc, ok := src.(*SQLSource)
	require.True(t, ok)
	assert.NoError(t, sqlSrc.Close())

	_, err = NewSource(ctx, Config{Driver: "csv"})
	assert.Error(t, err)
}
