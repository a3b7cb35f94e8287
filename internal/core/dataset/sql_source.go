package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	tableName = "sales_records"
)

var recordColumns = []string{
	"date", "year", "month",
	"product_type", "product_subtype", "customer_category", "customer_gender",
	"age_range", "country", "region",
	"sales_amount", "quantity_sold", "unit_price", "total_sale", "sales_change_percent",
}

// SQLSource reads records from the sales_records table
type SQLSource struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens the database and checks the connection
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLSource, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported dataset driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("dataset DSN is empty")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s dataset: %w", driver, err)
	}

	// pool settings
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(60 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}

	return &SQLSource{db: db, driver: driver}, nil
}

// NewSQLSource wraps an already opened database
func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

// Name returns the source description used in logs
func (s *SQLSource) Name() string {
	return "sql:" + s.driver
}

// Close closes the underlying database
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the records table when it is missing.
// Production postgres schemas are managed by migrations instead.
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	id := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		id = "id SERIAL PRIMARY KEY"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	date TEXT NOT NULL DEFAULT '',
	year INTEGER NOT NULL DEFAULT 0,
	month INTEGER NOT NULL DEFAULT 0,
	product_type TEXT NOT NULL DEFAULT '',
	product_subtype TEXT NOT NULL DEFAULT '',
	customer_category TEXT NOT NULL DEFAULT '',
	customer_gender TEXT NOT NULL DEFAULT '',
	age_range TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	sales_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	quantity_sold DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_sale DOUBLE PRECISION NOT NULL DEFAULT 0,
	sales_change_percent DOUBLE PRECISION NOT NULL DEFAULT 0
)`, tableName, id)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", tableName, err)
	}
	return nil
}

// Load reads every record in insertion order
func (s *SQLSource) Load(ctx context.Context) ([]models.SaleRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(recordColumns, ", "), tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	defer rows.Close()

	var records []models.SaleRecord
	for rows.Next() {
		var (
			r                                                   models.SaleRecord
			year, month                                         int64
			salesAmount, quantity, unitPrice, totalSale, change float64
		)
		if err := rows.Scan(
			&r.Date, &year, &month,
			&r.ProductType, &r.ProductSubtype, &r.CustomerCategory, &r.CustomerGender,
			&r.AgeRange, &r.Country, &r.Region,
			&salesAmount, &quantity, &unitPrice, &totalSale, &change,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
		}
		r.Year = models.Int(year)
		r.Month = models.Int(month)
		r.SalesAmount = models.Number(salesAmount)
		r.QuantitySold = models.Number(quantity)
		r.UnitPrice = models.Number(unitPrice)
		r.TotalSale = models.Number(totalSale)
		r.SalesChangePercent = models.Number(change)
		r.Normalize()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", tableName, err)
	}
	return records, nil
}

// Import appends records in a single transaction and returns how many were written
func (s *SQLSource) Import(ctx context.Context, records []models.SaleRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.insertQuery())
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		r.Normalize()
		if _, err := stmt.ExecContext(ctx,
			r.Date, int64(r.Year), int64(r.Month),
			r.ProductType, r.ProductSubtype, r.CustomerCategory, r.CustomerGender,
			r.AgeRange, r.Country, r.Region,
			r.SalesAmount.Float64(), r.QuantitySold.Float64(), r.UnitPrice.Float64(),
			r.TotalSale.Float64(), r.SalesChangePercent.Float64(),
		); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(records), nil
}

func (s *SQLSource) insertQuery() string {
	placeholders := make([]string, len(recordColumns))
	for i := range placeholders {
		if s.driver == DriverPostgres {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(recordColumns, ", "), strings.Join(placeholders, ", "))
}
