package dataset

import (
	"context"
	"fmt"
	"strings"
)

// Config selects the dataset backend
type Config struct {
	Driver string // json, sqlite or postgres
	Path   string // JSON file, or sqlite file when DSN is empty
	DSN    string
}

// NewSource opens the configured dataset. SQL sources must be closed by the caller.
func NewSource(ctx context.Context, cfg Config) (Source, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "json":
		return NewJSONSource(cfg.Path), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return OpenSQL(ctx, DriverSQLite, dsn)
	case DriverPostgres:
		return OpenSQL(ctx, DriverPostgres, cfg.DSN)
	}
	return nil, fmt.Errorf("unknown dataset driver %q", cfg.Driver)
}
