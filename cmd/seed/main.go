package main

import (
	"context"
	"flag"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/utils"
	"github.com/rs/zerolog/log"
)

// seed copies the flat JSON dataset into the SQL store
func main() {
	var input, driver, dsn string

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	flag.StringVar(&input, "input", cfg.DatasetPath, "JSON dataset to import")
	flag.StringVar(&driver, "driver", "sqlite", "Target driver (sqlite, postgres)")
	flag.StringVar(&dsn, "dsn", cfg.DatasetDSN, "Target DSN (sqlite file or postgres URL)")
	flag.Parse()

	if dsn == "" && driver == dataset.DriverSQLite {
		dsn = "data/sales.db"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := dataset.NewJSONSource(input).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("input", input).Msg("Failed to read dataset")
	}

	target, err := dataset.OpenSQL(ctx, driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("Failed to open target database")
	}
	defer target.Close()

	if err := target.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare schema")
	}

	n, err := target.Import(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().
		Int("records", n).
		Str("driver", driver).
		Msg("Dataset imported")
}
