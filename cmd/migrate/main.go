package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/utils"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

func main() {
	var module string
	var command string
	var databaseURL string

	flag.StringVar(&module, "module", "sales", "Module to migrate")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, version, force)")
	flag.StringVar(&databaseURL, "database", "", "Postgres URL (defaults to DATABASE_URL, then DATASET_DSN)")
	flag.Parse()

	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	if databaseURL == "" {
		databaseURL = cfg.DatabaseURL
	}
	if databaseURL == "" && cfg.DatasetDriver == "postgres" {
		databaseURL = cfg.DatasetDSN
	}
	if databaseURL == "" {
		log.Fatal().Msg("no database configured, set DATABASE_URL or pass -database")
	}

	// Migration path
	migrationPath := fmt.Sprintf("file://migrations/%s", module)

	log.Info().
		Str("module", module).
		Str("path", migrationPath).
		Str("database", maskDatabaseURL(databaseURL)).
		Msg("Running migrations")

	// Create migrate instance
	m, err := migrate.New(migrationPath, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate instance")
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration UP failed")
		}
		log.Info().Msg("Migrations UP completed")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration DOWN failed")
		}
		log.Info().Msg("Migrations DOWN completed")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("Failed to get version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current version")

	case "force":
		if len(flag.Args()) < 1 {
			log.Fatal().Msg("Please provide version number for force command")
		}
		forceVersion, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("Version must be a number")
		}
		if err := m.Force(forceVersion); err != nil {
			log.Fatal().Err(err).Msg("Force failed")
		}
		log.Info().Int("version", forceVersion).Msg("Forced version")

	default:
		log.Fatal().Str("cmd", command).Msg("Unknown command (use: up, down, version, force)")
	}
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) < 30 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}
