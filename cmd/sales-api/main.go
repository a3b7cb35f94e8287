package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/hooks"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/retention"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/handlers"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/sales-analytics-be/cmd/sales-api/docs"
)

// @title Sales Analytics API
// @version 1.0
// @description Filtered sales exports, forecasts and region breakdowns as formatted Excel reports
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name MIT
// @host localhost:5000
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting sales-api")

	ctx := context.Background()

	// Init dataset
	source, err := dataset.NewSource(ctx, cfg.Dataset())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open dataset")
	}
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	// Init artifact storage
	store, err := storage.NewProvider(ctx, cfg.Storage())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Init export log (optional)
	var (
		recorder  services.Recorder
		exportLog *handlers.ExportLogHandler
		pruner    retention.LogPruner
	)
	if cfg.DatabaseURL != "" {
		db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect export log database")
		}
		defer db.Close()

		auditService := audit.NewService(db.GORM)
		recorder = auditService
		exportLog = handlers.NewExportLogHandler(auditService)
		pruner = auditService
	} else {
		log.Warn().Msg("DATABASE_URL not set, export log disabled")
	}

	// Init retention sweeper
	sweeper := retention.NewSweeper(store, cfg.ExportRetention)
	if pruner != nil {
		sweeper.PruneLogs(pruner)
	}
	if cfg.ExportRetention > 0 {
		if err := sweeper.Schedule(cfg.RetentionSchedule); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.RetentionSchedule).Msg("Invalid retention schedule")
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	log.Info().
		Str("dataset", source.Name()).
		Str("storage", store.GetProviderName()).
		Dur("retention", cfg.ExportRetention).
		Bool("open_exports", cfg.OpenExports).
		Msg("Providers ready")

	// Init services
	deps := services.Deps{
		Source:   source,
		Storage:  store,
		Hooks:    hooks.FromConfig(cfg.OpenExports),
		Recorder: recorder,
	}
	exportService := services.NewExportService(deps)
	forecastService := services.NewForecastService(deps)
	heatmapService := services.NewHeatmapService(deps)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Sales Analytics API",
		BodyLimit: 4 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(handlers.RequestLogger())

	// Generated files
	if local, ok := store.(*storage.LocalProvider); ok {
		app.Static("/files", local.BasePath())
	}

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, handlers.Handlers{
		Health:    handlers.NewHealthHandler(source, store),
		Excel:     handlers.NewExcelHandler(exportService, forecastService),
		Heatmap:   handlers.NewHeatmapHandler(heatmapService),
		ExportLog: exportLog,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down sales-api")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
