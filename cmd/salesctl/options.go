package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/hooks"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every command
type globalOptions struct {
	driver  string
	dataset string
	dsn     string
	outDir  string
	launch  bool
	verbose bool
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.driver, "driver", "json", "Dataset driver (json, sqlite, postgres)")
	flags.StringVar(&o.dataset, "dataset", "data/csvjson.json", "Dataset file (JSON or sqlite)")
	flags.StringVar(&o.dsn, "dsn", "", "Dataset DSN for SQL drivers")
	flags.StringVarP(&o.outDir, "out", "o", "public/files", "Directory generated files are written to")
	flags.BoolVar(&o.launch, "open", false, "Open generated files with the desktop application")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")
}

// env holds what a command needs to run the export services
type env struct {
	deps   services.Deps
	store  *storage.LocalProvider
	closer io.Closer
}

func (e *env) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

func (o *globalOptions) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func (o *globalOptions) context(parent context.Context) context.Context {
	logger := o.logger()
	return logger.WithContext(parent)
}

func (o *globalOptions) openEnv(ctx context.Context) (*env, error) {
	source, err := dataset.NewSource(ctx, dataset.Config{
		Driver: o.driver,
		Path:   o.dataset,
		DSN:    o.dsn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	store, err := storage.NewLocalProvider(o.outDir, "")
	if err != nil {
		return nil, err
	}

	e := &env{
		deps: services.Deps{
			Source:  source,
			Storage: store,
			Hooks:   hooks.FromConfig(o.launch),
		},
		store: store,
	}
	if closer, ok := source.(io.Closer); ok {
		e.closer = closer
	}
	return e, nil
}
