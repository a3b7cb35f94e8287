package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/dataset"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string

	// Dataset
	DatasetDriver string // json, sqlite, postgres
	DatasetPath   string
	DatasetDSN    string

	// Artifacts
	ExportDir       string
	PublicBaseURL   string
	StorageProvider string // local, s3, cloudinary
	OpenExports     bool

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	S3BaseURL          string

	// Cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// Retention
	ExportRetention   time.Duration
	RetentionSchedule string

	// Export log, disabled when empty
	DatabaseURL string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:           os.Getenv("PORT"),
		Env:            os.Getenv("ENV"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		DatasetDriver: strings.ToLower(os.Getenv("DATASET_DRIVER")),
		DatasetPath:   os.Getenv("DATASET_PATH"),
		DatasetDSN:    os.Getenv("DATASET_DSN"),

		ExportDir:       os.Getenv("EXPORT_DIR"),
		PublicBaseURL:   strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		StorageProvider: strings.ToLower(os.Getenv("STORAGE_PROVIDER")),
		OpenExports:     parseBool(os.Getenv("OPEN_EXPORTS")),

		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		S3Bucket:           os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:           os.Getenv("AWS_S3_PREFIX"),
		S3BaseURL:          os.Getenv("AWS_S3_BASE_URL"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    os.Getenv("CLOUDINARY_FOLDER"),

		RetentionSchedule: os.Getenv("RETENTION_SCHEDULE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "https://frontend-production.com"}
	}
	if cfg.DatasetDriver == "" {
		cfg.DatasetDriver = "json"
	}
	if cfg.DatasetPath == "" {
		cfg.DatasetPath = "data/csvjson.json"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "public/files"
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "local"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}
	if cfg.RetentionSchedule == "" {
		cfg.RetentionSchedule = "@every 1h"
	}

	retention, err := parseDuration(os.Getenv("EXPORT_RETENTION"), 24*time.Hour)
	if err != nil {
		log.Warn().Err(err).Msg("invalid EXPORT_RETENTION, using 24h")
	}
	cfg.ExportRetention = retention

	return cfg
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

// parseDuration accepts Go durations and plain hour counts ("48")
func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if hours, err := strconv.Atoi(raw); err == nil {
		return time.Duration(hours) * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("parse %q: %w", raw, err)
	}
	return d, nil
}

// Dataset returns the dataset backend settings
func (c *Config) Dataset() dataset.Config {
	return dataset.Config{
		Driver: c.DatasetDriver,
		Path:   c.DatasetPath,
		DSN:    c.DatasetDSN,
	}
}

// Storage returns the artifact storage settings
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Provider: c.StorageProvider,
		LocalDir: c.ExportDir,
		BaseURL:  c.PublicBaseURL,
		S3: storage.S3Config{
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			Region:          c.AWSRegion,
			Bucket:          c.S3Bucket,
			Prefix:          c.S3Prefix,
			BaseURL:         c.S3BaseURL,
		},
		CloudinaryCloudName: c.CloudinaryCloudName,
		CloudinaryAPIKey:    c.CloudinaryAPIKey,
		CloudinaryAPISecret: c.CloudinaryAPISecret,
		CloudinaryFolder:    c.CloudinaryFolder,
	}
}
