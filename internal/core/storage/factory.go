package storage

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and configures a provider
type Config struct {
	Provider string // local, s3 or cloudinary

	LocalDir string
	BaseURL  string

	S3 S3Config

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// NewProvider builds the configured provider
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "local":
		return NewLocalProvider(cfg.LocalDir, cfg.BaseURL)
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		return NewS3Provider(ctx, cfg.S3)
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" {
			return nil, fmt.Errorf("cloudinary storage requires a cloud name")
		}
		return NewCloudinaryProvider(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
}
