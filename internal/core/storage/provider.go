package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey = errors.New("invalid object key")
	ErrNotFound   = errors.New("object not found")
	ErrExists     = errors.New("object already exists")
)

// Result represents a stored artifact
type Result struct {
	Key      string `json:"key"`       // Provider-specific identifier
	FileName string `json:"file_name"` // Final (unique) file name
	Path     string `json:"path"`      // Filesystem path or bucket location
	URL      string `json:"url"`       // Public URL to download the file
	Size     int64  `json:"size"`      // Bytes written, 0 when the provider cannot tell
}

// Options represents save configuration options
type Options struct {
	Folder      string `json:"folder"`       // Folder/prefix to store under
	ContentType string `json:"content_type"` // MIME type of the payload
	KeepName    bool   `json:"keep_name"`    // Store under the given name instead of a unique one
}

// Object is one stored artifact as reported by List
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Provider defines the interface for artifact storage providers
type Provider interface {
	// Save stores the payload and returns where it ended up
	Save(ctx context.Context, r io.Reader, filename string, opts *Options) (*Result, error)

	// Delete deletes an artifact by key
	Delete(ctx context.Context, key string) error

	// List lists stored artifacts
	List(ctx context.Context) ([]Object, error)

	// GetURL gets the public URL for a key
	GetURL(key string) string

	// GetProviderName returns the provider name
	GetProviderName() string
}

// UniqueName turns "ExportedData.xlsx" into "ExportedData_<unix>_<uuid8>.xlsx"
func UniqueName(filename string, now time.Time) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filepath.Base(filename), ext)
	return fmt.Sprintf("%s_%d_%s%s", name, now.Unix(), uuid.New().String()[:8], ext)
}

func mergeOptions(opts *Options) *Options {
	if opts == nil {
		return &Options{}
	}
	out := *opts
	return &out
}

// objectKey joins folder and name with forward slashes
func objectKey(folder, name string) string {
	folder = strings.Trim(strings.ReplaceAll(folder, "\\", "/"), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
