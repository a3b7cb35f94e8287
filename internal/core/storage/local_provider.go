package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const tempPrefix = ".tmp-"

// LocalProvider stores artifacts in a public directory served by the API
type LocalProvider struct {
	basePath   string // Base directory for artifacts
	baseURL    string // Base URL to access files
	publicPath string // Public path for URL generation
	now        func() time.Time
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory: %w", err)
	}

	return &LocalProvider{
		basePath:   abs,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		publicPath: "/files/",
		now:        time.Now,
	}, nil
}

// BasePath returns the absolute directory artifacts are written to
func (p *LocalProvider) BasePath() string {
	return p.basePath
}

// Save writes the payload to a temp file and links it into place, so a
// reader never sees a partial file and an existing file is never replaced.
func (p *LocalProvider) Save(ctx context.Context, r io.Reader, filename string, opts *Options) (*Result, error) {
	opts = mergeOptions(opts)

	finalName := filepath.Base(filename)
	if !opts.KeepName {
		finalName = UniqueName(filename, p.now())
	}
	if finalName == "." || finalName == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, filename)
	}

	// Create folder path
	folderPath := filepath.Join(p.basePath, filepath.FromSlash(opts.Folder))
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	tmp, err := os.CreateTemp(folderPath, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to flush file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, fmt.Errorf("failed to set permissions: %w", err)
	}

	filePath := filepath.Join(folderPath, finalName)
	if err := os.Link(tmpPath, filePath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrExists, finalName)
		}
		return nil, fmt.Errorf("failed to publish file: %w", err)
	}

	key := objectKey(opts.Folder, finalName)
	return &Result{
		Key:      key,
		FileName: finalName,
		Path:     filePath,
		URL:      p.GetURL(key),
		Size:     size,
	}, nil
}

// Delete deletes an artifact from the export directory
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	filePath, err := p.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List walks the export directory, skipping in-flight temp files
func (p *LocalProvider) List(ctx context.Context) ([]Object, error) {
	var out []Object
	err := filepath.WalkDir(p.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		rel, err := filepath.Rel(p.basePath, path)
		if err != nil {
			return err
		}
		out = append(out, Object{
			Key:     filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list export directory: %w", err)
	}
	return out, nil
}

// GetURL gets the public URL for a file
func (p *LocalProvider) GetURL(key string) string {
	return p.baseURL + p.publicPath + key
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

// resolve maps a key onto a path inside the export directory
func (p *LocalProvider) resolve(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	filePath := filepath.Join(p.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(p.basePath, filePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filePath, nil
}

// ctxReader stops a copy once the context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}
