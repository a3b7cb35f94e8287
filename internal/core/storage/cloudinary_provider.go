package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Workbooks are not media, so everything goes up as raw assets
const cloudinaryResourceType = "raw"

// CloudinaryProvider stores artifacts as raw Cloudinary assets
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
	now       func() time.Time
}

// NewCloudinaryProvider creates a new Cloudinary provider
func NewCloudinaryProvider(cloudName, apiKey, apiSecret, folder string) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cloudName,
		folder:    strings.Trim(folder, "/"),
		now:       time.Now,
	}, nil
}

// Save uploads the payload to Cloudinary
func (p *CloudinaryProvider) Save(ctx context.Context, r io.Reader, filename string, opts *Options) (*Result, error) {
	opts = mergeOptions(opts)

	finalName := filename
	if !opts.KeepName {
		finalName = UniqueName(filename, p.now())
	}
	overwrite := false

	params := uploader.UploadParams{
		Folder:       objectKey(p.folder, opts.Folder),
		PublicID:     finalName,
		ResourceType: cloudinaryResourceType,
		Overwrite:    &overwrite,
	}

	result, err := p.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("Cloudinary upload failed: %s", result.Error.Message)
	}

	return &Result{
		Key:      result.PublicID,
		FileName: finalName,
		Path:     result.PublicID,
		URL:      result.SecureURL,
		Size:     int64(result.Bytes),
	}, nil
}

// Delete deletes a raw asset from Cloudinary
func (p *CloudinaryProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	params := uploader.DestroyParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	}

	result, err := p.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}

	switch result.Result {
	case "ok":
		return nil
	case "not found":
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("Cloudinary delete failed: %s", result.Result)
}

// List lists raw assets under the configured folder
func (p *CloudinaryProvider) List(ctx context.Context) ([]Object, error) {
	params := admin.AssetsParams{
		AssetType:    api.AssetType(cloudinaryResourceType),
		DeliveryType: string(api.Upload),
		Prefix:       p.folder,
		MaxResults:   500,
	}

	var out []Object
	for {
		result, err := p.cld.Admin.Assets(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list Cloudinary assets: %w", err)
		}
		if result.Error.Message != "" {
			return nil, fmt.Errorf("Cloudinary list failed: %s", result.Error.Message)
		}
		for _, asset := range result.Assets {
			out = append(out, Object{
				Key:     asset.PublicID,
				Size:    int64(asset.Bytes),
				ModTime: asset.CreatedAt,
			})
		}
		if result.NextCursor == "" {
			return out, nil
		}
		params.NextCursor = result.NextCursor
	}
}

// GetURL gets the public URL for a raw asset
func (p *CloudinaryProvider) GetURL(key string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/raw/upload/%s", p.cloudName, key)
}

// GetProviderName returns the provider name
func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}
