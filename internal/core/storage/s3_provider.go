package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the bucket settings
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Prefix          string
	BaseURL         string // CloudFront or custom domain, optional
}

// S3Provider stores artifacts in an AWS S3 bucket
type S3Provider struct {
	client     *s3.Client
	bucketName string
	prefix     string
	baseURL    string
	now        func() time.Time
}

// NewS3Provider creates a new AWS S3 provider
func NewS3Provider(ctx context.Context, cfg S3Config) (*S3Provider, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Provider{
		client:     s3.NewFromConfig(awsCfg),
		bucketName: cfg.Bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		now:        time.Now,
	}, nil
}

// Save uploads the payload to S3
func (p *S3Provider) Save(ctx context.Context, r io.Reader, filename string, opts *Options) (*Result, error) {
	opts = mergeOptions(opts)

	finalName := filename
	if !opts.KeepName {
		finalName = UniqueName(filename, p.now())
	}
	key := objectKey(objectKey(p.prefix, opts.Folder), finalName)

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucketName),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Result{
		Key:      key,
		FileName: finalName,
		Path:     fmt.Sprintf("s3://%s/%s", p.bucketName, key),
		URL:      p.GetURL(key),
	}, nil
}

// Delete deletes an object from S3
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// List lists objects under the configured prefix
func (p *S3Provider) List(ctx context.Context) ([]Object, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(p.bucketName)}
	if p.prefix != "" {
		input.Prefix = aws.String(p.prefix + "/")
	}

	var out []Object
	paginator := s3.NewListObjectsV2Paginator(p.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			out = append(out, Object{
				Key:     aws.ToString(obj.Key),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

// GetURL gets the public URL for an object
func (p *S3Provider) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", p.baseURL, key)
}

// GetProviderName returns the provider name
func (p *S3Provider) GetProviderName() string {
	return "AWS S3"
}
