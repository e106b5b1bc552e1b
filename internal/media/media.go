// Package media stores uploaded files (résumés, logos, blog images) in an
// S3-compatible object store.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Object identifies a stored file. Key is used for deletion; URL is handed to
// clients.
type Object struct {
	Key string
	URL string
}

// Store is the media storage surface the API handlers depend on.
type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, data io.Reader, size int64) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// Config carries the S3-compatible connection settings. Endpoint, AccessKey
// and SecretKey are required; the server refuses to start without them.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// Complete reports whether the required credentials are present.
func (c Config) Complete() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// S3Store implements Store against MinIO or any S3-compatible endpoint.
type S3Store struct {
	client *s3.Client
	bucket string
	base   string
	logger *slog.Logger
}

// NewS3Store builds the store. Path-style addressing is forced because MinIO
// requires it.
func NewS3Store(ctx context.Context, cfg Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !cfg.Complete() {
		return nil, fmt.Errorf("storage endpoint and credentials are required")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				SigningRegion:     cfg.Region,
			}, nil
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	logger.Info("media store initialized", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		base:   strings.TrimRight(cfg.Endpoint, "/"),
		logger: logger,
	}, nil
}

// Upload writes data under folder with a uuid-prefixed key so repeated
// filenames never collide.
func (s *S3Store) Upload(ctx context.Context, folder, filename, contentType string, data io.Reader, size int64) (*Object, error) {
	key := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), sanitizeFilename(filename))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Debug("object uploaded", "key", key, "size", size)
	return &Object{
		Key: key,
		URL: fmt.Sprintf("%s/%s/%s", s.base, s.bucket, key),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.logger.Debug("object deleted", "key", key)
	return nil
}

var filenameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
var underscoreRuns = regexp.MustCompile(`_{2,}`)

func sanitizeFilename(name string) string {
	s := filenameDisallowed.ReplaceAllString(name, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.ToLower(strings.Trim(s, "_"))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		return "unnamed"
	}
	return s
}

// PlaceholderLogoURL builds a generated logo for jobs created without an
// uploaded image, using the first two letters of the company name.
func PlaceholderLogoURL(company string) string {
	runes := []rune(strings.ToUpper(company))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	initials := string(runes)
	if initials == "" {
		initials = "NA"
	}
	return "https://via.placeholder.com/128/CCCCCC/FFFFFF?text=" + url.QueryEscape(initials)
}
