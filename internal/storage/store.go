package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"structiv/internal/config"
	"structiv/internal/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

// LocalStore writes images under a directory served at urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, body io.Reader, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return s.urlPrefix + "/" + filepath.Base(name), nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// S3Store uploads images to a bucket and returns their public URL.
type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		baseURL:  baseURL,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	key := name
	if s.prefix != "" {
		key = s.prefix + "/" + name
	}

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// New picks S3 when a bucket is configured and local disk otherwise.
func New(cfg config.UploadsConfig, logger *zerolog.Logger) (domain.ImageStore, error) {
	if cfg.S3.Bucket != "" {
		store, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("bucket", cfg.S3.Bucket).Msg("unit images stored in S3")
		return store, nil
	}

	store, err := NewLocalStore(cfg.Dir, cfg.URLPrefix)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("dir", cfg.Dir).Msg("unit images stored on local disk")
	return store, nil
}
