// Package storage keeps payslip documents in an S3-compatible bucket (MinIO).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"employeeManagement/internal/config"
)

// PayslipStore uploads a payslip and returns the URL it can be fetched from.
type PayslipStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore implements PayslipStore on a single bucket.
type MinioStore struct {
	client  objectPutter
	bucket  string
	baseURL *url.URL
	logger  *zap.Logger
}

// NewMinioStore wraps an existing client. baseURL is the public endpoint object
// URLs are built from.
func NewMinioStore(client objectPutter, bucket string, baseURL *url.URL, logger *zap.Logger) *MinioStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinioStore{client: client, bucket: bucket, baseURL: baseURL, logger: logger}
}

// Connect creates a MinIO client from cfg and makes sure the bucket exists.
func Connect(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("storage endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}
	return NewMinioStore(client, cfg.Bucket, client.EndpointURL(), logger), nil
}

// Put uploads r as name. size may be -1 when unknown.
func (s *MinioStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if name == "" {
		return "", errors.New("object name is empty")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", s.bucket, name, err)
	}
	s.logger.Info("payslip uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", name),
		zap.Int64("size", info.Size),
	)
	u := *s.baseURL
	u.Path = path.Join("/", u.Path, s.bucket, name)
	return u.String(), nil
}
