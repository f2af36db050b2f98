package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nadzzz/aigateway/internal/config"
)

// S3 writes artifacts to an S3-compatible bucket (AWS S3, MinIO, R2).
type S3 struct {
	client *minio.Client
	bucket string
}

// NewS3 creates the bucket client. The bucket must already exist.
func NewS3(cfg config.S3StoreConf) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage.s3.bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data as a single object.
func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading artifact: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", info.Bucket, info.Key), nil
}
