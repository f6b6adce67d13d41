// File: internal/services/storage/minio_store.go
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements BlobStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client *minio.Client
	config *Config
	logger Logger
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(config *Config, logger Logger) (*MinioStore, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	logger.Info("blob store ready", "endpoint", config.Endpoint, "bucket", config.Bucket)
	return &MinioStore{client: client, config: config, logger: logger}, nil
}

// Put uploads an object.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.config.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	m.logger.Debug("object stored", "key", key, "size", size)
	return nil
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	m.logger.Debug("object deleted", "key", key)
	return nil
}

// PublicURL derives the object's public address from configuration
// alone. The bucket carries a public-read policy in deployment.
func (m *MinioStore) PublicURL(key string) string {
	base := m.config.PublicBaseURL
	if base == "" {
		scheme := "http"
		if m.config.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, m.config.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), m.config.Bucket, key)
}

// ObjectKey places a document under its assistant's prefix, mirroring
// how rows reference blobs: documents/{assistantID}/{filename}.
func ObjectKey(assistantID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", assistantID, filename)
}
