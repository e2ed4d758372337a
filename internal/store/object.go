package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"foliogen/internal/config"
	"foliogen/internal/document"
	"foliogen/internal/errors"
)

// ObjectStore persists uploaded resumes and generated portfolio JSON in
// S3-compatible object storage.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
	logger *errors.Logger
}

// NewObjectStore creates an object store client from configuration.
func NewObjectStore(cfg config.StorageConfig, logger *errors.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeInvalidConfig, "failed to create object storage client", err).
			WithContext("endpoint", cfg.Endpoint)
	}
	return &ObjectStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWriteFailed, "failed to check bucket existence", err).
			WithContext("bucket", s.cfg.Bucket)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWriteFailed, "failed to create bucket", err).
			WithContext("bucket", s.cfg.Bucket)
	}

	if s.logger != nil {
		s.logger.Info("Created storage bucket", "bucket", s.cfg.Bucket)
	}
	return nil
}

// Put uploads an object and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.NewStorageError(errors.ErrCodeStorageWriteFailed, "failed to upload object", err).
			WithContext("bucket", s.cfg.Bucket).
			WithContext("key", key)
	}

	if s.logger != nil {
		s.logger.Debug("Uploaded object", "bucket", s.cfg.Bucket, "key", key, "size", len(data))
	}
	return s.URL(key), nil
}

// Get downloads an object's content.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageReadFailed, "failed to fetch object", err).
			WithContext("bucket", s.cfg.Bucket).
			WithContext("key", key)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageReadFailed, "failed to read object", err).
			WithContext("bucket", s.cfg.Bucket).
			WithContext("key", key)
	}
	return data, nil
}

// URL returns the public URL for an object key.
func (s *ObjectStore) URL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key)
}

// ResumeKey builds the object key for an uploaded resume.
func ResumeKey(slug string, format document.Format) string {
	return slug + "-resume." + format.Extension()
}

// JSONKey builds the object key for a generated portfolio document.
func JSONKey(slug string) string {
	return slug + ".json"
}
