package assets

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mulearn-geci/community-api/internal/logger"
)

// MinioConfig holds connection settings for the object-storage backend
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	MaxSize   int64
}

// MinioStore keeps assets in an S3-compatible bucket, one key prefix per
// entity kind.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	maxSize int64
	log     *log.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		maxSize: maxSize,
		log:     logger.Assets("minio"),
	}, nil
}

// Save validates the upload and writes it under the kind's key prefix
func (s *MinioStore) Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (*Pending, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown asset kind: %s", kind)
	}
	if err := validateUpload(file, s.maxSize); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := string(kind) + "/" + Filename(file.Filename)
	contentType := file.Header.Get("Content-Type")

	if _, err := s.client.PutObject(ctx, s.bucket, key, src, file.Size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		s.log.Error("Failed to upload object", "key", key, "error", err)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	path := s.publicURL(key)
	s.log.Debug("Stored upload", "key", key, "size", file.Size)

	return &Pending{
		Path: path,
		release: func() {
			if err := s.client.RemoveObject(context.Background(), s.bucket, key,
				minio.RemoveObjectOptions{}); err != nil {
				s.log.Warn("Failed to release pending upload", "key", key, "error", err)
			}
		},
	}, nil
}

// Remove deletes a committed asset by its stored URL
func (s *MinioStore) Remove(ctx context.Context, path string) error {
	key, ok := s.objectKey(path)
	if !ok {
		return fmt.Errorf("path %q is not a managed asset", path)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("Failed to delete object", "key", key, "error", err)
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	s.log.Debug("Deleted asset", "key", key)
	return nil
}

func (s *MinioStore) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
}

func (s *MinioStore) objectKey(path string) (string, bool) {
	prefix := s.client.EndpointURL().String() + "/" + s.bucket + "/"
	key, ok := strings.CutPrefix(path, prefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
