package assets

import (
	"context"
	"fmt"

	"github.com/mulearn-geci/community-api/internal/config"
)

// Backend identifies an asset storage implementation
type Backend string

const (
	BackendLocal Backend = "local"
	BackendMinio Backend = "minio"
)

// New creates the asset store selected by configuration. Local disk is the
// default backend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Backend(cfg.Upload.Backend) {
	case BackendLocal, "":
		return NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	case BackendMinio:
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			MaxSize:   cfg.Upload.MaxFileSize,
		})
	default:
		return nil, fmt.Errorf("unsupported upload backend: %s", cfg.Upload.Backend)
	}
}
