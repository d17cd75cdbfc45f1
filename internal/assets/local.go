package assets

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mulearn-geci/community-api/internal/logger"
)

// publicPrefix is the path prefix under which committed assets are served
const publicPrefix = "/uploads"

// LocalStore keeps assets on the local filesystem under one directory per
// entity kind.
type LocalStore struct {
	baseDir string
	maxSize int64
	log     *log.Logger
}

// NewLocalStore creates a filesystem-backed asset store rooted at baseDir
func NewLocalStore(baseDir string, maxSize int64) (*LocalStore, error) {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	for _, kind := range []Kind{KindPosts, KindEvents, KindUsers} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create uploads directory: %w", err)
		}
	}
	return &LocalStore{
		baseDir: baseDir,
		maxSize: maxSize,
		log:     logger.Assets("local"),
	}, nil
}

// Save validates the upload and writes it into the kind's directory
func (s *LocalStore) Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (*Pending, error) {
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

	filename := Filename(file.Filename)
	diskPath := filepath.Join(s.baseDir, string(kind), filename)

	dst, err := os.Create(diskPath)
	if err != nil {
		s.log.Error("Failed to create file", "path", diskPath, "error", err)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(diskPath)
		s.log.Error("Failed to write file", "path", diskPath, "error", err)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	publicPath := publicPrefix + "/" + string(kind) + "/" + filename
	s.log.Debug("Stored upload", "path", publicPath, "size", file.Size)

	return &Pending{
		Path: publicPath,
		release: func() {
			if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
				s.log.Warn("Failed to release pending upload", "path", diskPath, "error", err)
			}
		},
	}, nil
}

// Remove deletes a committed asset by its public path. A missing file is not
// an error.
func (s *LocalStore) Remove(ctx context.Context, path string) error {
	rel, ok := strings.CutPrefix(path, publicPrefix+"/")
	if !ok {
		return fmt.Errorf("path %q is not a managed asset", path)
	}
	// Reject traversal out of the uploads root.
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("path %q is not a managed asset", path)
	}

	diskPath := filepath.Join(s.baseDir, rel)
	if err := os.Remove(diskPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.log.Error("Failed to delete asset", "path", diskPath, "error", err)
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	s.log.Debug("Deleted asset", "path", path)
	return nil
}
