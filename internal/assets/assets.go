// Package assets stores uploaded images. Uploads are returned as pending
// handles that the caller commits once the owning entity is durably saved,
// or releases when the entity write fails; the upload and the entity write
// are not transactional, so the file side effect is reconciled explicitly.
package assets

import (
	"context"
	"errors"
	"mime/multipart"
)

// MaxFileSize caps uploads at 5 MiB
const MaxFileSize = 5 << 20

var (
	ErrInvalidFile  = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file size too large, maximum size is 5MB")
)

// Kind identifies the owning entity type and selects the storage location.
// Passed explicitly by the CRUD handler rather than inferred from the route.
type Kind string

const (
	KindPosts  Kind = "posts"
	KindEvents Kind = "events"
	KindUsers  Kind = "users"
)

// Valid reports whether the kind is a recognized storage location
func (k Kind) Valid() bool {
	switch k {
	case KindPosts, KindEvents, KindUsers:
		return true
	}
	return false
}

// Store persists uploaded image assets
type Store interface {
	// Save validates and writes the upload, returning a pending handle.
	// The file stays on disk only if the caller commits it.
	Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (*Pending, error)

	// Remove deletes a previously committed asset by its stored path.
	Remove(ctx context.Context, path string) error
}

// Pending is a stored but not yet committed asset
type Pending struct {
	// Path is the reference embedded in the owning entity
	Path string

	release   func()
	committed bool
}

// Commit marks the asset as owned; Release becomes a no-op
func (p *Pending) Commit() {
	if p != nil {
		p.committed = true
	}
}

// Release deletes the file unless it was committed. Deletion failures are
// logged by the backend, never returned: the primary operation's outcome
// already stands.
func (p *Pending) Release() {
	if p == nil || p.committed || p.release == nil {
		return
	}
	p.release()
}

// validateUpload applies the shared type and size limits
func validateUpload(file *multipart.FileHeader, maxSize int64) error {
	contentType := file.Header.Get("Content-Type")
	if len(contentType) < 6 || contentType[:6] != "image/" {
		return ErrInvalidFile
	}
	if file.Size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
