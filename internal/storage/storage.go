package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Error constants for storage layer
var (
	ErrObjectNotFound = errors.New("object not found in storage")
	ErrEmptyObject    = errors.New("object data is empty")
)

// FileStorage defines the interface for object storage operations. Callers
// store image bytes under a key of their choosing and keep the returned URI
// as an opaque reference.
type FileStorage interface {
	// Store writes data under objectKey and returns the URI to persist.
	Store(ctx context.Context, objectKey string, contentType string, data []byte) (string, error)

	// ResolveURL turns a stored URI into something a client can fetch.
	// URIs this backend does not recognize are returned unchanged.
	ResolveURL(ctx context.Context, uri string) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
