package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrKeyExists is returned by Put in non-overwrite mode when the key is
// already occupied.
var ErrKeyExists = errors.New("storage: key already exists")

// ObjectInfo describes one stored blob as returned by List.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the blob-store contract the attachment lifecycle depends
// on. Every operation can fail independently; callers own the consistency
// story between this store and the metadata store.
type ObjectStorage interface {
	// Put stores a blob at key. With overwrite false, an occupied key is
	// rejected with ErrKeyExists instead of being replaced.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, overwrite bool) error

	// Get retrieves a blob.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes blobs. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// List returns the objects under a key prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// PublicURL derives a publicly resolvable URL for a key. Pure; assumed
	// to succeed for any well-formed key.
	PublicURL(key string) string
}

// Config holds storage configuration for all backends.
type Config struct {
	Type      string // local, cloudflare_r2, minio
	BasePath  string // local storage root
	BaseURL   string // public URL base
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	UseSSL    bool
}

// NewStorage builds a backend from configuration.
func NewStorage(cfg Config) (ObjectStorage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2", "s3":
		return NewCloudflareR2Storage(cfg)
	case "minio":
		return NewMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
