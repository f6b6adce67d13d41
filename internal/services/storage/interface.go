// File: internal/services/storage/interface.go
package storage

import (
	"context"
	"io"
)

// BlobStore holds uploaded document bytes. Keys are derived with
// ObjectKey; rows in the local store reference blobs by key and by the
// public URL this package derives.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// PublicURL derives the stable public address of a stored object.
	// No network round trip is made; the bucket is served public-read.
	PublicURL(key string) string
}

// Logger interface for storage operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
