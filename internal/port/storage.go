package port

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstracts blob storage for uploaded files.
type ObjectStorage interface {
	// Upload stores the content under the given key and returns the storage location.
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
	// Download retrieves the object content. The caller must close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object.
	Delete(ctx context.Context, key string) error
	// GetPresignedURL returns a temporary download URL for the object.
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
