package storage

import (
	"context"
	"io"
)

// StorageService stores raw fetched documents
type StorageService interface {
	// Upload uploads content and returns the object name
	Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error)

	// StreamUpload uploads from a reader and returns the object name
	StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error)

	// Close releases the underlying client
	Close() error
}
