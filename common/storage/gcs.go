package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/LexiconIndonesia/recruiter-scraper/common/config"
	"google.golang.org/api/option"
)

// GCSStorage implements StorageService for Google Cloud Storage
type GCSStorage struct {
	client *storage.Client
	config config.GCSConfig
}

// NewGCSStorage creates a new GCS storage service. Without a credentials file the
// application default credentials are used.
func NewGCSStorage(ctx context.Context, cfg config.GCSConfig) (*GCSStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	return &GCSStorage{
		config: cfg,
		client: storageClient,
	}, nil
}

// Upload uploads a file to GCS and returns the object name
func (g *GCSStorage) Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error) {
	return g.StreamUpload(ctx, bucket, objectName, bytes.NewReader(content), contentType)
}

// StreamUpload uploads a file from a reader to GCS and returns the object name.
func (g *GCSStorage) StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error) {
	wc := g.client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if g.config.ProjectID != "" {
		wc.Metadata = map[string]string{"project": g.config.ProjectID}
	}

	if _, err := io.Copy(wc, reader); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", objectName, bucket, err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer for %s: %w", objectName, err)
	}

	return objectName, nil
}

// Close closes the GCS client
func (g *GCSStorage) Close() error {
	return g.client.Close()
}
