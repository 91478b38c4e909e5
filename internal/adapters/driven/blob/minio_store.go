package blob

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BlobStore = (*MinioStore)(nil)

// MinioStore copies uploaded objects into the processing bucket using
// an S3-compatible object store.
type MinioStore struct {
	client           *minio.Client
	uploadBucket     string
	processingBucket string
}

// MinioConfig holds object-store connection settings.
type MinioConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	UseSSL           bool
	UploadBucket     string
	ProcessingBucket string
}

// NewMinioStore connects to the object store.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &MinioStore{
		client:           client,
		uploadBucket:     cfg.UploadBucket,
		processingBucket: cfg.ProcessingBucket,
	}, nil
}

// CopyToProcessing copies the object at key from the upload bucket into
// the processing bucket and returns the destination key. The source
// object is left in place.
func (s *MinioStore) CopyToProcessing(ctx context.Context, key string) (string, error) {
	dst := minio.CopyDestOptions{
		Bucket: s.processingBucket,
		Object: key,
	}
	src := minio.CopySrcOptions{
		Bucket: s.uploadBucket,
		Object: key,
	}

	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		return "", fmt.Errorf("failed to copy object %s: %w", key, err)
	}
	return key, nil
}
