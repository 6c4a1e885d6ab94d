package port

import (
	"context"
	"io"
)

// UploadInput carries the data for an object upload.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput contains the result of an object upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the static-file store holding uploaded deal
// documents.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
