package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations. Upload must not
// overwrite an existing object at the same key; key collisions are a bug in
// the caller's key derivation, not an expected case.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
