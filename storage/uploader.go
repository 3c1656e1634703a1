package storage

import (
	"context"
	"io"
)

// UploadResult describes an object after it was stored
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader puts exported bracket files somewhere they can be shared from
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
