// Package storage provides image storage backends for product and
// profile uploads.
package storage

import (
	"context"
	"errors"
)

// Allowed upload content types
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Common errors
var (
	ErrEmptyKey           = errors.New("storage key is required")
	ErrEmptyData          = errors.New("upload data is empty")
	ErrContentTypeBlocked = errors.New("content type is not an allowed image type")
	ErrTooLarge           = errors.New("upload exceeds the size limit")
)

// ImageStorage uploads image bytes and returns a public URL
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ValidateUpload enforces the shared upload constraints before any
// backend is called
func ValidateUpload(data []byte, contentType string, maxBytes int64) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return ErrTooLarge
	}
	if !allowedContentTypes[contentType] {
		return ErrContentTypeBlocked
	}
	return nil
}
