// Package storage is the file store behind product images.
//
// Two drivers are available:
//   - "local": a directory on the server (STORAGE_LOCAL_ROOT, default "static")
//   - "s3":    any S3-compatible bucket (AWS S3, MinIO, R2, Spaces)
//
// Paths are slash-separated keys such as "product_images/3f9c.jpg".
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get when the key is absent.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every driver.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get opens path for reading. The caller must close the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether path is present.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}
