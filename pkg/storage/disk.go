// Package storage stores uploaded images on a local directory or an
// S3-compatible bucket behind one Disk interface.
//
//	disk, err := storage.New(ctx, config.StorageDefault())
//	err = disk.Put(ctx, "products/3f2a.jpg", file, "image/jpeg")
//	url := disk.URL("products/3f2a.jpg")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when nothing is stored at path.
var ErrNotFound = errors.New("storage: file not found")

// Disk is implemented by every driver. Paths are slash-separated and
// relative to the disk root.
type Disk interface {
	// Put writes r to path, replacing what is there.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns the stored content. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether path holds a file.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public URL of path.
	URL(path string) string
}
