// Package upload writes multipart image uploads to a storage disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// FileError describes why one file was refused.
type FileError struct {
	Name   string
	Reason string
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %s", e.Name, e.Reason) }

// Saver writes uploads to a disk on a shared worker pool.
type Saver struct {
	disk     storage.Disk
	pool     *workerpool.Pool
	maxBytes int64
}

func NewSaver(disk storage.Disk, pool *workerpool.Pool, maxBytes int64) *Saver {
	return &Saver{disk: disk, pool: pool, maxBytes: maxBytes}
}

// Disk exposes the underlying disk for URL building and deletes.
func (s *Saver) Disk() storage.Disk { return s.disk }

// Check refuses files with an unknown extension or over the size limit.
// Nothing is written.
func (s *Saver) Check(files []*multipart.FileHeader) error {
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowed[ext]; !ok {
			return &FileError{Name: fh.Filename, Reason: "only jpg, jpeg, png, webp and gif images are accepted"}
		}
		if s.maxBytes > 0 && fh.Size > s.maxBytes {
			return &FileError{Name: fh.Filename, Reason: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
		}
	}
	return nil
}

// Save writes every file under dir and returns the stored paths in input
// order. Any failure removes the files already written.
func (s *Saver) Save(ctx context.Context, dir string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := s.Check(files); err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	var (
		mu      sync.Mutex
		written []string
	)

	tasks := make([]workerpool.Task, len(files))
	for i, fh := range files {
		i, fh := i, fh
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		p := path.Join(dir, uuid.NewString()+ext)
		paths[i] = p

		tasks[i] = func(ctx context.Context) error {
			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			defer f.Close()

			if err := s.disk.Put(ctx, p, f, allowed[ext]); err != nil {
				return err
			}
			mu.Lock()
			written = append(written, p)
			mu.Unlock()
			return nil
		}
	}

	if err := s.pool.Run(ctx, tasks...); err != nil {
		s.Remove(context.WithoutCancel(ctx), written...)
		return nil, fmt.Errorf("upload: %w", err)
	}
	return paths, nil
}

// Remove deletes stored files, logging failures instead of returning them.
func (s *Saver) Remove(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.disk.Delete(ctx, p); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.WithCtx(ctx).Warn("failed to delete upload", "path", p, "error", err)
		}
	}
}
