// Package storage provides a small filesystem abstraction over the local
// disk and S3-compatible object storage.
//
// Two drivers are available:
//   - "local"  local filesystem rooted at STORAGE_LOCAL_ROOT (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	// boot once (pkg/app does this):
//	storage.Connect(ctx)
//
//	obj, err := storage.Default().Open(ctx, "assets/envio.pdf")
//	defer obj.Body.Close()
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned when the requested path is absent.
var ErrNotExist = errors.New("storage: file does not exist")

// ErrInvalidPath is returned for paths escaping the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Object is an open file. Body may also implement io.Seeker (local disk).
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Put writes r to p, creating parent directories as needed.
	Put(ctx context.Context, p string, r io.Reader) error

	// Open returns the file at p. Caller must close Body.
	Open(ctx context.Context, p string) (*Object, error)

	// Exists reports whether a file exists at p.
	Exists(ctx context.Context, p string) (bool, error)

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, p string) error

	// URL returns the public URL for p.
	URL(p string) string
}

// clean normalises a slash path relative to the disk root and rejects
// anything that climbs out of it.
func clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	c := path.Clean("/" + p)
	c = strings.TrimPrefix(c, "/")
	if c == "" || c == "." || strings.Contains(p, "..") {
		return "", ErrInvalidPath
	}
	return c, nil
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
