package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored file does not exist.
var ErrNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload stores a file under path, replacing any previous content
	Upload(ctx context.Context, file io.Reader, path string) error

	// Download opens a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
