package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	aio "github.com/matzehuels/assetcanvas/pkg/io"
)

// File stores the enterprise as a JSON file in the export format, so the
// file can be imported elsewhere unchanged.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile creates a file backend at path. The parent directory is created
// if it doesn't exist.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file storage needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create storage dir")
	}
	return &File{path: path}, nil
}

// Load reads the file.
func (f *File) Load(ctx context.Context) (*hierarchy.Enterprise, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	e, err := aio.ImportJSON(f.path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, notFound("file", f.path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", f.path)
	}
	return e, nil
}

// Save writes the file atomically through a temporary sibling.
func (f *File) Save(ctx context.Context, e *hierarchy.Enterprise) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".enterprise-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := aio.WriteJSON(e, tmp); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", f.path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "replace %s", f.path)
	}
	return nil
}

// Clear removes the file.
func (f *File) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove %s", f.path)
	}
	return nil
}

// Close does nothing for file storage.
func (f *File) Close() error { return nil }

// Name returns "file".
func (f *File) Name() string { return "file" }

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Ensure File implements Backend.
var _ Backend = (*File)(nil)
