// Package storage persists enterprise snapshots.
//
// A [Backend] stores exactly one enterprise per configured key. The canvas
// and store never talk to a backend directly during interaction; the store
// loads once at startup and saves after mutations (or on demand).
//
// Implementations:
//   - [Null]: stores nothing; Load always reports NOT_FOUND
//   - [File]: a JSON file in the import/export format
//   - [Redis]: a msgpack-encoded snapshot under one key
//   - [Mongo]: one document per key in a snapshots collection
//   - [SQLite]: one row per key in a snapshots table
//
// Use [Open] to build the backend named in a [config.Storage]. Backends
// returned by Open report every load and save to the observability
// storage hooks.
package storage

import (
	"context"
	"time"

	"github.com/matzehuels/assetcanvas/pkg/config"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/observability"
)

// Backend is the interface for snapshot storage.
type Backend interface {
	// Load returns the stored enterprise. It fails with NOT_FOUND when
	// nothing has been saved yet.
	Load(ctx context.Context) (*hierarchy.Enterprise, error)

	// Save replaces the stored enterprise.
	Save(ctx context.Context, e *hierarchy.Enterprise) error

	// Clear removes the stored enterprise. Clearing an empty backend is
	// not an error.
	Clear(ctx context.Context) error

	// Close releases connections.
	Close() error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// Snapshot is the envelope written by the network backends.
type Snapshot struct {
	Enterprise *hierarchy.Enterprise `json:"enterprise"`
	SavedAt    time.Time             `json:"savedAt"`
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.Storage) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendNull, "":
		b = NewNull()
	case config.BackendFile:
		b, err = NewFile(cfg.Path)
	case config.BackendRedis:
		b, err = NewRedis(ctx, cfg.URL, cfg.Key)
	case config.BackendMongo:
		b, err = NewMongo(ctx, cfg.URL, cfg.Database, cfg.Key)
	case config.BackendSQLite:
		b, err = NewSQLite(ctx, cfg.Path, cfg.Key)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Observed(b), nil
}

// Observed wraps b so that loads and saves are reported to
// observability.Storage().
func Observed(b Backend) Backend {
	if _, ok := b.(*observed); ok {
		return b
	}
	return &observed{Backend: b}
}

type observed struct {
	Backend
}

func (o *observed) Load(ctx context.Context) (*hierarchy.Enterprise, error) {
	start := time.Now()
	e, err := o.Backend.Load(ctx)
	observability.Storage().OnLoad(ctx, o.Name(), time.Since(start), err)
	return e, err
}

func (o *observed) Save(ctx context.Context, e *hierarchy.Enterprise) error {
	start := time.Now()
	err := o.Backend.Save(ctx, e)
	observability.Storage().OnSave(ctx, o.Name(), nodeCount(e), time.Since(start), err)
	return err
}

func nodeCount(e *hierarchy.Enterprise) int {
	n := 0
	for _, c := range hierarchy.Count(e) {
		n += c
	}
	return n
}

// checked relinks and validates a decoded enterprise.
func checked(e *hierarchy.Enterprise, backend string) (*hierarchy.Enterprise, error) {
	if e == nil {
		return nil, errors.New(errors.ErrCodeStorage, "%s: empty snapshot", backend)
	}
	hierarchy.Relink(e)
	if err := hierarchy.Validate(e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "%s: stored enterprise is invalid", backend)
	}
	return e, nil
}

func notFound(backend, key string) error {
	return errors.New(errors.ErrCodeNotFound, "%s: no enterprise stored under %q", backend, key)
}

// Ensure observed implements Backend.
var _ Backend = (*observed)(nil)
