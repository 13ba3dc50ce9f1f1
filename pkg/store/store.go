// Package store holds the application state the canvas reads and edits:
// the current enterprise and the selected item.
//
// The store is the single writer of the enterprise. The canvas never
// mutates hierarchy values; it asks the store to apply geometry updates and
// re-derives its layout from the new enterprise when notified. Every
// mutation replaces the enterprise with a copy-on-write successor, so
// values handed out by [Store.Enterprise] stay valid and unchanged.
//
// Listeners registered with [Store.Subscribe] run synchronously on the
// mutating goroutine, after the store has released its lock. They may call
// back into the store.
package store

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/storage"
)

// EventKind says what changed.
type EventKind int

const (
	// EnterpriseChanged fires after any structural or geometry change.
	EnterpriseChanged EventKind = iota + 1
	// SelectionChanged fires when the selected item changes.
	SelectionChanged
)

func (k EventKind) String() string {
	switch k {
	case EnterpriseChanged:
		return "enterprise"
	case SelectionChanged:
		return "selection"
	}
	return "unknown"
}

// Event is delivered to listeners.
type Event struct {
	Kind       EventKind
	Enterprise *hierarchy.Enterprise
	Selected   string
}

// Listener receives store events.
type Listener func(Event)

// Option configures a Store.
type Option func(*Store)

// WithBackend sets the persistence backend. Without one, Load and Save
// are no-ops.
func WithBackend(b storage.Backend) Option { return func(s *Store) { s.backend = b } }

// WithAutoSave saves after every successful mutation.
func WithAutoSave(on bool) Option { return func(s *Store) { s.autosave = on } }

// WithLogger sets the logger for background saves.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithSaveTimeout bounds each automatic save.
func WithSaveTimeout(d time.Duration) Option { return func(s *Store) { s.saveTimeout = d } }

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	ent       *hierarchy.Enterprise
	selected  string
	version   uint64
	listeners map[int]Listener
	nextID    int

	backend     storage.Backend
	autosave    bool
	saveTimeout time.Duration
	logger      *log.Logger

	saveMu    sync.Mutex
	savedVers uint64
}

// New creates a store holding e. A nil e starts with an empty enterprise.
func New(e *hierarchy.Enterprise, opts ...Option) *Store {
	if e == nil {
		e = Empty()
	}
	s := &Store{
		ent:         e,
		listeners:   make(map[int]Listener),
		backend:     storage.NewNull(),
		saveTimeout: 5 * time.Second,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Empty returns an enterprise with no regions.
func Empty() *hierarchy.Enterprise {
	return &hierarchy.Enterprise{ID: "enterprise", Name: "Enterprise", Regions: []hierarchy.Region{}}
}

// Enterprise returns the current enterprise. Callers must not modify it.
func (s *Store) Enterprise() *hierarchy.Enterprise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ent
}

// Version increases with every enterprise change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetEnterprise replaces the whole enterprise after validating it. The
// selection is kept if the selected id still exists.
func (s *Store) SetEnterprise(e *hierarchy.Enterprise) error {
	if err := hierarchy.Validate(e); err != nil {
		return err
	}
	return s.mutate(func(*hierarchy.Enterprise) (*hierarchy.Enterprise, error) { return e, nil })
}

// Selected returns the selected node as it exists in the current
// enterprise.
func (s *Store) Selected() (hierarchy.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return nil, false
	}
	n, _, ok := hierarchy.Find(s.ent, s.selected)
	return n, ok
}

// SelectedID returns the selected id, or "".
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetSelectedItem selects id. Selecting the current selection again does
// not notify.
func (s *Store) SetSelectedItem(id string) error {
	s.mu.Lock()
	if _, _, ok := hierarchy.Find(s.ent, id); !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	if s.selected == id {
		s.mu.Unlock()
		return nil
	}
	s.selected = id
	ev := Event{Kind: SelectionChanged, Enterprise: s.ent, Selected: id}
	ls := s.snapshotListeners()
	s.mu.Unlock()

	notify(ls, ev)
	return nil
}

// ClearSelection deselects.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	if s.selected == "" {
		s.mu.Unlock()
		return
	}
	s.selected = ""
	ev := Event{Kind: SelectionChanged, Enterprise: s.ent}
	ls := s.snapshotListeners()
	s.mu.Unlock()

	notify(ls, ev)
}

// ApplyGeometryUpdate merges patch into the stored geometry of id. Only
// the fields set in patch change. An unknown id leaves the enterprise
// untouched and fails with NODE_NOT_FOUND.
func (s *Store) ApplyGeometryUpdate(id string, patch geom.Patch) error {
	if patch.Empty() {
		return nil
	}
	if (patch.Width != nil && *patch.Width < 0) || (patch.Height != nil && *patch.Height < 0) {
		return errors.New(errors.ErrCodeInvalidInput, "size cannot be negative")
	}
	return s.mutate(func(e *hierarchy.Enterprise) (*hierarchy.Enterprise, error) {
		next, ok := hierarchy.ApplyPatch(e, id, patch)
		if !ok {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
		}
		return next, nil
	})
}

// AddRegion appends a region.
func (s *Store) AddRegion(r hierarchy.Region) error {
	return s.mutate(func(e *hierarchy.Enterprise) (*hierarchy.Enterprise, error) {
		return hierarchy.AddRegion(e, r)
	})
}

// AddChild appends child under parentID.
func (s *Store) AddChild(parentID string, child hierarchy.Node) error {
	return s.mutate(func(e *hierarchy.Enterprise) (*hierarchy.Enterprise, error) {
		return hierarchy.AddChild(e, parentID, child)
	})
}

// Remove deletes id and its subtree. If the selection was inside the
// removed subtree it is cleared.
func (s *Store) Remove(id string) error {
	return s.mutate(func(e *hierarchy.Enterprise) (*hierarchy.Enterprise, error) {
		return hierarchy.Remove(e, id)
	})
}

// Rename changes the display name of id.
func (s *Store) Rename(id, name string) error {
	return s.mutate(func(e *hierarchy.Enterprise) (*hierarchy.Enterprise, error) {
		return hierarchy.Rename(e, id, name)
	})
}

// mutate swaps in fn's result, drops a dangling selection, notifies and
// autosaves.
func (s *Store) mutate(fn func(*hierarchy.Enterprise) (*hierarchy.Enterprise, error)) error {
	return s.commit(fn, s.autosave)
}

func (s *Store) commit(fn func(*hierarchy.Enterprise) (*hierarchy.Enterprise, error), save bool) error {
	s.mu.Lock()
	next, err := fn(s.ent)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.ent = next
	s.version++
	version := s.version

	dropped := false
	if s.selected != "" {
		if _, _, ok := hierarchy.Find(next, s.selected); !ok {
			s.selected = ""
			dropped = true
		}
	}
	events := []Event{{Kind: EnterpriseChanged, Enterprise: next, Selected: s.selected}}
	if dropped {
		events = append(events, Event{Kind: SelectionChanged, Enterprise: next})
	}
	ls := s.snapshotListeners()
	s.mu.Unlock()

	for _, ev := range events {
		notify(ls, ev)
	}
	if save {
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		if err := s.save(ctx, next, version); err != nil {
			s.logger.Warn("autosave failed", "backend", s.backend.Name(), "error", err)
		}
	}
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotListeners() []Listener {
	ls := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			ls = append(ls, fn)
		}
	}
	return ls
}

func notify(ls []Listener, ev Event) {
	for _, fn := range ls {
		fn(ev)
	}
}

// =============================================================================
// Persistence
// =============================================================================

// Load replaces the enterprise with the backend's snapshot. It reports
// false, without error, when the backend holds nothing yet.
func (s *Store) Load(ctx context.Context) (bool, error) {
	e, err := s.backend.Load(ctx)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.ent = e
	s.version++
	s.savedVers = s.version
	if s.selected != "" {
		if _, _, ok := hierarchy.Find(e, s.selected); !ok {
			s.selected = ""
		}
	}
	ev := Event{Kind: EnterpriseChanged, Enterprise: e, Selected: s.selected}
	ls := s.snapshotListeners()
	s.mu.Unlock()

	notify(ls, ev)
	return true, nil
}

// Save writes the current enterprise to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	e, version := s.ent, s.version
	s.mu.RUnlock()
	return s.save(ctx, e, version)
}

// save serializes writes and skips snapshots older than the last one
// written, so concurrent autosaves cannot reorder.
func (s *Store) save(ctx context.Context, e *hierarchy.Enterprise, version uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if version < s.savedVers {
		return nil
	}
	if err := s.backend.Save(ctx, e); err != nil {
		return err
	}
	s.savedVers = version
	s.logger.Debug("saved enterprise", "backend", s.backend.Name(), "version", version)
	return nil
}

// Clear removes the persisted snapshot and resets to an empty enterprise
// with the same id and name.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return err
	}
	cur := s.Enterprise()
	empty := &hierarchy.Enterprise{ID: cur.ID, Name: cur.Name, Regions: []hierarchy.Region{}}
	return s.commit(func(*hierarchy.Enterprise) (*hierarchy.Enterprise, error) { return empty, nil }, false)
}

// Backend returns the configured backend.
func (s *Store) Backend() storage.Backend { return s.backend }
