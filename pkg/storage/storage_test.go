package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/assetcanvas/pkg/config"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/observability"
)

func TestNull(t *testing.T) {
	ctx := context.Background()
	b := NewNull()
	defer b.Close()

	if _, err := b.Load(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load err = %v, want NOT_FOUND", err)
	}
	if err := b.Save(ctx, hierarchy.Sample()); err != nil {
		t.Errorf("Save error: %v", err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Error("Null should not store data")
	}
	if err := b.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

// roundTrip exercises the contract shared by every persistent backend.
func roundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Load(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("empty Load err = %v, want NOT_FOUND", err)
	}

	e := hierarchy.Sample()
	e, _ = hierarchy.ApplyPatch(e, "area-jp-1-2", geom.Patch{Width: geom.Float(180), Height: geom.Float(90)})
	if err := b.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, _, ok := hierarchy.Find(got, "area-jp-1-2")
	if !ok {
		t.Fatal("patched area missing")
	}
	if g := n.Geom(); g.Width == nil || *g.Width != 180 || g.Height == nil || *g.Height != 90 || g.X != nil {
		t.Errorf("geometry = %+v", g)
	}
	eq, _, ok := hierarchy.Find(got, "eq-001")
	if !ok || len(eq.(hierarchy.Equipment).Attributes) != 6 {
		t.Errorf("equipment attributes lost")
	}

	// Save replaces.
	e2, _ := hierarchy.Rename(got, "reg-apac", "Asia")
	if err := b.Save(ctx, e2); err != nil {
		t.Fatal(err)
	}
	got, _ = b.Load(ctx)
	if r, _ := got.Region("reg-apac"); r.Name != "Asia" {
		t.Errorf("second save not visible: %q", r.Name)
	}

	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load after Clear err = %v", err)
	}
	if err := b.Clear(ctx); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "enterprise.json")
	b, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	roundTrip(t, b)
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enterprise.json")
	os.WriteFile(path, []byte("{broken"), 0644)
	b, _ := NewFile(path)

	_, err := b.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("err = %v, want STORAGE", err)
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canvas.db")
	b, err := NewSQLite(ctx, path, "enterprise")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	roundTrip(t, b)
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canvas.db")
	a, err := NewSQLite(ctx, path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if err := a.Save(ctx, hierarchy.Sample()); err != nil {
		t.Fatal(err)
	}
	a.Close()

	b, err := NewSQLite(ctx, path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if _, err := b.Load(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("key b should be empty, err = %v", err)
	}
}

func TestSnapshotCodec(t *testing.T) {
	saved := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := encodeSnapshot(Snapshot{Enterprise: hierarchy.Sample(), SavedAt: saved})
	if err != nil {
		t.Fatal(err)
	}
	s, err := decodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if !s.SavedAt.Equal(saved) {
		t.Errorf("savedAt = %v", s.SavedAt)
	}
	e, err := checked(s.Enterprise, "test")
	if err != nil {
		t.Fatal(err)
	}
	r, ok := e.Region("bc7cb265-7b9f-4fb2-86d1-31f3599974a2")
	if !ok || r.Code != hierarchy.CodeAMER || r.Width == nil || *r.Width != 350 {
		t.Errorf("region = %+v", r)
	}

	if _, err := decodeSnapshot([]byte{0xc1}); !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("bad data err = %v", err)
	}
}

func TestWithRetry(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"recovers", 2, true, 3, false},
		{"gives up", 5, true, 3, true},
		{"permanent", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(fmt.Errorf("boom"))
					}
					return fmt.Errorf("boom")
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v", err)
			}
			if err != nil && IsRetryable(err) {
				t.Error("returned error should be unwrapped")
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopStorageHooks
	mu    sync.Mutex
	loads []string
	saves []int
}

func (h *recordingHooks) OnLoad(_ context.Context, backend string, _ time.Duration, _ error) {
	h.mu.Lock()
	h.loads = append(h.loads, backend)
	h.mu.Unlock()
}

func (h *recordingHooks) OnSave(_ context.Context, backend string, size int, _ time.Duration, _ error) {
	h.mu.Lock()
	h.saves = append(h.saves, size)
	h.mu.Unlock()
}

func TestOpen(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStorageHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	b, err := Open(ctx, config.Storage{Backend: config.BackendFile, Path: filepath.Join(t.TempDir(), "e.json")})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Name() != "file" {
		t.Errorf("Name() = %q", b.Name())
	}

	b.Save(ctx, hierarchy.Sample())
	b.Load(ctx)
	if len(hooks.loads) != 1 || hooks.loads[0] != "file" {
		t.Errorf("loads = %v", hooks.loads)
	}
	// 3 regions + 7 plants + 10 areas + 12 locations + 15 equipment
	if len(hooks.saves) != 1 || hooks.saves[0] != 47 {
		t.Errorf("saves = %v", hooks.saves)
	}

	if Observed(b) != b {
		t.Error("Observed should not double wrap")
	}

	if _, err := Open(ctx, config.Storage{Backend: "etcd"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend err = %v", err)
	}
	nb, err := Open(ctx, config.Storage{Backend: config.BackendNull})
	if err != nil || nb.Name() != "null" {
		t.Errorf("null backend = %v, %v", nb, err)
	}
}
