package viewport

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
)

func TestWheel(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	if got := v.Wheel(100); math.Abs(got-0.9) > 1e-12 {
		t.Fatalf("scale = %v, want 0.9", got)
	}

	prev := v.Scale()
	for i := 0; i < 40; i++ {
		got := v.Wheel(100)
		if got < MinScale {
			t.Fatalf("scale %v below minimum", got)
		}
		if got > prev {
			t.Fatalf("zooming out increased scale")
		}
		prev = got
	}
	if prev != MinScale {
		t.Errorf("scale = %v, want clamp at %v", prev, MinScale)
	}

	for i := 0; i < 100; i++ {
		v.Wheel(-1)
	}
	if v.Scale() != MaxScale {
		t.Errorf("scale = %v, want %v", v.Scale(), MaxScale)
	}

	before := v.Scale()
	v.Wheel(0)
	if v.Scale() != before {
		t.Error("zero delta should not zoom")
	}
}

func TestTenWheelTicksConverge(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	for i := 0; i < 10; i++ {
		v.Wheel(100)
	}
	want := math.Pow(0.9, 10)
	if math.Abs(v.Scale()-want) > 1e-9 {
		t.Errorf("scale = %v, want %v", v.Scale(), want)
	}
}

func TestToLocal(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	v.SetOrigin(geom.Point{X: 100, Y: 50})
	v.SetScale(2)

	got := v.ToLocal(geom.Point{X: 300, Y: 250})
	if got != (geom.Point{X: 100, Y: 100}) {
		t.Errorf("ToLocal = %+v", got)
	}

	v.SetScale(10)
	if v.Scale() != MaxScale {
		t.Errorf("SetScale should clamp, got %v", v.Scale())
	}
}

// fakeSurface and fakeContainer stand in for a real render target.
type fakeSurface struct {
	mu        sync.Mutex
	size      geom.Size
	destroyed bool
}

func (s *fakeSurface) Resize(size geom.Size) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
}

func (s *fakeSurface) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

type fakeContainer struct {
	mu       sync.Mutex
	size     geom.Size
	attached []Surface
}

func (c *fakeContainer) Size() geom.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *fakeContainer) setSize(s geom.Size) {
	c.mu.Lock()
	c.size = s
	c.mu.Unlock()
}

func (c *fakeContainer) Attach(s Surface) {
	c.mu.Lock()
	c.attached = append(c.attached, s)
	c.mu.Unlock()
}

func (c *fakeContainer) Contains(s Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.attached {
		if a == s {
			return true
		}
	}
	return false
}

func (c *fakeContainer) Detach(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.attached {
		if a == s {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			return
		}
	}
}

func (c *fakeContainer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.attached)
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func countingFactory(created *[]*fakeSurface, mu *sync.Mutex) Factory {
	return func(_ context.Context, size geom.Size) (Surface, error) {
		s := &fakeSurface{size: size}
		mu.Lock()
		*created = append(*created, s)
		mu.Unlock()
		return s, nil
	}
}

func TestHostMountAndResize(t *testing.T) {
	var (
		created []*fakeSurface
		mu      sync.Mutex
	)
	h := NewHost(countingFactory(&created, &mu), quietLogger())
	c := &fakeContainer{size: geom.Size{Width: 800, Height: 600}}

	if err := h.Mount(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if !h.Ready() || c.count() != 1 || len(created) != 1 {
		t.Fatalf("ready=%v attached=%d created=%d", h.Ready(), c.count(), len(created))
	}

	// Remount reuses the live surface.
	if err := h.Mount(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || c.count() != 1 {
		t.Errorf("remount created=%d attached=%d", len(created), c.count())
	}

	// Resize happens in place.
	if err := h.Resize(context.Background(), geom.Size{Width: 1024, Height: 768}); err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || created[0].size != (geom.Size{Width: 1024, Height: 768}) {
		t.Errorf("resize recreated or did not resize: %d %+v", len(created), created[0].size)
	}

	h.Unmount()
	if h.Ready() || c.count() != 0 || !created[0].isDestroyed() {
		t.Error("unmount should detach and destroy")
	}
}

func TestHostReattachesMissingSurface(t *testing.T) {
	var (
		created []*fakeSurface
		mu      sync.Mutex
	)
	h := NewHost(countingFactory(&created, &mu), quietLogger())
	first := &fakeContainer{size: geom.Size{Width: 10, Height: 10}}
	h.Mount(context.Background(), first)

	second := &fakeContainer{size: geom.Size{Width: 10, Height: 10}}
	h.Mount(context.Background(), second)
	if !second.Contains(h.Surface()) || len(created) != 1 {
		t.Errorf("surface should be attached to new container without recreating")
	}
}

func TestHostDefersUntilSized(t *testing.T) {
	var (
		created []*fakeSurface
		mu      sync.Mutex
	)
	h := NewHost(countingFactory(&created, &mu), quietLogger())
	c := &fakeContainer{}

	if err := h.Mount(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if h.Ready() || len(created) != 0 {
		t.Fatal("zero-size container should not create a surface")
	}

	c.setSize(geom.Size{Width: 640, Height: 480})
	if err := h.Resize(context.Background(), c.Size()); err != nil {
		t.Fatal(err)
	}
	if !h.Ready() || len(created) != 1 {
		t.Errorf("resize should complete the mount: ready=%v created=%d", h.Ready(), len(created))
	}
}

func TestHostConcurrentMountSharesInit(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	h := NewHost(func(ctx context.Context, size geom.Size) (Surface, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return &fakeSurface{size: size}, nil
	}, quietLogger())
	c := &fakeContainer{size: geom.Size{Width: 100, Height: 100}}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Mount(context.Background(), c)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}
	if c.count() != 1 {
		t.Errorf("attached = %d, want 1", c.count())
	}
}

func TestHostUnmountDuringInit(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	surface := &fakeSurface{}
	h := NewHost(func(context.Context, geom.Size) (Surface, error) {
		close(started)
		<-release
		return surface, nil
	}, quietLogger())
	c := &fakeContainer{size: geom.Size{Width: 100, Height: 100}}

	done := make(chan error)
	go func() { done <- h.Mount(context.Background(), c) }()
	<-started
	h.Unmount()
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if !surface.isDestroyed() {
		t.Error("late surface should be destroyed")
	}
	if h.Ready() || h.Surface() != nil || c.count() != 0 {
		t.Error("late surface must not be attached")
	}
}

func TestHostInitFailure(t *testing.T) {
	h := NewHost(func(context.Context, geom.Size) (Surface, error) {
		return nil, fmt.Errorf("no GPU")
	}, quietLogger())
	err := h.Mount(context.Background(), &fakeContainer{size: geom.Size{Width: 1, Height: 1}})
	if !errors.Is(err, errors.ErrCodeSurfaceInit) {
		t.Errorf("err = %v", err)
	}
	if h.Ready() {
		t.Error("failed init must leave host not ready")
	}
}
