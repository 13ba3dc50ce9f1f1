package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingLayout struct{ passes int }

func (c *countingLayout) OnDerive(string, int, time.Duration) { c.passes++ }

type testGestureHooks struct{ NoopGestureHooks }
type testStorageHooks struct{ NoopStorageHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestRegistryDefaultsToNoop(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Errorf("Layout() = %T", Layout())
	}
	if _, ok := Gesture().(NoopGestureHooks); !ok {
		t.Errorf("Gesture() = %T", Gesture())
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Errorf("Storage() = %T", Storage())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestRegistrySetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	layout := &countingLayout{}
	gesture := &testGestureHooks{}
	storage := &testStorageHooks{}
	http := &testHTTPHooks{}
	SetLayoutHooks(layout)
	SetGestureHooks(gesture)
	SetStorageHooks(storage)
	SetHTTPHooks(http)

	Layout().OnDerive("plant", 9, time.Millisecond)
	if layout.passes != 1 {
		t.Errorf("registered layout hooks saw %d passes, want 1", layout.passes)
	}
	if Gesture() != gesture || Storage() != storage || HTTP() != http {
		t.Error("getters should return the registered hooks")
	}

	SetLayoutHooks(nil)
	if Layout() != layout {
		t.Error("SetLayoutHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset should restore the no-op layout hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset should restore the no-op HTTP hooks")
	}
}

func TestUseLogger(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	UseLogger(logger)

	tests := []struct {
		name string
		emit func()
		want string
	}{
		{"derive", func() { Layout().OnDerive("region", 12, time.Millisecond) }, "mode=region"},
		{"select", func() { Gesture().OnSelect("reg-emea") }, "select id=reg-emea"},
		{"drill", func() { Gesture().OnDrill("plant-uk-1") }, "drill id=plant-uk-1"},
		{"commit", func() { Gesture().OnCommit("plant-uk-1", "resize", time.Second) }, "gesture=resize"},
		{"save", func() { Storage().OnSave(ctx, "redis", 47, time.Millisecond, nil) }, "nodes=47"},
		{"failed load", func() { Storage().OnLoad(ctx, "mongo", time.Second, errors.New("timeout")) }, "WARN"},
		{"request", func() { HTTP().OnResponse(ctx, "GET", "/api/canvas", 200, time.Millisecond) }, "status=200"},
		{"server error", func() { HTTP().OnResponse(ctx, "PUT", "/api/enterprise", 500, time.Millisecond) }, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.emit()
			if got := buf.String(); !strings.Contains(got, tt.want) {
				t.Errorf("log %q missing %q", got, tt.want)
			}
		})
	}
}
