package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. Failed storage calls and
// 5xx responses are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger registers LogHooks for all categories.
func UseLogger(l *log.Logger) {
	h := LogHooks{Logger: l.WithPrefix("hooks")}
	SetLayoutHooks(h)
	SetGestureHooks(h)
	SetStorageHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnDerive(mode string, nodeCount int, d time.Duration) {
	h.Logger.Debug("layout", "mode", mode, "nodes", nodeCount, "took", d)
}

func (h LogHooks) OnSelect(nodeID string) { h.Logger.Debug("select", "id", nodeID) }
func (h LogHooks) OnDrill(nodeID string)  { h.Logger.Debug("drill", "id", nodeID) }

func (h LogHooks) OnCommit(nodeID, gesture string, d time.Duration) {
	h.Logger.Debug("commit", "id", nodeID, "gesture", gesture, "took", d)
}

func (h LogHooks) OnLoad(_ context.Context, backend string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "backend", backend, "took", d, "err", err)
		return
	}
	h.Logger.Debug("load", "backend", backend, "took", d)
}

func (h LogHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("save failed", "backend", backend, "nodes", size, "took", d, "err", err)
		return
	}
	h.Logger.Debug("save", "backend", backend, "nodes", size, "took", d)
}

func (h LogHooks) OnRequest(context.Context, string, string) {}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("request", "method", method, "path", path, "status", status, "took", d)
		return
	}
	h.Logger.Debug("request", "method", method, "path", path, "status", status, "took", d)
}
