package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/assetcanvas/pkg/canvas"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/render/sink"
)

// WebSocket message types.
const (
	// Client -> Server
	MsgTypePointer = "pointer"
	MsgTypeWheel   = "wheel"
	MsgTypeBack    = "back"
	MsgTypeResize  = "resize"
	MsgTypeFrame   = "frame"
	MsgTypeStatus  = "status"
	MsgTypePing    = "ping"

	// Server -> Client, plus status and frame above
	MsgTypeSelect = "select"
	MsgTypeDrill  = "drill"
	MsgTypeError  = "error"
	MsgTypePong   = "pong"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsQueueSize  = 64
)

// wsInbound is a message from the client.
type wsInbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsOutbound is a message to the client.
type wsOutbound struct {
	Type      string `json:"type"`
	NodeID    string `json:"nodeId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type wsErrorPayload struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// wsSession is one connected client. Only the write pump writes to conn.
type wsSession struct {
	s       *Server
	conn    *websocket.Conn
	msgpack bool
	out     chan wsOutbound
	dirty   atomic.Bool
	done    chan struct{}
}

// handleWebSocket upgrades the request and runs the session until the
// client disconnects. With ?encoding=msgpack, outbound messages are sent
// as binary MessagePack; inbound messages are always JSON.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	sess := &wsSession{
		s:       s,
		conn:    conn,
		msgpack: r.URL.Query().Get("encoding") == "msgpack",
		out:     make(chan wsOutbound, wsQueueSize),
		done:    make(chan struct{}),
	}
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr, "msgpack", sess.msgpack)

	unsub := s.canvas.Subscribe(sess.onCanvas)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.writePump()
	}()

	sess.send(wsOutbound{Type: MsgTypeStatus, Payload: s.canvas.Status()})
	sess.send(sess.frame())
	sess.readPump(r.Context())

	unsub()
	close(sess.done)
	wg.Wait()
	conn.Close()
	s.logger.Debug("websocket disconnected", "remote", r.RemoteAddr)
}

// onCanvas forwards canvas events. Renders only mark the session dirty;
// the write pump coalesces them into frame pushes.
func (ws *wsSession) onCanvas(ev canvas.Event) {
	switch ev.Kind {
	case canvas.EventRender:
		ws.dirty.Store(true)
	case canvas.EventSelect:
		ws.send(wsOutbound{Type: MsgTypeSelect, NodeID: ev.NodeID, Payload: ev.Status})
	case canvas.EventDrill:
		ws.send(wsOutbound{Type: MsgTypeDrill, NodeID: ev.NodeID, Payload: ev.Status})
	case canvas.EventBack:
		ws.send(wsOutbound{Type: MsgTypeBack, Payload: ev.Status})
	}
}

// send queues m without blocking. A full queue drops the message; the next
// frame push carries the current state anyway.
func (ws *wsSession) send(m wsOutbound) {
	m.Timestamp = time.Now().UnixMilli()
	select {
	case <-ws.done:
	case ws.out <- m:
	default:
		ws.s.logger.Warn("websocket queue full, dropping message", "type", m.Type)
	}
}

func (ws *wsSession) frame() wsOutbound {
	ws.dirty.Store(false)
	return wsOutbound{Type: MsgTypeFrame, Payload: sink.Flatten(ws.s.canvas.Frame())}
}

func (ws *wsSession) sendError(err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	ws.send(wsOutbound{Type: MsgTypeError, Payload: wsErrorPayload{Code: code, Message: errors.UserMessage(err)}})
}

func (ws *wsSession) readPump(ctx context.Context) {
	ws.conn.SetReadLimit(ws.s.maxBody())
	ws.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg wsInbound
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.s.logger.Debug("websocket read failed", "err", err)
			}
			return
		}
		ws.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		if err := ws.dispatch(ctx, msg); err != nil {
			ws.sendError(err)
		}
	}
}

func (ws *wsSession) dispatch(ctx context.Context, msg wsInbound) error {
	c := ws.s.canvas
	switch msg.Type {
	case MsgTypePing:
		ws.send(wsOutbound{Type: MsgTypePong})
	case MsgTypeStatus:
		ws.send(wsOutbound{Type: MsgTypeStatus, Payload: c.Status()})
	case MsgTypeFrame:
		ws.send(ws.frame())
	case MsgTypeBack:
		if !c.Back() {
			ws.send(wsOutbound{Type: MsgTypeStatus, Payload: c.Status()})
		}
	case MsgTypePointer:
		var p pointerRequest
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		_, err := ws.s.pointer(p)
		return err
	case MsgTypeWheel:
		var p wheelRequest
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.Wheel(p.DeltaY)
	case MsgTypeResize:
		var p resizeRequest
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return ws.s.resize(ctx, p)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
	return nil
}

func decodePayload(msg wsInbound, v any) error {
	if len(msg.Payload) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s message needs a payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s payload", msg.Type)
	}
	return nil
}

// writePump is the only writer on the connection. It drains the queue,
// pushes a frame at most FramePushHz times per second when the canvas has
// re-rendered, and keeps the connection alive with pings.
func (ws *wsSession) writePump() {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	var push <-chan time.Time
	if hz := ws.s.cfg.Server.FramePushHz; hz > 0 {
		t := time.NewTicker(time.Second / time.Duration(hz))
		defer t.Stop()
		push = t.C
	}

	for {
		select {
		case <-ws.done:
			ws.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return
		case m := <-ws.out:
			if err := ws.write(m); err != nil {
				ws.fail(err)
				return
			}
		case <-push:
			if !ws.dirty.Load() {
				continue
			}
			m := ws.frame()
			m.Timestamp = time.Now().UnixMilli()
			if err := ws.write(m); err != nil {
				ws.fail(err)
				return
			}
		case <-ping.C:
			ws.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ws.fail(err)
				return
			}
		}
	}
}

func (ws *wsSession) write(m wsOutbound) error {
	ws.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if !ws.msgpack {
		return ws.conn.WriteJSON(m)
	}
	data, err := sink.MarshalMsgpack(m)
	if err != nil {
		return err
	}
	return ws.conn.WriteMessage(websocket.BinaryMessage, data)
}

// fail closes the connection so the read pump returns, then waits for the
// session to finish.
func (ws *wsSession) fail(err error) {
	ws.s.logger.Debug("websocket write failed", "err", err)
	ws.conn.Close()
	<-ws.done
}
