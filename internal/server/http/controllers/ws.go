package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
	wsMaxMsgSize = 4 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP layer already answers CORS; the page is public.
	CheckOrigin: func(*http.Request) bool { return true },
}

var (
	errSessionClosed = errors.New("session closed")
	errQueueFull     = errors.New("send queue full")
)

// wsSession adapts one websocket connection to the notify session
// contract. A single writer goroutine drains the buffered queue, so queued
// frames go out in enqueue order.
type wsSession struct {
	id    string
	conn  *websocket.Conn
	sendq chan notify.Frame

	closeOnce sync.Once
	closed    chan struct{}
}

func newWSSession(conn *websocket.Conn, buf int) *wsSession {
	return &wsSession{
		id:     uuid.NewString(),
		conn:   conn,
		sendq:  make(chan notify.Frame, buf),
		closed: make(chan struct{}),
	}
}

func (s *wsSession) ID() string { return s.id }

// Send enqueues without blocking. A full queue means the client is not
// keeping up; the frame is dropped and the dispatcher logs it.
func (s *wsSession) Send(f notify.Frame) error {
	select {
	case <-s.closed:
		return errSessionClosed
	default:
	}
	select {
	case s.sendq <- f:
		return nil
	default:
		return errQueueFull
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

func (s *wsSession) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case f := <-s.sendq:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(f); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.closed:
			return
		}
	}
}

// clientMsg is the inbound wire shape: an event name plus its payload.
type clientMsg struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *RealtimeController) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", log.Err(err))
		return
	}
	s := newWSSession(conn, c.sendBuf)
	defer func() {
		c.mgr.Disconnect(s)
		s.close()
	}()

	c.mgr.Connect(s)
	go s.writePump()

	conn.SetReadLimit(wsMaxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", log.Str("session", s.id), log.Err(err))
			}
			return
		}
		var msg clientMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = s.Send(notify.Frame{Event: notify.EventError, Data: notify.ErrorAck{Message: "malformed message"}})
			continue
		}
		c.mgr.HandleEvent(s, msg.Event, msg.Data)
	}
}
