package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/log"
)

const sseKeepalive = 25 * time.Second

// sseSession is a one-way session: the client names an organization in the
// query string and receives its updates as SSE events. Frames are queued
// and written by the handler goroutine.
type sseSession struct {
	id     string
	sendq  chan notify.Frame
	filter celFilter
}

func (s *sseSession) ID() string { return s.id }

// Send queues a frame, applying the optional filter to status updates.
// Acks always pass through.
func (s *sseSession) Send(f notify.Frame) error {
	if f.Event == notify.EventStatusUpdate {
		env, ok := f.Data.(notify.Envelope)
		if ok && !s.filter.Eval(env) {
			return nil
		}
	}
	select {
	case s.sendq <- f:
		return nil
	default:
		return errQueueFull
	}
}

func writeSSE(w http.ResponseWriter, f notify.Frame) error {
	b, err := json.Marshal(f.Data)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + f.Event + "\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}

// handleStream subscribes the caller to one organization and streams its
// updates until the client goes away. An optional CEL expression in the
// filter parameter narrows which status updates are delivered.
func (c *RealtimeController) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	orgID := queryInt64(r, "org_id")
	if orgID <= 0 {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	filter, err := newCELFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter expression")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s := &sseSession{id: uuid.NewString(), sendq: make(chan notify.Frame, c.sendBuf), filter: filter}
	c.mgr.Connect(s)
	defer c.mgr.Disconnect(s)
	if err := c.mgr.Subscribe(s, notify.TenantID(orgID)); err != nil {
		// The error frame is already queued; drain what we have and stop.
		c.logger.Debug("stream subscribe rejected", log.Int64("org_id", orgID), log.Err(err))
	}

	ticker := time.NewTicker(sseKeepalive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case f := <-s.sendq:
			if err := writeSSE(w, f); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
