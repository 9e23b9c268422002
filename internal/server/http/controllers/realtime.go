package controllers

import (
	"net/http"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/log"
)

// RealtimeController owns the live transports: the websocket endpoint for
// interactive clients and the SSE stream for one-way consumers.
type RealtimeController struct {
	mgr     *notify.Manager
	logger  log.Logger
	sendBuf int
}

func NewRealtimeController(mgr *notify.Manager, logger log.Logger, sendBuf int) *RealtimeController {
	if sendBuf <= 0 {
		sendBuf = 64
	}
	return &RealtimeController{mgr: mgr, logger: logger.WithComponent("realtime"), sendBuf: sendBuf}
}

// RegisterRoutes registers realtime routes with the given mux.
func (c *RealtimeController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/ws", c.handleWebsocket)
	mux.HandleFunc("/v1/status/stream", c.handleStream)
}
