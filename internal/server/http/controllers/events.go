package controllers

import (
	"net/http"
	"strconv"

	"github.com/ar0085/status-page/internal/history"
	"github.com/ar0085/status-page/internal/notify"
)

// EventsController serves the retained notification history so clients can
// backfill updates missed while disconnected.
type EventsController struct {
	store *history.Store
}

func NewEventsController(store *history.Store) *EventsController {
	return &EventsController{store: store}
}

// RegisterRoutes registers event history routes with the given mux. When the
// history store is disabled the routes are left unregistered.
func (c *EventsController) RegisterRoutes(mux *http.ServeMux) {
	if c.store == nil {
		return
	}
	mux.HandleFunc("/v1/events/list", c.handleList)
}

func (c *EventsController) handleList(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(r.URL.Query().Get("org_id"), 10, 64)
	if err != nil || !notify.TenantID(orgID).Valid() {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}
	events, err := c.store.Recent(notify.TenantID(orgID), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if events == nil {
		events = []notify.Envelope{}
	}
	writeJSON(w, map[string]any{"events": events})
}
