package controllers

import (
	"net/http"

	statussvc "github.com/ar0085/status-page/internal/services/status"
)

// PublicController serves the unauthenticated status page view.
type PublicController struct {
	catalog *statussvc.Manager
}

func NewPublicController(catalog *statussvc.Manager) *PublicController {
	return &PublicController{catalog: catalog}
}

// RegisterRoutes registers public routes with the given mux.
func (c *PublicController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/public/status", c.handleStatus)
}

// handleStatus returns the aggregated page for the organization behind the
// slug: services with their statuses, open incidents, and pending
// maintenance.
func (c *PublicController) handleStatus(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}
	page, err := c.catalog.StatusPage(slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, page)
}
