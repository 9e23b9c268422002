package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/ar0085/status-page/internal/tenant"
)

// OrgsController manages organizations.
type OrgsController struct {
	orgs *tenant.Store
}

func NewOrgsController(orgs *tenant.Store) *OrgsController {
	return &OrgsController{orgs: orgs}
}

// RegisterRoutes registers organization routes with the given mux.
func (c *OrgsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/orgs/create", c.handleCreate)
	mux.HandleFunc("/v1/orgs/get", c.handleGet)
	mux.HandleFunc("/v1/orgs/list", c.handleList)
}

// handleCreate creates an organization. The slug is derived from the name
// when omitted.
func (c *OrgsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req orgCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	org, err := c.orgs.Create(r.Context(), req.Name, req.Slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCreated(w, org)
}

// handleGet resolves an organization by id or slug.
func (c *OrgsController) handleGet(w http.ResponseWriter, r *http.Request) {
	var (
		org tenant.Org
		err error
	)
	if slug := r.URL.Query().Get("slug"); slug != "" {
		org, err = c.orgs.BySlug(slug)
	} else if id := queryInt64(r, "id"); id > 0 {
		org, err = c.orgs.ByID(id)
	} else {
		writeError(w, http.StatusBadRequest, "id or slug is required")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, org)
}

// handleList lists all organizations.
func (c *OrgsController) handleList(w http.ResponseWriter, r *http.Request) {
	orgs, err := c.orgs.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orgs == nil {
		orgs = []tenant.Org{}
	}
	writeJSON(w, map[string]any{"organizations": orgs})
}
