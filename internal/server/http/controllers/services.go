package controllers

import (
	"encoding/json"
	"net/http"

	statussvc "github.com/ar0085/status-page/internal/services/status"
)

// ServicesController manages the services on an organization's page.
type ServicesController struct {
	catalog *statussvc.Manager
}

func NewServicesController(catalog *statussvc.Manager) *ServicesController {
	return &ServicesController{catalog: catalog}
}

// RegisterRoutes registers service routes with the given mux.
func (c *ServicesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/services/create", c.handleCreate)
	mux.HandleFunc("/v1/services/update", c.handleUpdate)
	mux.HandleFunc("/v1/services/delete", c.handleDelete)
	mux.HandleFunc("/v1/services/list", c.handleList)
}

func (c *ServicesController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req serviceCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	svc, err := c.catalog.CreateService(r.Context(), req.OrgID, req.Name, req.Description, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCreated(w, svc)
}

func (c *ServicesController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req serviceUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	svc, err := c.catalog.UpdateService(r.Context(), req.OrgID, req.ID, statussvc.ServicePatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, svc)
}

func (c *ServicesController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.catalog.DeleteService(r.Context(), req.OrgID, req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *ServicesController) handleList(w http.ResponseWriter, r *http.Request) {
	orgID := queryInt64(r, "org_id")
	if orgID <= 0 {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	services, err := c.catalog.ListServices(orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if services == nil {
		services = []statussvc.Service{}
	}
	writeJSON(w, map[string]any{"services": services})
}
