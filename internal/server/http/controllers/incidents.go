package controllers

import (
	"encoding/json"
	"net/http"

	statussvc "github.com/ar0085/status-page/internal/services/status"
)

// IncidentsController manages incidents.
type IncidentsController struct {
	catalog *statussvc.Manager
}

func NewIncidentsController(catalog *statussvc.Manager) *IncidentsController {
	return &IncidentsController{catalog: catalog}
}

// RegisterRoutes registers incident routes with the given mux.
func (c *IncidentsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/incidents/create", c.handleCreate)
	mux.HandleFunc("/v1/incidents/update", c.handleUpdate)
	mux.HandleFunc("/v1/incidents/note", c.handleNote)
	mux.HandleFunc("/v1/incidents/delete", c.handleDelete)
	mux.HandleFunc("/v1/incidents/list", c.handleList)
}

func (c *IncidentsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req incidentCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	inc, err := c.catalog.CreateIncident(r.Context(), req.OrgID, req.Title, req.Description, req.ServiceIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCreated(w, inc)
}

func (c *IncidentsController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req incidentUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	inc, err := c.catalog.UpdateIncident(r.Context(), req.OrgID, req.ID, statussvc.IncidentPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ServiceIDs:  req.ServiceIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, inc)
}

func (c *IncidentsController) handleNote(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req incidentNoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	inc, err := c.catalog.AddIncidentNote(r.Context(), req.OrgID, req.ID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, inc)
}

func (c *IncidentsController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.catalog.DeleteIncident(r.Context(), req.OrgID, req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *IncidentsController) handleList(w http.ResponseWriter, r *http.Request) {
	orgID := queryInt64(r, "org_id")
	if orgID <= 0 {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	incidents, err := c.catalog.ListIncidents(orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if incidents == nil {
		incidents = []statussvc.Incident{}
	}
	writeJSON(w, map[string]any{"incidents": incidents})
}
