package controllers

import (
	"encoding/json"
	"net/http"

	statussvc "github.com/ar0085/status-page/internal/services/status"
)

// MaintenanceController manages scheduled maintenance windows.
type MaintenanceController struct {
	catalog *statussvc.Manager
}

func NewMaintenanceController(catalog *statussvc.Manager) *MaintenanceController {
	return &MaintenanceController{catalog: catalog}
}

// RegisterRoutes registers maintenance routes with the given mux.
func (c *MaintenanceController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/maintenance/create", c.handleCreate)
	mux.HandleFunc("/v1/maintenance/update", c.handleUpdate)
	mux.HandleFunc("/v1/maintenance/delete", c.handleDelete)
	mux.HandleFunc("/v1/maintenance/list", c.handleList)
}

func (c *MaintenanceController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req maintenanceCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	mnt, err := c.catalog.CreateMaintenance(r.Context(), req.OrgID, req.Title, req.Description, req.ServiceIDs, req.ScheduledStartMs, req.ScheduledEndMs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCreated(w, mnt)
}

func (c *MaintenanceController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req maintenanceUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	mnt, err := c.catalog.UpdateMaintenance(r.Context(), req.OrgID, req.ID, statussvc.MaintenancePatch{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		ServiceIDs:       req.ServiceIDs,
		ScheduledStartMs: req.ScheduledStartMs,
		ScheduledEndMs:   req.ScheduledEndMs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, mnt)
}

func (c *MaintenanceController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.catalog.DeleteMaintenance(r.Context(), req.OrgID, req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *MaintenanceController) handleList(w http.ResponseWriter, r *http.Request) {
	orgID := queryInt64(r, "org_id")
	if orgID <= 0 {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	windows, err := c.catalog.ListMaintenance(orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if windows == nil {
		windows = []statussvc.Maintenance{}
	}
	writeJSON(w, map[string]any{"maintenance": windows})
}
