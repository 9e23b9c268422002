package statussvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ar0085/status-page/internal/notify"
)

func (m *Manager) incidentPayload(inc Incident, action notify.Action) notify.IncidentPayload {
	notes := make([]notify.IncidentNote, 0, len(inc.Updates))
	for _, n := range inc.Updates {
		notes = append(notes, notify.IncidentNote{ID: n.ID, Text: n.Text, CreatedAtMs: n.CreatedAtMs})
	}
	return notify.IncidentPayload{
		ID:          inc.ID,
		Title:       inc.Title,
		Description: inc.Description,
		Status:      inc.Status,
		Action:      action,
		Services:    m.serviceRefs(inc.OrgID, inc.ServiceIDs),
		Updates:     notes,
		CreatedAtMs: inc.CreatedAtMs,
		UpdatedAtMs: inc.UpdatedAtMs,
	}
}

// CreateIncident opens an incident affecting the given services.
func (m *Manager) CreateIncident(ctx context.Context, orgID int64, title, description string, serviceIDs []int64) (Incident, error) {
	if _, err := m.requireOrg(orgID); err != nil {
		return Incident{}, err
	}
	if title == "" {
		return Incident{}, fmt.Errorf("%w: incident title is required", ErrInvalidInput)
	}
	if err := m.checkServiceIDs(orgID, serviceIDs); err != nil {
		return Incident{}, err
	}
	id, err := m.nextID(kindInc, orgID)
	if err != nil {
		return Incident{}, err
	}
	now := time.Now().UnixMilli()
	inc := Incident{
		ID: id, OrgID: orgID, Title: title, Description: description,
		Status:     IncidentOpen,
		ServiceIDs: append([]int64(nil), serviceIDs...),
		Updates:    []Note{},
		CreatedAtMs: now, UpdatedAtMs: now,
	}
	if err := m.putRecord(ctx, kindInc, orgID, id, inc); err != nil {
		return Incident{}, err
	}
	if err := m.publish(ctx, notify.KindIncidentCreated, orgID, m.incidentPayload(inc, notify.ActionCreated)); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

// IncidentPatch carries the optional fields of an incident update.
type IncidentPatch struct {
	Title       *string
	Description *string
	Status      *string
	ServiceIDs  *[]int64
}

// UpdateIncident applies a patch. Moving to resolved stamps ResolvedAtMs;
// reopening clears it.
func (m *Manager) UpdateIncident(ctx context.Context, orgID, id int64, patch IncidentPatch) (Incident, error) {
	var inc Incident
	if err := m.getRecord(kindInc, orgID, id, &inc); err != nil {
		return Incident{}, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Incident{}, fmt.Errorf("%w: incident title is required", ErrInvalidInput)
		}
		inc.Title = *patch.Title
	}
	if patch.Description != nil {
		inc.Description = *patch.Description
	}
	if patch.ServiceIDs != nil {
		if err := m.checkServiceIDs(orgID, *patch.ServiceIDs); err != nil {
			return Incident{}, err
		}
		inc.ServiceIDs = append([]int64(nil), (*patch.ServiceIDs)...)
	}
	now := time.Now().UnixMilli()
	if patch.Status != nil {
		if !validIncidentStatus(*patch.Status) {
			return Incident{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		switch {
		case *patch.Status == IncidentResolved && inc.Status != IncidentResolved:
			inc.ResolvedAtMs = now
		case *patch.Status == IncidentOpen:
			inc.ResolvedAtMs = 0
		}
		inc.Status = *patch.Status
	}
	inc.UpdatedAtMs = now
	if err := m.putRecord(ctx, kindInc, orgID, id, inc); err != nil {
		return Incident{}, err
	}
	if err := m.publish(ctx, notify.KindIncidentUpdate, orgID, m.incidentPayload(inc, notify.ActionUpdated)); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

// AddIncidentNote appends a timeline note and announces the incident.
func (m *Manager) AddIncidentNote(ctx context.Context, orgID, id int64, text string) (Incident, error) {
	if text == "" {
		return Incident{}, fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	var inc Incident
	if err := m.getRecord(kindInc, orgID, id, &inc); err != nil {
		return Incident{}, err
	}
	now := time.Now().UnixMilli()
	inc.Updates = append(inc.Updates, Note{ID: int64(len(inc.Updates) + 1), Text: text, CreatedAtMs: now})
	inc.UpdatedAtMs = now
	if err := m.putRecord(ctx, kindInc, orgID, id, inc); err != nil {
		return Incident{}, err
	}
	if err := m.publish(ctx, notify.KindIncidentUpdate, orgID, m.incidentPayload(inc, notify.ActionUpdated)); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

// DeleteIncident removes the incident and announces the deletion.
func (m *Manager) DeleteIncident(ctx context.Context, orgID, id int64) error {
	var inc Incident
	if err := m.getRecord(kindInc, orgID, id, &inc); err != nil {
		return err
	}
	if err := m.deleteRecord(kindInc, orgID, id); err != nil {
		return err
	}
	return m.publish(ctx, notify.KindIncidentUpdate, orgID, m.incidentPayload(inc, notify.ActionDeleted))
}

// GetIncident loads one incident.
func (m *Manager) GetIncident(orgID, id int64) (Incident, error) {
	var inc Incident
	err := m.getRecord(kindInc, orgID, id, &inc)
	return inc, err
}

// ListIncidents returns the organization's incidents in id order.
func (m *Manager) ListIncidents(orgID int64) ([]Incident, error) {
	var out []Incident
	err := m.rt.DB().ScanPrefix(recordPrefix(kindInc, orgID), func(_, value []byte) error {
		var inc Incident
		if err := json.Unmarshal(value, &inc); err != nil {
			return err
		}
		out = append(out, inc)
		return nil
	})
	return out, err
}
