package statussvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ar0085/status-page/internal/notify"
)

func (m *Manager) maintenancePayload(mnt Maintenance, action notify.Action) notify.MaintenancePayload {
	return notify.MaintenancePayload{
		ID:               mnt.ID,
		Title:            mnt.Title,
		Description:      mnt.Description,
		Status:           mnt.Status,
		Action:           action,
		ScheduledStartMs: mnt.ScheduledStartMs,
		ScheduledEndMs:   mnt.ScheduledEndMs,
		ActualStartMs:    mnt.ActualStartMs,
		ActualEndMs:      mnt.ActualEndMs,
		Services:         m.serviceRefs(mnt.OrgID, mnt.ServiceIDs),
		CreatedAtMs:      mnt.CreatedAtMs,
		UpdatedAtMs:      mnt.UpdatedAtMs,
	}
}

// CreateMaintenance schedules a maintenance window.
func (m *Manager) CreateMaintenance(ctx context.Context, orgID int64, title, description string, serviceIDs []int64, scheduledStartMs, scheduledEndMs int64) (Maintenance, error) {
	if _, err := m.requireOrg(orgID); err != nil {
		return Maintenance{}, err
	}
	if title == "" {
		return Maintenance{}, fmt.Errorf("%w: maintenance title is required", ErrInvalidInput)
	}
	if scheduledStartMs <= 0 || scheduledEndMs <= scheduledStartMs {
		return Maintenance{}, fmt.Errorf("%w: scheduled window must end after it starts", ErrInvalidInput)
	}
	if err := m.checkServiceIDs(orgID, serviceIDs); err != nil {
		return Maintenance{}, err
	}
	id, err := m.nextID(kindMnt, orgID)
	if err != nil {
		return Maintenance{}, err
	}
	now := time.Now().UnixMilli()
	mnt := Maintenance{
		ID: id, OrgID: orgID, Title: title, Description: description,
		Status:           MaintenanceScheduled,
		ServiceIDs:       append([]int64(nil), serviceIDs...),
		ScheduledStartMs: scheduledStartMs,
		ScheduledEndMs:   scheduledEndMs,
		CreatedAtMs:      now, UpdatedAtMs: now,
	}
	if err := m.putRecord(ctx, kindMnt, orgID, id, mnt); err != nil {
		return Maintenance{}, err
	}
	if err := m.publish(ctx, notify.KindMaintenanceCreated, orgID, m.maintenancePayload(mnt, notify.ActionCreated)); err != nil {
		return Maintenance{}, err
	}
	return mnt, nil
}

// MaintenancePatch carries the optional fields of a maintenance update.
type MaintenancePatch struct {
	Title            *string
	Description      *string
	Status           *string
	ServiceIDs       *[]int64
	ScheduledStartMs *int64
	ScheduledEndMs   *int64
}

// UpdateMaintenance applies a patch. Entering in_progress stamps the
// actual start, entering completed stamps the actual end.
func (m *Manager) UpdateMaintenance(ctx context.Context, orgID, id int64, patch MaintenancePatch) (Maintenance, error) {
	var mnt Maintenance
	if err := m.getRecord(kindMnt, orgID, id, &mnt); err != nil {
		return Maintenance{}, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Maintenance{}, fmt.Errorf("%w: maintenance title is required", ErrInvalidInput)
		}
		mnt.Title = *patch.Title
	}
	if patch.Description != nil {
		mnt.Description = *patch.Description
	}
	if patch.ServiceIDs != nil {
		if err := m.checkServiceIDs(orgID, *patch.ServiceIDs); err != nil {
			return Maintenance{}, err
		}
		mnt.ServiceIDs = append([]int64(nil), (*patch.ServiceIDs)...)
	}
	if patch.ScheduledStartMs != nil {
		mnt.ScheduledStartMs = *patch.ScheduledStartMs
	}
	if patch.ScheduledEndMs != nil {
		mnt.ScheduledEndMs = *patch.ScheduledEndMs
	}
	if mnt.ScheduledStartMs <= 0 || mnt.ScheduledEndMs <= mnt.ScheduledStartMs {
		return Maintenance{}, fmt.Errorf("%w: scheduled window must end after it starts", ErrInvalidInput)
	}
	now := time.Now().UnixMilli()
	if patch.Status != nil {
		if !validMaintenanceStatus(*patch.Status) {
			return Maintenance{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		switch {
		case *patch.Status == MaintenanceInProgress && mnt.Status == MaintenanceScheduled:
			mnt.ActualStartMs = now
		case *patch.Status == MaintenanceCompleted && mnt.Status != MaintenanceCompleted:
			mnt.ActualEndMs = now
		}
		mnt.Status = *patch.Status
	}
	mnt.UpdatedAtMs = now
	if err := m.putRecord(ctx, kindMnt, orgID, id, mnt); err != nil {
		return Maintenance{}, err
	}
	if err := m.publish(ctx, notify.KindMaintenanceUpdate, orgID, m.maintenancePayload(mnt, notify.ActionUpdated)); err != nil {
		return Maintenance{}, err
	}
	return mnt, nil
}

// DeleteMaintenance removes the window and announces the deletion.
func (m *Manager) DeleteMaintenance(ctx context.Context, orgID, id int64) error {
	var mnt Maintenance
	if err := m.getRecord(kindMnt, orgID, id, &mnt); err != nil {
		return err
	}
	if err := m.deleteRecord(kindMnt, orgID, id); err != nil {
		return err
	}
	return m.publish(ctx, notify.KindMaintenanceUpdate, orgID, m.maintenancePayload(mnt, notify.ActionDeleted))
}

// GetMaintenance loads one maintenance window.
func (m *Manager) GetMaintenance(orgID, id int64) (Maintenance, error) {
	var mnt Maintenance
	err := m.getRecord(kindMnt, orgID, id, &mnt)
	return mnt, err
}

// ListMaintenance returns the organization's maintenance windows in id
// order.
func (m *Manager) ListMaintenance(orgID int64) ([]Maintenance, error) {
	var out []Maintenance
	err := m.rt.DB().ScanPrefix(recordPrefix(kindMnt, orgID), func(_, value []byte) error {
		var mnt Maintenance
		if err := json.Unmarshal(value, &mnt); err != nil {
			return err
		}
		out = append(out, mnt)
		return nil
	})
	return out, err
}
