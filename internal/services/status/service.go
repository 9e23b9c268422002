package statussvc

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/internal/runtime"
	"github.com/ar0085/status-page/internal/tenant"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
	"github.com/ar0085/status-page/pkg/log"
)

// Manager is the catalog facade shared by the HTTP controllers and the
// CLI. Mutations publish through pub after their batch commits; a publish
// error surfaces to the caller even though the write already happened, so
// clients know their update may not have reached subscribers.
type Manager struct {
	rt     *runtime.Runtime
	orgs   *tenant.Store
	pub    notify.Publisher
	logger log.Logger

	// seqMu serializes per-org sequence allocation; without it concurrent
	// creates read the same counter and overwrite each other's records.
	seqMu sync.Mutex
}

func New(rt *runtime.Runtime, orgs *tenant.Store, pub notify.Publisher, logger log.Logger) *Manager {
	return &Manager{rt: rt, orgs: orgs, pub: pub, logger: logger.WithComponent("statussvc")}
}

func (m *Manager) requireOrg(orgID int64) (tenant.Org, error) {
	org, err := m.orgs.ByID(orgID)
	if err != nil {
		return tenant.Org{}, err
	}
	return org, nil
}

func (m *Manager) nextID(kind string, orgID int64) (int64, error) {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	db := m.rt.DB()
	next := uint64(1)
	if b, err := db.Get(seqKey(kind, orgID)); err == nil && len(b) == 8 {
		next = binary.BigEndian.Uint64(b) + 1
	} else if err != nil && !pebblestore.IsNotFound(err) {
		return 0, err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], next)
	if err := db.Set(seqKey(kind, orgID), b[:]); err != nil {
		return 0, err
	}
	return int64(next), nil
}

func (m *Manager) putRecord(ctx context.Context, kind string, orgID, id int64, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	batch := m.rt.DB().NewBatch()
	_ = batch.Set(recordKey(kind, orgID, id), b, nil)
	return m.rt.DB().CommitBatch(ctx, batch)
}

func (m *Manager) getRecord(kind string, orgID, id int64, v any) error {
	b, err := m.rt.DB().Get(recordKey(kind, orgID, id))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(b, v)
}

func (m *Manager) deleteRecord(kind string, orgID, id int64) error {
	if _, err := m.rt.DB().Get(recordKey(kind, orgID, id)); err != nil {
		if pebblestore.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return m.rt.DB().Delete(recordKey(kind, orgID, id))
}

// publish builds and sends the envelope for a committed mutation. Per-session
// delivery failures are absorbed by the dispatcher; anything returned here is
// envelope- or pipeline-level and must reach the caller.
func (m *Manager) publish(ctx context.Context, kind notify.Kind, orgID int64, payload notify.Payload) error {
	env, err := notify.NewEnvelope(kind, notify.TenantID(orgID), payload)
	if err != nil {
		m.logger.Error("refusing to publish malformed envelope",
			log.Str("kind", string(kind)),
			log.Int64("tenant_id", orgID),
			log.Err(err))
		return err
	}
	if err := m.pub.Publish(ctx, env); err != nil {
		m.logger.Error("publish failed after commit",
			log.Str("kind", string(kind)),
			log.Int64("tenant_id", orgID),
			log.Err(err))
		return err
	}
	return nil
}

func servicePayload(svc Service, action notify.Action) notify.ServicePayload {
	return notify.ServicePayload{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Status:      svc.Status,
		Action:      action,
		CreatedAtMs: svc.CreatedAtMs,
		UpdatedAtMs: svc.UpdatedAtMs,
	}
}

// CreateService adds a service to the organization's page. Status defaults
// to operational.
func (m *Manager) CreateService(ctx context.Context, orgID int64, name, description, status string) (Service, error) {
	if _, err := m.requireOrg(orgID); err != nil {
		return Service{}, err
	}
	if name == "" {
		return Service{}, fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if status == "" {
		status = StatusOperational
	}
	if !validServiceStatus(status) {
		return Service{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	id, err := m.nextID(kindSvc, orgID)
	if err != nil {
		return Service{}, err
	}
	now := time.Now().UnixMilli()
	svc := Service{ID: id, OrgID: orgID, Name: name, Description: description, Status: status, CreatedAtMs: now, UpdatedAtMs: now}
	if err := m.putRecord(ctx, kindSvc, orgID, id, svc); err != nil {
		return Service{}, err
	}
	if err := m.publish(ctx, notify.KindServiceUpdate, orgID, servicePayload(svc, notify.ActionCreated)); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// ServicePatch carries the optional fields of a service update. Nil means
// leave unchanged.
type ServicePatch struct {
	Name        *string
	Description *string
	Status      *string
}

// UpdateService applies a patch and announces the new state.
func (m *Manager) UpdateService(ctx context.Context, orgID, id int64, patch ServicePatch) (Service, error) {
	var svc Service
	if err := m.getRecord(kindSvc, orgID, id, &svc); err != nil {
		return Service{}, err
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return Service{}, fmt.Errorf("%w: service name is required", ErrInvalidInput)
		}
		svc.Name = *patch.Name
	}
	if patch.Description != nil {
		svc.Description = *patch.Description
	}
	if patch.Status != nil {
		if !validServiceStatus(*patch.Status) {
			return Service{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		svc.Status = *patch.Status
	}
	svc.UpdatedAtMs = time.Now().UnixMilli()
	if err := m.putRecord(ctx, kindSvc, orgID, id, svc); err != nil {
		return Service{}, err
	}
	if err := m.publish(ctx, notify.KindServiceUpdate, orgID, servicePayload(svc, notify.ActionUpdated)); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// DeleteService removes the service and announces the deletion.
func (m *Manager) DeleteService(ctx context.Context, orgID, id int64) error {
	var svc Service
	if err := m.getRecord(kindSvc, orgID, id, &svc); err != nil {
		return err
	}
	if err := m.deleteRecord(kindSvc, orgID, id); err != nil {
		return err
	}
	return m.publish(ctx, notify.KindServiceUpdate, orgID, servicePayload(svc, notify.ActionDeleted))
}

// GetService loads one service.
func (m *Manager) GetService(orgID, id int64) (Service, error) {
	var svc Service
	err := m.getRecord(kindSvc, orgID, id, &svc)
	return svc, err
}

// ListServices returns the organization's services in id order.
func (m *Manager) ListServices(orgID int64) ([]Service, error) {
	var out []Service
	err := m.rt.DB().ScanPrefix(recordPrefix(kindSvc, orgID), func(_, value []byte) error {
		var svc Service
		if err := json.Unmarshal(value, &svc); err != nil {
			return err
		}
		out = append(out, svc)
		return nil
	})
	return out, err
}

// serviceRefs resolves ids to envelope refs, skipping ids that no longer
// exist.
func (m *Manager) serviceRefs(orgID int64, ids []int64) []notify.ServiceRef {
	refs := make([]notify.ServiceRef, 0, len(ids))
	for _, id := range ids {
		svc, err := m.GetService(orgID, id)
		if err != nil {
			continue
		}
		refs = append(refs, notify.ServiceRef{ID: svc.ID, Name: svc.Name, Status: svc.Status})
	}
	return refs
}

// checkServiceIDs verifies every referenced service exists.
func (m *Manager) checkServiceIDs(orgID int64, ids []int64) error {
	for _, id := range ids {
		if _, err := m.GetService(orgID, id); err != nil {
			return fmt.Errorf("%w: service %d", ErrInvalidInput, id)
		}
	}
	return nil
}
