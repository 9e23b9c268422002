package statussvc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	cfgpkg "github.com/ar0085/status-page/internal/config"
	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/internal/runtime"
	"github.com/ar0085/status-page/internal/tenant"
	"github.com/ar0085/status-page/pkg/log"
)

type capturePub struct {
	mu   sync.Mutex
	envs []notify.Envelope
}

func (p *capturePub) Publish(_ context.Context, env notify.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs = append(p.envs, env)
	return nil
}

func (p *capturePub) all() []notify.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Envelope(nil), p.envs...)
}

func (p *capturePub) last(t *testing.T) notify.Envelope {
	t.Helper()
	envs := p.all()
	if len(envs) == 0 {
		t.Fatalf("no envelopes published")
	}
	return envs[len(envs)-1]
}

func managerForTest(t *testing.T) (*Manager, *capturePub, tenant.Org) {
	t.Helper()
	pub := &capturePub{}
	m, org := managerWithPublisher(t, pub)
	return m, pub, org
}

func managerWithPublisher(t *testing.T, pub notify.Publisher) (*Manager, tenant.Org) {
	t.Helper()
	cfg := cfgpkg.Default()
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	orgs, err := tenant.NewStore(rt.DB(), cfg.SlugRegex, 0)
	if err != nil {
		t.Fatalf("tenant store: %v", err)
	}
	org, err := orgs.Create(context.Background(), "Acme", "")
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	logger := log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewNullOutput()))
	return New(rt, orgs, pub, logger), org
}

func TestServiceLifecyclePublishes(t *testing.T) {
	m, pub, org := managerForTest(t)
	ctx := context.Background()

	svc, err := m.CreateService(ctx, org.ID, "API", "public api", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if svc.Status != StatusOperational {
		t.Fatalf("default status: %q", svc.Status)
	}
	env := pub.last(t)
	if env.Kind != notify.KindServiceUpdate || env.Tenant != notify.TenantID(org.ID) {
		t.Fatalf("create envelope: %+v", env)
	}
	if got := env.Payload.(notify.ServicePayload); got.Action != notify.ActionCreated {
		t.Fatalf("create action: %q", got.Action)
	}

	status := StatusDegraded
	svc, err = m.UpdateService(ctx, org.ID, svc.ID, ServicePatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	p := pub.last(t).Payload.(notify.ServicePayload)
	if p.Status != StatusDegraded || p.Action != notify.ActionUpdated {
		t.Fatalf("update payload: %+v", p)
	}

	if err := m.DeleteService(ctx, org.ID, svc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := pub.last(t).Payload.(notify.ServicePayload); got.Action != notify.ActionDeleted {
		t.Fatalf("delete action: %q", got.Action)
	}
	if _, err := m.GetService(org.ID, svc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestServiceValidation(t *testing.T) {
	m, _, org := managerForTest(t)
	ctx := context.Background()

	if _, err := m.CreateService(ctx, org.ID, "", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: %v", err)
	}
	if _, err := m.CreateService(ctx, org.ID, "API", "", "offline"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status: %v", err)
	}
	if _, err := m.CreateService(ctx, 999, "API", "", ""); !errors.Is(err, tenant.ErrNotFound) {
		t.Fatalf("missing org: %v", err)
	}
}

func TestIncidentLifecycle(t *testing.T) {
	m, pub, org := managerForTest(t)
	ctx := context.Background()

	svc, err := m.CreateService(ctx, org.ID, "DB", "", "")
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	inc, err := m.CreateIncident(ctx, org.ID, "Database outage", "connections failing", []int64{svc.ID})
	if err != nil {
		t.Fatalf("create incident: %v", err)
	}
	if inc.Status != IncidentOpen {
		t.Fatalf("new incident status: %q", inc.Status)
	}
	env := pub.last(t)
	if env.Kind != notify.KindIncidentCreated {
		t.Fatalf("create kind: %q", env.Kind)
	}
	ip := env.Payload.(notify.IncidentPayload)
	if len(ip.Services) != 1 || ip.Services[0].Name != "DB" {
		t.Fatalf("embedded services: %+v", ip.Services)
	}

	inc, err = m.AddIncidentNote(ctx, org.ID, inc.ID, "investigating")
	if err != nil {
		t.Fatalf("note: %v", err)
	}
	if len(inc.Updates) != 1 || inc.Updates[0].Text != "investigating" {
		t.Fatalf("updates: %+v", inc.Updates)
	}
	if got := pub.last(t).Payload.(notify.IncidentPayload); len(got.Updates) != 1 {
		t.Fatalf("note payload: %+v", got)
	}

	status := IncidentResolved
	inc, err = m.UpdateIncident(ctx, org.ID, inc.ID, IncidentPatch{Status: &status})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if inc.ResolvedAtMs == 0 {
		t.Fatalf("resolved timestamp not set")
	}
	if got := pub.last(t); got.Kind != notify.KindIncidentUpdate {
		t.Fatalf("resolve kind: %q", got.Kind)
	}

	if _, err := m.CreateIncident(ctx, org.ID, "Ghost", "", []int64{777}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown service id: %v", err)
	}
}

func TestMaintenanceTransitions(t *testing.T) {
	m, pub, org := managerForTest(t)
	ctx := context.Background()

	mnt, err := m.CreateMaintenance(ctx, org.ID, "DB upgrade", "", nil, 1000, 2000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if mnt.Status != MaintenanceScheduled {
		t.Fatalf("initial status: %q", mnt.Status)
	}
	if got := pub.last(t); got.Kind != notify.KindMaintenanceCreated {
		t.Fatalf("create kind: %q", got.Kind)
	}

	inProgress := MaintenanceInProgress
	mnt, err = m.UpdateMaintenance(ctx, org.ID, mnt.ID, MaintenancePatch{Status: &inProgress})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if mnt.ActualStartMs == 0 {
		t.Fatalf("actual start not stamped")
	}

	completed := MaintenanceCompleted
	mnt, err = m.UpdateMaintenance(ctx, org.ID, mnt.ID, MaintenancePatch{Status: &completed})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if mnt.ActualEndMs == 0 {
		t.Fatalf("actual end not stamped")
	}

	if _, err := m.CreateMaintenance(ctx, org.ID, "Bad window", "", nil, 2000, 1000); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted window: %v", err)
	}
}

func TestStatusPageAggregation(t *testing.T) {
	m, _, org := managerForTest(t)
	ctx := context.Background()

	api, _ := m.CreateService(ctx, org.ID, "API", "", "")
	db, _ := m.CreateService(ctx, org.ID, "DB", "", "")

	outage := StatusMajorOutage
	if _, err := m.UpdateService(ctx, org.ID, db.ID, ServicePatch{Status: &outage}); err != nil {
		t.Fatalf("update: %v", err)
	}
	open, err := m.CreateIncident(ctx, org.ID, "DB down", "", []int64{db.ID})
	if err != nil {
		t.Fatalf("incident: %v", err)
	}
	resolvedInc, err := m.CreateIncident(ctx, org.ID, "Old problem", "", nil)
	if err != nil {
		t.Fatalf("incident: %v", err)
	}
	resolved := IncidentResolved
	if _, err := m.UpdateIncident(ctx, org.ID, resolvedInc.ID, IncidentPatch{Status: &resolved}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := m.CreateMaintenance(ctx, org.ID, "Upgrade", "", []int64{api.ID}, 1000, 2000); err != nil {
		t.Fatalf("maintenance: %v", err)
	}

	page, err := m.StatusPage(org.Slug)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.OverallStatus != StatusMajorOutage {
		t.Fatalf("overall: %q", page.OverallStatus)
	}
	if len(page.Services) != 2 {
		t.Fatalf("services: %d", len(page.Services))
	}
	if len(page.OpenIncidents) != 1 || page.OpenIncidents[0].ID != open.ID {
		t.Fatalf("open incidents: %+v", page.OpenIncidents)
	}
	if len(page.Maintenance) != 1 {
		t.Fatalf("maintenance: %+v", page.Maintenance)
	}

	if _, err := m.StatusPage("missing"); !errors.Is(err, tenant.ErrNotFound) {
		t.Fatalf("missing slug: %v", err)
	}
}

func TestPerOrgIDSequencesAreIndependent(t *testing.T) {
	m, _, org := managerForTest(t)
	ctx := context.Background()

	org2, err := m.orgs.Create(ctx, "Beta", "")
	if err != nil {
		t.Fatalf("org2: %v", err)
	}
	s1, _ := m.CreateService(ctx, org.ID, "A", "", "")
	s2, err := m.CreateService(ctx, org2.ID, "B", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s1.ID != 1 || s2.ID != 1 {
		t.Fatalf("ids not per-org: %d %d", s1.ID, s2.ID)
	}
	list1, _ := m.ListServices(org.ID)
	list2, _ := m.ListServices(org2.ID)
	if len(list1) != 1 || len(list2) != 1 {
		t.Fatalf("org isolation broken: %d %d", len(list1), len(list2))
	}
}

func TestConcurrentCreatesAllocateDistinctIDs(t *testing.T) {
	m, _, org := managerForTest(t)
	ctx := context.Background()

	const workers = 16
	const perWorker = 8
	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				svc, err := m.CreateService(ctx, org.ID, fmt.Sprintf("svc-%d-%d", w, i), "", "")
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				ids <- svc.ID
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("service id %d allocated twice", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct ids, got %d", workers*perWorker, len(seen))
	}
	list, err := m.ListServices(org.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != workers*perWorker {
		t.Fatalf("expected %d stored services, got %d", workers*perWorker, len(list))
	}
}

type failPub struct{ err error }

func (p failPub) Publish(context.Context, notify.Envelope) error { return p.err }

func TestPublishFailureSurfaces(t *testing.T) {
	m, org := managerWithPublisher(t, failPub{err: notify.ErrInvalidEnvelope})
	ctx := context.Background()

	_, err := m.CreateService(ctx, org.ID, "API", "", "")
	if !errors.Is(err, notify.ErrInvalidEnvelope) {
		t.Fatalf("create should surface publish error, got %v", err)
	}
	// The committed write stays; only the announcement failed.
	list, lerr := m.ListServices(org.ID)
	if lerr != nil {
		t.Fatalf("list: %v", lerr)
	}
	if len(list) != 1 {
		t.Fatalf("record should persist despite publish failure, got %d", len(list))
	}

	if err := m.DeleteService(ctx, org.ID, list[0].ID); !errors.Is(err, notify.ErrInvalidEnvelope) {
		t.Fatalf("delete should surface publish error, got %v", err)
	}
}
