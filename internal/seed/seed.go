// Package seed loads a demo organization with services, an incident, and a
// maintenance window so a fresh install has something to look at.
package seed

import (
	"context"
	"errors"
	"time"

	statussvc "github.com/ar0085/status-page/internal/services/status"
	"github.com/ar0085/status-page/internal/tenant"
)

// Demo creates the demo organization. Running twice is an error because
// the slug is already taken; callers treat that as "already seeded".
func Demo(ctx context.Context, orgs *tenant.Store, catalog *statussvc.Manager) (tenant.Org, error) {
	org, err := orgs.Create(ctx, "Demo Org", "demo")
	if err != nil {
		return tenant.Org{}, err
	}

	api, err := catalog.CreateService(ctx, org.ID, "API", "Public REST API", "")
	if err != nil {
		return org, err
	}
	db, err := catalog.CreateService(ctx, org.ID, "Database", "Primary datastore", "")
	if err != nil {
		return org, err
	}
	if _, err := catalog.CreateService(ctx, org.ID, "Website", "Marketing site", ""); err != nil {
		return org, err
	}

	degraded := statussvc.StatusDegraded
	if _, err := catalog.UpdateService(ctx, org.ID, api.ID, statussvc.ServicePatch{Status: &degraded}); err != nil {
		return org, err
	}

	inc, err := catalog.CreateIncident(ctx, org.ID, "Elevated API latency", "p99 latency above SLO", []int64{api.ID})
	if err != nil {
		return org, err
	}
	if _, err := catalog.AddIncidentNote(ctx, org.ID, inc.ID, "Investigating a slow downstream dependency."); err != nil {
		return org, err
	}

	start := time.Now().Add(24 * time.Hour).UnixMilli()
	end := time.Now().Add(26 * time.Hour).UnixMilli()
	if _, err := catalog.CreateMaintenance(ctx, org.ID, "Database upgrade", "Version bump with failover", []int64{db.ID}, start, end); err != nil {
		return org, err
	}
	return org, nil
}

// AlreadySeeded reports whether err means the demo data exists.
func AlreadySeeded(err error) bool {
	return errors.Is(err, tenant.ErrSlugTaken)
}
