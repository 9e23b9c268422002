package statussvc

// StatusPage aggregates the public view for the organization behind the
// slug: services, open incidents, and maintenance that is scheduled or in
// progress. The overall status is the worst status among the services.
func (m *Manager) StatusPage(slug string) (Page, error) {
	org, err := m.orgs.BySlug(slug)
	if err != nil {
		return Page{}, err
	}
	services, err := m.ListServices(org.ID)
	if err != nil {
		return Page{}, err
	}
	incidents, err := m.ListIncidents(org.ID)
	if err != nil {
		return Page{}, err
	}
	maint, err := m.ListMaintenance(org.ID)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		OrgID:         org.ID,
		OrgName:       org.Name,
		Slug:          org.Slug,
		OverallStatus: StatusOperational,
		Services:      services,
		OpenIncidents: []Incident{},
		Maintenance:   []Maintenance{},
	}
	for _, svc := range services {
		if serviceStatusRank[svc.Status] > serviceStatusRank[page.OverallStatus] {
			page.OverallStatus = svc.Status
		}
	}
	for _, inc := range incidents {
		if inc.Status == IncidentOpen {
			page.OpenIncidents = append(page.OpenIncidents, inc)
		}
	}
	for _, mnt := range maint {
		if mnt.Status != MaintenanceCompleted {
			page.Maintenance = append(page.Maintenance, mnt)
		}
	}
	return page, nil
}
