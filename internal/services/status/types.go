package statussvc

import "errors"

// Service statuses, ordered from healthy to worst. The page-level status
// is the worst status of any service on the page.
const (
	StatusOperational   = "operational"
	StatusDegraded      = "degraded"
	StatusPartialOutage = "partial_outage"
	StatusMajorOutage   = "major_outage"
)

// Incident statuses.
const (
	IncidentOpen     = "open"
	IncidentResolved = "resolved"
)

// Maintenance statuses.
const (
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
)

var (
	ErrNotFound      = errors.New("status: not found")
	ErrInvalidStatus = errors.New("status: invalid status")
	ErrInvalidInput  = errors.New("status: invalid input")
)

var serviceStatusRank = map[string]int{
	StatusOperational:   0,
	StatusDegraded:      1,
	StatusPartialOutage: 2,
	StatusMajorOutage:   3,
}

func validServiceStatus(s string) bool {
	_, ok := serviceStatusRank[s]
	return ok
}

func validIncidentStatus(s string) bool {
	return s == IncidentOpen || s == IncidentResolved
}

func validMaintenanceStatus(s string) bool {
	return s == MaintenanceScheduled || s == MaintenanceInProgress || s == MaintenanceCompleted
}

// Service is one monitored component on an organization's page.
type Service struct {
	ID          int64  `json:"id"`
	OrgID       int64  `json:"org_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAtMs int64  `json:"created_at_ms"`
	UpdatedAtMs int64  `json:"updated_at_ms"`
}

// Note is one timeline entry on an incident.
type Note struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// Incident records an ongoing or resolved problem affecting services.
type Incident struct {
	ID           int64   `json:"id"`
	OrgID        int64   `json:"org_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	ServiceIDs   []int64 `json:"service_ids"`
	Updates      []Note  `json:"updates"`
	CreatedAtMs  int64   `json:"created_at_ms"`
	UpdatedAtMs  int64   `json:"updated_at_ms"`
	ResolvedAtMs int64   `json:"resolved_at_ms,omitempty"`
}

// Maintenance is a planned window of work affecting services.
type Maintenance struct {
	ID               int64   `json:"id"`
	OrgID            int64   `json:"org_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	Status           string  `json:"status"`
	ServiceIDs       []int64 `json:"service_ids"`
	ScheduledStartMs int64   `json:"scheduled_start_ms"`
	ScheduledEndMs   int64   `json:"scheduled_end_ms"`
	ActualStartMs    int64   `json:"actual_start_ms,omitempty"`
	ActualEndMs      int64   `json:"actual_end_ms,omitempty"`
	CreatedAtMs      int64   `json:"created_at_ms"`
	UpdatedAtMs      int64   `json:"updated_at_ms"`
}

// Page is the public aggregate for one organization.
type Page struct {
	OrgID         int64         `json:"org_id"`
	OrgName       string        `json:"org_name"`
	Slug          string        `json:"slug"`
	OverallStatus string        `json:"overall_status"`
	Services      []Service     `json:"services"`
	OpenIncidents []Incident    `json:"open_incidents"`
	Maintenance   []Maintenance `json:"maintenance"`
}
