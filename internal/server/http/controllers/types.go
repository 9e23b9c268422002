package controllers

// Common request types for HTTP controllers

// orgCreateReq represents a request to create an organization.
type orgCreateReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// serviceCreateReq represents a request to add a service to a page.
type serviceCreateReq struct {
	OrgID       int64  `json:"org_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// serviceUpdateReq represents a partial service update. Absent fields are
// left unchanged.
type serviceUpdateReq struct {
	OrgID       int64   `json:"org_id"`
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// deleteReq identifies a record to delete.
type deleteReq struct {
	OrgID int64 `json:"org_id"`
	ID    int64 `json:"id"`
}

// incidentCreateReq represents a request to open an incident.
type incidentCreateReq struct {
	OrgID       int64   `json:"org_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ServiceIDs  []int64 `json:"service_ids"`
}

// incidentUpdateReq represents a partial incident update.
type incidentUpdateReq struct {
	OrgID       int64    `json:"org_id"`
	ID          int64    `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	ServiceIDs  *[]int64 `json:"service_ids"`
}

// incidentNoteReq appends a timeline note to an incident.
type incidentNoteReq struct {
	OrgID int64  `json:"org_id"`
	ID    int64  `json:"id"`
	Text  string `json:"text"`
}

// maintenanceCreateReq represents a request to schedule maintenance.
type maintenanceCreateReq struct {
	OrgID            int64   `json:"org_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ServiceIDs       []int64 `json:"service_ids"`
	ScheduledStartMs int64   `json:"scheduled_start_ms"`
	ScheduledEndMs   int64   `json:"scheduled_end_ms"`
}

// maintenanceUpdateReq represents a partial maintenance update.
type maintenanceUpdateReq struct {
	OrgID            int64    `json:"org_id"`
	ID               int64    `json:"id"`
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Status           *string  `json:"status"`
	ServiceIDs       *[]int64 `json:"service_ids"`
	ScheduledStartMs *int64   `json:"scheduled_start_ms"`
	ScheduledEndMs   *int64   `json:"scheduled_end_ms"`
}
