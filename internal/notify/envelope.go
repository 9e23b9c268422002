package notify

import (
	"encoding/json"
	"fmt"
)

// Kind names the category of a status update.
type Kind string

const (
	KindServiceUpdate      Kind = "service_update"
	KindIncidentCreated    Kind = "incident_created"
	KindIncidentUpdate     Kind = "incident_update"
	KindMaintenanceCreated Kind = "maintenance_created"
	KindMaintenanceUpdate  Kind = "maintenance_update"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindServiceUpdate, KindIncidentCreated, KindIncidentUpdate,
		KindMaintenanceCreated, KindMaintenanceUpdate:
		return true
	}
	return false
}

// Action tags a payload with the mutation that produced it.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Payload is the kind-specific body of an envelope. Exactly one concrete
// type matches each kind: ServicePayload for service updates,
// IncidentPayload for incident kinds, MaintenancePayload for maintenance
// kinds.
type Payload interface {
	clone() Payload
	matches(Kind) bool
}

// ServiceRef is a service embedded in an incident or maintenance payload.
type ServiceRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ServicePayload is the body of service_update envelopes.
type ServicePayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Action      Action `json:"action"`
	CreatedAtMs int64  `json:"created_at_ms,omitempty"`
	UpdatedAtMs int64  `json:"updated_at_ms,omitempty"`
}

func (p ServicePayload) clone() Payload      { return p }
func (p ServicePayload) matches(k Kind) bool { return k == KindServiceUpdate }

// IncidentNote is one update appended to an incident timeline.
type IncidentNote struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	CreatedAtMs int64  `json:"created_at_ms,omitempty"`
}

// IncidentPayload is the body of incident_created and incident_update
// envelopes. Affected services and timeline notes are captured at build
// time so later mutations cannot alter an envelope in flight.
type IncidentPayload struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Action      Action         `json:"action"`
	Services    []ServiceRef   `json:"services"`
	Updates     []IncidentNote `json:"updates"`
	CreatedAtMs int64          `json:"created_at_ms,omitempty"`
	UpdatedAtMs int64          `json:"updated_at_ms,omitempty"`
}

func (p IncidentPayload) clone() Payload {
	cp := p
	cp.Services = append([]ServiceRef(nil), p.Services...)
	cp.Updates = append([]IncidentNote(nil), p.Updates...)
	return cp
}

func (p IncidentPayload) matches(k Kind) bool {
	return k == KindIncidentCreated || k == KindIncidentUpdate
}

// MaintenancePayload is the body of maintenance_created and
// maintenance_update envelopes.
type MaintenancePayload struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Status           string       `json:"status"`
	Action           Action       `json:"action"`
	ScheduledStartMs int64        `json:"scheduled_start_ms,omitempty"`
	ScheduledEndMs   int64        `json:"scheduled_end_ms,omitempty"`
	ActualStartMs    int64        `json:"actual_start_ms,omitempty"`
	ActualEndMs      int64        `json:"actual_end_ms,omitempty"`
	Services         []ServiceRef `json:"services"`
	CreatedAtMs      int64        `json:"created_at_ms,omitempty"`
	UpdatedAtMs      int64        `json:"updated_at_ms,omitempty"`
}

func (p MaintenancePayload) clone() Payload {
	cp := p
	cp.Services = append([]ServiceRef(nil), p.Services...)
	return cp
}

func (p MaintenancePayload) matches(k Kind) bool {
	return k == KindMaintenanceCreated || k == KindMaintenanceUpdate
}

// Envelope is one tenant-scoped status update ready for fan-out. Build
// envelopes with NewEnvelope; the zero value is invalid.
type Envelope struct {
	ID      string   `json:"id,omitempty"`
	Kind    Kind     `json:"type"`
	Tenant  TenantID `json:"tenant_id"`
	Payload Payload  `json:"data"`
}

// NewEnvelope validates and builds an envelope. The payload is snapshotted,
// so the caller may keep mutating the value it passed in.
func NewEnvelope(kind Kind, tenant TenantID, payload Payload) (Envelope, error) {
	env := Envelope{Kind: kind, Tenant: tenant}
	if payload != nil {
		env.Payload = payload.clone()
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Validate checks the envelope against the wire contract.
func (e Envelope) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEnvelope, e.Kind)
	}
	if !e.Tenant.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, ErrMissingTenant)
	}
	if e.Payload == nil {
		return fmt.Errorf("%w: nil payload", ErrInvalidEnvelope)
	}
	if !e.Payload.matches(e.Kind) {
		return fmt.Errorf("%w: %T payload does not match kind %q", ErrInvalidEnvelope, e.Payload, e.Kind)
	}
	return nil
}

// Frame renders the envelope as a status_update frame.
func (e Envelope) Frame() Frame {
	return Frame{Event: EventStatusUpdate, Data: e}
}

// UnmarshalJSON decodes an envelope, picking the payload type from the
// kind tag.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Kind   Kind            `json:"type"`
		Tenant TenantID        `json:"tenant_id"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Kind = raw.Kind
	e.Tenant = raw.Tenant
	switch raw.Kind {
	case KindServiceUpdate:
		var p ServicePayload
		if err := json.Unmarshal(raw.Data, &p); err != nil {
			return err
		}
		e.Payload = p
	case KindIncidentCreated, KindIncidentUpdate:
		var p IncidentPayload
		if err := json.Unmarshal(raw.Data, &p); err != nil {
			return err
		}
		e.Payload = p
	case KindMaintenanceCreated, KindMaintenanceUpdate:
		var p MaintenancePayload
		if err := json.Unmarshal(raw.Data, &p); err != nil {
			return err
		}
		e.Payload = p
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEnvelope, raw.Kind)
	}
	return nil
}
