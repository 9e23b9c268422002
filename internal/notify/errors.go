package notify

import "errors"

var (
	// ErrMissingTenant is returned when an operation names a zero or
	// negative tenant id.
	ErrMissingTenant = errors.New("notify: tenant id is required")

	// ErrUnknownTenant is returned when a subscribe names a tenant the
	// manager's check rejected.
	ErrUnknownTenant = errors.New("notify: unknown tenant")

	// ErrInvalidEnvelope is returned when an envelope fails validation:
	// unknown kind, missing tenant, or a payload that does not match the
	// kind.
	ErrInvalidEnvelope = errors.New("notify: invalid envelope")
)
