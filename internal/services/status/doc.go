// Package statussvc owns the status page catalog: services, incidents,
// and maintenance windows, all scoped to an organization. Every mutation
// commits its batch first, then publishes a tenant-scoped envelope through
// the notify layer; a read that raced a mutation therefore never observes
// an update that was announced but not stored.
package statussvc
