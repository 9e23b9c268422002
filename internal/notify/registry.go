package notify

import "sync"

// Registry tracks which sessions are subscribed to which tenants. It keeps
// a forward index (tenant to sessions) for fan-out and a reverse index
// (session to tenants) so a disconnect can drop every subscription in one
// call. All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	byTenant  map[TenantID]map[string]Session
	bySession map[string]map[TenantID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byTenant:  make(map[TenantID]map[string]Session),
		bySession: make(map[string]map[TenantID]struct{}),
	}
}

// Subscribe adds the session to the tenant's subscriber set. Subscribing
// twice is a no-op on the indexes.
func (r *Registry) Subscribe(t TenantID, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byTenant[t]
	if !ok {
		set = make(map[string]Session)
		r.byTenant[t] = set
	}
	set[s.ID()] = s
	tenants, ok := r.bySession[s.ID()]
	if !ok {
		tenants = make(map[TenantID]struct{})
		r.bySession[s.ID()] = tenants
	}
	tenants[t] = struct{}{}
}

// Unsubscribe removes the session from the tenant's subscriber set and
// reports whether it was actually subscribed. Empty sets are dropped so
// the indexes do not accumulate dead tenants.
func (r *Registry) Unsubscribe(t TenantID, s Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byTenant[t]
	if !ok {
		return false
	}
	if _, ok := set[s.ID()]; !ok {
		return false
	}
	delete(set, s.ID())
	if len(set) == 0 {
		delete(r.byTenant, t)
	}
	if tenants, ok := r.bySession[s.ID()]; ok {
		delete(tenants, t)
		if len(tenants) == 0 {
			delete(r.bySession, s.ID())
		}
	}
	return true
}

// DropSession removes every subscription held by the session. Called on
// disconnect; safe to call for a session that never subscribed.
func (r *Registry) DropSession(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tenants, ok := r.bySession[s.ID()]
	if !ok {
		return
	}
	delete(r.bySession, s.ID())
	for t := range tenants {
		set := r.byTenant[t]
		delete(set, s.ID())
		if len(set) == 0 {
			delete(r.byTenant, t)
		}
	}
}

// SubscribersOf returns a snapshot of the tenant's subscribers. The slice
// is owned by the caller; iteration over it never observes registry
// mutations made after the call.
func (r *Registry) SubscribersOf(t TenantID) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byTenant[t]
	if len(set) == 0 {
		return nil
	}
	out := make([]Session, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

// SessionTenants returns the tenants the session is subscribed to.
func (r *Registry) SessionTenants(s Session) []TenantID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenants := r.bySession[s.ID()]
	if len(tenants) == 0 {
		return nil
	}
	out := make([]TenantID, 0, len(tenants))
	for t := range tenants {
		out = append(out, t)
	}
	return out
}

// Count returns the number of subscribers for the tenant.
func (r *Registry) Count(t TenantID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTenant[t])
}
