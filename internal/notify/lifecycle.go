package notify

import (
	"encoding/json"
	"fmt"

	"github.com/ar0085/status-page/pkg/log"
)

// Manager drives the session lifecycle: attach, subscribe, unsubscribe,
// detach. Transports hand it raw client events; it validates them, updates
// the registry, and sends acknowledgment frames back on the originating
// session only.
type Manager struct {
	reg    *Registry
	logger log.Logger

	// Check, when set, vets tenant ids before a subscribe takes effect.
	// Servers wire an organization existence check here when public
	// subscribe is disabled.
	Check func(TenantID) error
}

func NewManager(reg *Registry, logger log.Logger) *Manager {
	return &Manager{reg: reg, logger: logger.WithComponent("notify.lifecycle")}
}

// Connect acknowledges a newly attached session. The session holds no
// subscriptions until it asks for one.
func (m *Manager) Connect(s Session) {
	m.logger.Info("client connected", log.Str("session", s.ID()))
	m.send(s, Frame{Event: EventConnected, Data: ConnectedAck{
		Message: "Connected to status updates",
	}})
}

// Disconnect removes every subscription the session held. It is safe to
// call more than once and for sessions that never subscribed.
func (m *Manager) Disconnect(s Session) {
	m.reg.DropSession(s)
	m.logger.Info("client disconnected", log.Str("session", s.ID()))
}

// Subscribe adds the session to the tenant's subscriber set and sends a
// subscribed acknowledgment. Duplicate subscribes re-ack without changing
// the registry. A missing tenant id is reported to the session and
// returned as ErrMissingTenant.
func (m *Manager) Subscribe(s Session, t TenantID) error {
	if !t.Valid() {
		m.sendError(s, "tenant_id is required")
		return ErrMissingTenant
	}
	if m.Check != nil {
		if err := m.Check(t); err != nil {
			m.sendError(s, fmt.Sprintf("unknown organization %d", int64(t)))
			return fmt.Errorf("%w: %d", ErrUnknownTenant, int64(t))
		}
	}
	m.reg.Subscribe(t, s)
	m.logger.Debug("session subscribed",
		log.Str("session", s.ID()),
		log.Int64("tenant_id", int64(t)),
		log.Int("subscribers", m.reg.Count(t)))
	m.send(s, Frame{Event: EventSubscribed, Data: SubscriptionAck{
		Message:  fmt.Sprintf("Subscribed to organization %d", int64(t)),
		TenantID: t,
	}})
	return nil
}

// Unsubscribe removes the session from the tenant's subscriber set. The
// unsubscribed acknowledgment is sent only when the session was actually
// subscribed; unsubscribing twice acks once.
func (m *Manager) Unsubscribe(s Session, t TenantID) error {
	if !t.Valid() {
		m.sendError(s, "tenant_id is required")
		return ErrMissingTenant
	}
	if !m.reg.Unsubscribe(t, s) {
		return nil
	}
	m.logger.Debug("session unsubscribed",
		log.Str("session", s.ID()),
		log.Int64("tenant_id", int64(t)))
	m.send(s, Frame{Event: EventUnsubscribed, Data: SubscriptionAck{
		Message:  fmt.Sprintf("Unsubscribed from organization %d", int64(t)),
		TenantID: t,
	}})
	return nil
}

type clientEvent struct {
	TenantID TenantID `json:"tenant_id"`
}

// HandleEvent routes a decoded client event. Unknown events and malformed
// payloads are reported back on the originating session and never affect
// other sessions.
func (m *Manager) HandleEvent(s Session, event string, data json.RawMessage) {
	var ev clientEvent
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ev); err != nil {
			m.sendError(s, "malformed event payload")
			return
		}
	}
	switch event {
	case EventSubscribeOrg:
		_ = m.Subscribe(s, ev.TenantID)
	case EventUnsubscribeOrg:
		_ = m.Unsubscribe(s, ev.TenantID)
	default:
		m.sendError(s, fmt.Sprintf("unknown event %q", event))
	}
}

func (m *Manager) send(s Session, f Frame) {
	if err := s.Send(f); err != nil {
		m.logger.Warn("ack send failed",
			log.Str("session", s.ID()),
			log.Str("event", f.Event),
			log.Err(err))
	}
}

func (m *Manager) sendError(s Session, msg string) {
	m.send(s, Frame{Event: EventError, Data: ErrorAck{Message: msg}})
}
