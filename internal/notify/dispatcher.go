package notify

import (
	"context"
	"sync"

	"github.com/ar0085/status-page/pkg/id"
	"github.com/ar0085/status-page/pkg/log"
)

// Publisher accepts validated envelopes for delivery. The in-process
// Dispatcher implements it; the broker bridge wraps one to add cross
// instance fan-out.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Dispatcher fans an envelope out to every session subscribed to its
// tenant. Publishes for the same tenant are serialized, so two sessions
// subscribed to one tenant observe its envelopes in the same order.
type Dispatcher struct {
	reg    *Registry
	ids    *id.Generator
	logger log.Logger

	mu sync.Mutex
}

func NewDispatcher(reg *Registry, logger log.Logger) *Dispatcher {
	return &Dispatcher{
		reg:    reg,
		ids:    id.NewGenerator(),
		logger: logger.WithComponent("notify.dispatcher"),
	}
}

// Publish validates the envelope and enqueues it on every subscriber of
// the envelope's tenant. A tenant with no subscribers is a successful
// no-op. A session whose queue rejects the frame is logged and skipped;
// one slow session never fails the publish or starves its peers.
func (d *Dispatcher) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if env.ID == "" {
		env.ID = d.ids.Next().String()
	}
	subs := d.reg.SubscribersOf(env.Tenant)
	if len(subs) == 0 {
		return nil
	}

	frame := env.Frame()
	delivered := 0
	for _, s := range subs {
		if err := s.Send(frame); err != nil {
			d.logger.Warn("dropping undeliverable frame",
				log.Str("session", s.ID()),
				log.Str("event_id", env.ID),
				log.Int64("tenant_id", int64(env.Tenant)),
				log.Err(err))
			continue
		}
		delivered++
	}
	d.logger.Debug("published status update",
		log.Str("event_id", env.ID),
		log.Str("kind", string(env.Kind)),
		log.Int64("tenant_id", int64(env.Tenant)),
		log.Int("delivered", delivered))
	return nil
}
