package history

import (
	"context"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/id"
	"github.com/ar0085/status-page/pkg/log"
)

// Recorder is a notify.Publisher that appends every envelope to the history
// store before handing it to the next publisher in the chain. A history write
// failure is logged but never blocks live delivery.
type Recorder struct {
	store  *Store
	next   notify.Publisher
	ids    *id.Generator
	logger log.Logger
}

// NewRecorder wraps next so published envelopes are also retained in store.
func NewRecorder(store *Store, next notify.Publisher, logger log.Logger) *Recorder {
	return &Recorder{
		store:  store,
		next:   next,
		ids:    id.NewGenerator(),
		logger: logger.WithComponent("history"),
	}
}

// Publish records env and forwards it. The envelope ID is assigned here when
// empty so the stored entry and the delivered frames carry the same ID.
func (r *Recorder) Publish(ctx context.Context, env notify.Envelope) error {
	if err := env.Validate(); err != nil {
		return err
	}
	if env.ID == "" {
		env.ID = r.ids.Next().String()
	}
	if err := r.store.Append(ctx, env); err != nil {
		r.logger.Warn("failed to record envelope",
			log.Str("id", env.ID),
			log.Int64("org", int64(env.Tenant)),
			log.Err(err))
	}
	return r.next.Publish(ctx, env)
}
