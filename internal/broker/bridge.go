package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/log"
)

const maxDialDelay = 60 * time.Second

// Options configures the bridge connection.
type Options struct {
	URL          string
	Exchange     string
	DialAttempts int
	DialDelay    time.Duration
}

// Bridge publishes envelopes to a topic exchange and replays peer
// envelopes into the local publisher. Routing keys are tenant.<id>, so a
// future consumer can bind a subset of organizations.
type Bridge struct {
	conn     *amqp091.Connection
	ch       *amqp091.Channel
	exchange string
	origin   string
	local    notify.Publisher
	logger   log.Logger
}

// dialWithRetry connects with exponential backoff, honoring ctx for
// shutdown while the broker is still coming up.
func dialWithRetry(ctx context.Context, opts Options, logger log.Logger) (*amqp091.Connection, error) {
	var lastErr error
	attempts := opts.DialAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := opts.DialDelay
	if delay <= 0 {
		delay = time.Second
	}
	for i := 1; i <= attempts; i++ {
		conn, err := amqp091.Dial(opts.URL)
		if err == nil {
			if i > 1 {
				logger.Info("broker connected", log.Int("attempt", i))
			}
			return conn, nil
		}
		lastErr = err

		sleep := delay * time.Duration(math.Pow(2, float64(i-1)))
		if sleep > maxDialDelay {
			sleep = maxDialDelay
		}
		logger.Warn("broker dial failed",
			log.Int("attempt", i),
			log.Duration("sleep", sleep),
			log.Err(err))

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.New("dial cancelled: " + ctx.Err().Error())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("broker unreachable after %d attempts: %w", attempts, lastErr)
}

// Dial connects, declares the exchange, and wraps local with cross
// instance publishing.
func Dial(ctx context.Context, opts Options, local notify.Publisher, logger log.Logger) (*Bridge, error) {
	logger = logger.WithComponent("broker")
	conn, err := dialWithRetry(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(opts.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Bridge{
		conn:     conn,
		ch:       ch,
		exchange: opts.Exchange,
		origin:   uuid.NewString(),
		local:    local,
		logger:   logger,
	}, nil
}

// Publish delivers locally first, then to the exchange. A broker publish
// failure is logged, not returned: local subscribers already received the
// update.
func (b *Bridge) Publish(ctx context.Context, env notify.Envelope) error {
	if err := b.local.Publish(ctx, env); err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	key := "tenant." + env.Tenant.String()
	err = b.ch.PublishWithContext(ctx, b.exchange, key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Transient,
		MessageId:    env.ID,
		AppId:        b.origin,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		b.logger.Warn("broker publish failed",
			log.Str("key", key),
			log.Str("event_id", env.ID),
			log.Err(err))
	}
	return nil
}

// Run consumes peer envelopes until ctx ends. Each instance gets its own
// exclusive queue bound to every tenant key; realtime updates are not
// worth replaying after a restart, so the queue is auto-deleted.
func (b *Bridge) Run(ctx context.Context) error {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err := b.ch.QueueBind(q.Name, "tenant.#", b.exchange, false, nil); err != nil {
		return err
	}
	msgs, err := b.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return err
	}
	b.logger.Info("consuming peer updates", log.Str("queue", q.Name))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("broker delivery channel closed")
			}
			b.handleDelivery(ctx, d)
		}
	}
}

func (b *Bridge) handleDelivery(ctx context.Context, d amqp091.Delivery) {
	if d.AppId == b.origin {
		return
	}
	var env notify.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		b.logger.Warn("dropping malformed peer envelope",
			log.Str("key", d.RoutingKey),
			log.Err(err))
		return
	}
	if err := b.local.Publish(ctx, env); err != nil {
		b.logger.Warn("peer envelope rejected",
			log.Str("event_id", env.ID),
			log.Err(err))
	}
}

func (b *Bridge) Close() error {
	_ = b.ch.Close()
	return b.conn.Close()
}
