package broker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/pkg/log"
)

type capturePub struct {
	mu   sync.Mutex
	envs []notify.Envelope
}

func (p *capturePub) Publish(_ context.Context, env notify.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs = append(p.envs, env)
	return nil
}

func (p *capturePub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.envs)
}

func testBridge(local notify.Publisher) *Bridge {
	return &Bridge{
		origin: "self",
		local:  local,
		logger: log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewNullOutput())),
	}
}

func peerDelivery(t *testing.T, appID string, env notify.Envelope) amqp091.Delivery {
	t.Helper()
	body, err := json.Marshal(env)
	require.NoError(t, err)
	return amqp091.Delivery{AppId: appID, RoutingKey: "tenant." + env.Tenant.String(), Body: body}
}

func TestHandleDeliveryReplaysPeerEnvelopes(t *testing.T) {
	local := &capturePub{}
	b := testBridge(local)

	env, err := notify.NewEnvelope(notify.KindServiceUpdate, 3, notify.ServicePayload{
		ID: 1, Name: "API", Status: "degraded", Action: notify.ActionUpdated,
	})
	require.NoError(t, err)
	env.ID = "ev-1"

	b.handleDelivery(context.Background(), peerDelivery(t, "peer", env))
	require.Equal(t, 1, local.count())
	require.Equal(t, env, local.envs[0])
}

func TestHandleDeliverySkipsOwnMessages(t *testing.T) {
	local := &capturePub{}
	b := testBridge(local)

	env, err := notify.NewEnvelope(notify.KindServiceUpdate, 3, notify.ServicePayload{
		ID: 1, Name: "API", Status: "operational", Action: notify.ActionUpdated,
	})
	require.NoError(t, err)

	b.handleDelivery(context.Background(), peerDelivery(t, "self", env))
	require.Equal(t, 0, local.count())
}

func TestHandleDeliveryDropsMalformedBodies(t *testing.T) {
	local := &capturePub{}
	b := testBridge(local)
	b.handleDelivery(context.Background(), amqp091.Delivery{AppId: "peer", Body: []byte("{not json")})
	require.Equal(t, 0, local.count())
}
