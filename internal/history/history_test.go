package history

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ar0085/status-page/internal/notify"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
	"github.com/ar0085/status-page/pkg/log"
)

type sinkPub struct {
	mu   sync.Mutex
	envs []notify.Envelope
}

func (p *sinkPub) Publish(_ context.Context, env notify.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs = append(p.envs, env)
	return nil
}

func storeForTest(t *testing.T, limit int) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	logger := log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewNullOutput()))
	return NewStore(db, limit, logger)
}

func serviceEnv(t *testing.T, org notify.TenantID, name string) notify.Envelope {
	t.Helper()
	env, err := notify.NewEnvelope(notify.KindServiceUpdate, org, notify.ServicePayload{
		Action: notify.ActionUpdated,
		Name:   name,
		Status: "operational",
	})
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	return env
}

func TestAppendAndRecent(t *testing.T) {
	s := storeForTest(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Append(ctx, serviceEnv(t, 1, fmt.Sprintf("svc-%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Append(ctx, serviceEnv(t, 2, "other")); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.Recent(1, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, env := range got {
		p, ok := env.Payload.(notify.ServicePayload)
		if !ok {
			t.Fatalf("payload type %T", env.Payload)
		}
		if want := fmt.Sprintf("svc-%d", i); p.Name != want {
			t.Fatalf("entry %d out of order: %q", i, p.Name)
		}
	}

	other, err := s.Recent(2, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("organizations must not share history, got %d", len(other))
	}
}

func TestRecentLimit(t *testing.T) {
	s := storeForTest(t, 10)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.Append(ctx, serviceEnv(t, 1, fmt.Sprintf("svc-%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := s.Recent(1, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if p := got[1].Payload.(notify.ServicePayload); p.Name != "svc-4" {
		t.Fatalf("expected newest entry last, got %q", p.Name)
	}
}

func TestAppendTrimsToCap(t *testing.T) {
	s := storeForTest(t, 3)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if err := s.Append(ctx, serviceEnv(t, 1, fmt.Sprintf("svc-%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := s.Recent(1, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(got))
	}
	if p := got[0].Payload.(notify.ServicePayload); p.Name != "svc-4" {
		t.Fatalf("oldest surviving entry should be svc-4, got %q", p.Name)
	}
}

func TestRecentEmptyOrganization(t *testing.T) {
	s := storeForTest(t, 10)
	got, err := s.Recent(42, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}

func TestRecorderAssignsIDAndForwards(t *testing.T) {
	s := storeForTest(t, 10)
	sink := &sinkPub{}
	logger := log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewNullOutput()))
	rec := NewRecorder(s, sink, logger)

	env := serviceEnv(t, 1, "api")
	if err := rec.Publish(context.Background(), env); err != nil {
		t.Fatalf("publish: %v", err)
	}

	sink.mu.Lock()
	forwarded := append([]notify.Envelope(nil), sink.envs...)
	sink.mu.Unlock()
	if len(forwarded) != 1 {
		t.Fatalf("expected 1 forwarded envelope, got %d", len(forwarded))
	}
	if forwarded[0].ID == "" {
		t.Fatalf("forwarded envelope should carry an ID")
	}

	stored, err := s.Recent(1, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored envelope, got %d", len(stored))
	}
	if stored[0].ID != forwarded[0].ID {
		t.Fatalf("stored and forwarded IDs differ: %q vs %q", stored[0].ID, forwarded[0].ID)
	}
}

func TestRecorderRejectsInvalidEnvelope(t *testing.T) {
	s := storeForTest(t, 10)
	sink := &sinkPub{}
	logger := log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewNullOutput()))
	rec := NewRecorder(s, sink, logger)

	env := notify.Envelope{Kind: notify.KindServiceUpdate}
	if err := rec.Publish(context.Background(), env); err == nil {
		t.Fatalf("expected validation error")
	}
	if got, _ := s.Recent(0, 0); len(got) != 0 {
		t.Fatalf("invalid envelope must not be recorded")
	}
}
