package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/ar0085/status-page/internal/notify"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
	"github.com/ar0085/status-page/pkg/id"
	"github.com/ar0085/status-page/pkg/log"
)

// Store keeps a bounded per-organization log of published envelopes in the
// shared pebble database. Keys are "ev/<org be64>/<sortable id>" so a prefix
// scan yields entries in publish order.
type Store struct {
	db     *pebblestore.DB
	ids    *id.Generator
	limit  int
	logger log.Logger

	mu sync.Mutex
}

// NewStore returns a store retaining at most limit entries per organization.
func NewStore(db *pebblestore.DB, limit int, logger log.Logger) *Store {
	return &Store{
		db:     db,
		ids:    id.NewGenerator(),
		limit:  limit,
		logger: logger.WithComponent("history"),
	}
}

func entryPrefix(org notify.TenantID) []byte {
	k := make([]byte, 0, 3+8+1)
	k = append(k, "ev/"...)
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], uint64(org))
	k = append(k, be[:]...)
	return append(k, '/')
}

func entryKey(org notify.TenantID, eid id.ID) []byte {
	return append(entryPrefix(org), eid.Bytes()...)
}

// Append persists env and trims the organization's log back to the cap.
func (s *Store) Append(ctx context.Context, env notify.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("history: encode envelope: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	if err := b.Set(entryKey(env.Tenant, s.ids.Next()), body, nil); err != nil {
		b.Close()
		return fmt.Errorf("history: append: %w", err)
	}
	if err := s.trimLocked(b, env.Tenant); err != nil {
		b.Close()
		return err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// trimLocked stages deletes for the oldest entries onto b so that, with the
// append already pending in the batch, org ends up at or under the cap.
// Caller holds s.mu.
func (s *Store) trimLocked(b *pebble.Batch, org notify.TenantID) error {
	var keys [][]byte
	err := s.db.ScanPrefix(entryPrefix(org), func(key, _ []byte) error {
		keys = append(keys, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		return fmt.Errorf("history: trim scan: %w", err)
	}
	excess := len(keys) - (s.limit - 1)
	if excess > len(keys) {
		excess = len(keys)
	}
	for i := 0; i < excess; i++ {
		if err := b.Delete(keys[i], nil); err != nil {
			return fmt.Errorf("history: trim delete: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit of the newest entries for org, oldest first.
// limit <= 0 falls back to the store cap.
func (s *Store) Recent(org notify.TenantID, limit int) ([]notify.Envelope, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	var out []notify.Envelope
	err := s.db.ScanPrefix(entryPrefix(org), func(_, value []byte) error {
		var env notify.Envelope
		if err := json.Unmarshal(value, &env); err != nil {
			s.logger.Warn("skipping undecodable history entry", log.Int64("org", int64(org)), log.Err(err))
			return nil
		}
		out = append(out, env)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: scan: %w", err)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
