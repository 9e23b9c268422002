// Package tenant stores organizations, the unit of isolation for the whole
// service. Every service, incident, and maintenance record hangs off an
// organization id, and the realtime layer scopes subscriptions by it.
package tenant

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
)

var (
	ErrNotFound    = errors.New("tenant: organization not found")
	ErrSlugTaken   = errors.New("tenant: slug already in use")
	ErrInvalidSlug = errors.New("tenant: invalid slug")
	ErrLimit       = errors.New("tenant: organization limit reached")
)

// Org is one organization with its own status page.
type Org struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CreatedAtMs int64  `json:"created_at_ms"`
	UpdatedAtMs int64  `json:"updated_at_ms"`
}

var (
	orgMetaPrefix = []byte("org/meta/")
	orgSlugPrefix = []byte("org/slug/")
	orgSeqKey     = []byte("org/seq")
)

func orgMetaKey(id int64) []byte {
	k := make([]byte, 0, len(orgMetaPrefix)+8)
	k = append(k, orgMetaPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

func orgSlugKey(slug string) []byte {
	k := make([]byte, 0, len(orgSlugPrefix)+len(slug))
	k = append(k, orgSlugPrefix...)
	return append(k, slug...)
}

// Store persists organizations in pebble. Creation is serialized with a
// mutex so id allocation and the slug uniqueness check cannot race.
type Store struct {
	db      *pebblestore.DB
	mu      sync.Mutex
	slugRe  *regexp.Regexp
	maxOrgs int
}

// NewStore builds a Store. slugPattern and maxOrgs come from the service
// config; maxOrgs <= 0 means unlimited.
func NewStore(db *pebblestore.DB, slugPattern string, maxOrgs int) (*Store, error) {
	re, err := regexp.Compile(slugPattern)
	if err != nil {
		return nil, fmt.Errorf("tenant: bad slug pattern: %w", err)
	}
	return &Store{db: db, slugRe: re, maxOrgs: maxOrgs}, nil
}

// Slugify derives a slug from a display name: lowercased, spaces and
// underscores collapsed to hyphens, everything else non-alphanumeric
// dropped.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Create allocates an id and writes the organization and its slug index
// entry in one batch. An empty slug is derived from the name.
func (s *Store) Create(ctx context.Context, name, slug string) (Org, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	if !s.slugRe.MatchString(slug) {
		return Org{}, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Get(orgSlugKey(slug)); err == nil {
		return Org{}, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	} else if !pebblestore.IsNotFound(err) {
		return Org{}, err
	}
	if s.maxOrgs > 0 {
		n, err := s.count()
		if err != nil {
			return Org{}, err
		}
		if n >= s.maxOrgs {
			return Org{}, ErrLimit
		}
	}

	id, err := s.nextID()
	if err != nil {
		return Org{}, err
	}
	now := time.Now().UnixMilli()
	org := Org{ID: id, Name: name, Slug: slug, CreatedAtMs: now, UpdatedAtMs: now}
	meta, err := json.Marshal(org)
	if err != nil {
		return Org{}, err
	}

	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], uint64(id))
	batch := s.db.NewBatch()
	_ = batch.Set(orgMetaKey(id), meta, nil)
	_ = batch.Set(orgSlugKey(slug), seq[:], nil)
	if err := s.db.CommitBatch(ctx, batch); err != nil {
		return Org{}, err
	}
	return org, nil
}

// ByID loads one organization.
func (s *Store) ByID(id int64) (Org, error) {
	b, err := s.db.Get(orgMetaKey(id))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Org{}, ErrNotFound
		}
		return Org{}, err
	}
	var org Org
	if err := json.Unmarshal(b, &org); err != nil {
		return Org{}, err
	}
	return org, nil
}

// BySlug resolves a slug to its organization.
func (s *Store) BySlug(slug string) (Org, error) {
	b, err := s.db.Get(orgSlugKey(slug))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Org{}, ErrNotFound
		}
		return Org{}, err
	}
	if len(b) != 8 {
		return Org{}, fmt.Errorf("tenant: corrupt slug index for %q", slug)
	}
	return s.ByID(int64(binary.BigEndian.Uint64(b)))
}

// List returns all organizations in id order.
func (s *Store) List() ([]Org, error) {
	var out []Org
	err := s.db.ScanPrefix(orgMetaPrefix, func(_, value []byte) error {
		var org Org
		if err := json.Unmarshal(value, &org); err != nil {
			return err
		}
		out = append(out, org)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) count() (int, error) {
	n := 0
	err := s.db.ScanPrefix(orgMetaPrefix, func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

func (s *Store) nextID() (int64, error) {
	next := uint64(1)
	if b, err := s.db.Get(orgSeqKey); err == nil && len(b) == 8 {
		next = binary.BigEndian.Uint64(b) + 1
	} else if err != nil && !pebblestore.IsNotFound(err) {
		return 0, err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], next)
	if err := s.db.Set(orgSeqKey, b[:]); err != nil {
		return 0, err
	}
	return int64(next), nil
}
