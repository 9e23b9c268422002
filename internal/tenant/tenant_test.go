package tenant

import (
	"context"
	"errors"
	"testing"

	cfgpkg "github.com/ar0085/status-page/internal/config"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
)

func storeForTest(t *testing.T, maxOrgs int) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s, err := NewStore(db, cfgpkg.Default().SlugRegex, maxOrgs)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func TestCreateAndLookup(t *testing.T) {
	s := storeForTest(t, 0)
	ctx := context.Background()

	org, err := s.Create(ctx, "Acme Corp", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if org.ID != 1 || org.Slug != "acme-corp" {
		t.Fatalf("unexpected org: %+v", org)
	}

	byID, err := s.ByID(org.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	bySlug, err := s.BySlug("acme-corp")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if byID != org || bySlug != org {
		t.Fatalf("lookup mismatch: %+v vs %+v vs %+v", org, byID, bySlug)
	}

	if _, err := s.ByID(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.BySlug("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSlugUniqueness(t *testing.T) {
	s := storeForTest(t, 0)
	ctx := context.Background()
	if _, err := s.Create(ctx, "One", "shared"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "Two", "shared"); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("want ErrSlugTaken, got %v", err)
	}
}

func TestSlugValidation(t *testing.T) {
	s := storeForTest(t, 0)
	for _, bad := range []string{"Has Caps", "under_score", "trailing!", ""} {
		if _, err := s.Create(context.Background(), "", bad); !errors.Is(err, ErrInvalidSlug) {
			t.Fatalf("slug %q: want ErrInvalidSlug, got %v", bad, err)
		}
	}
}

func TestOrganizationLimit(t *testing.T) {
	s := storeForTest(t, 2)
	ctx := context.Background()
	for i, name := range []string{"a1", "a2"} {
		if _, err := s.Create(ctx, name, ""); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := s.Create(ctx, "a3", ""); !errors.Is(err, ErrLimit) {
		t.Fatalf("want ErrLimit, got %v", err)
	}
}

func TestListOrdersByID(t *testing.T) {
	s := storeForTest(t, 0)
	ctx := context.Background()
	for _, name := range []string{"beta", "alpha", "gamma"} {
		if _, err := s.Create(ctx, name, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	orgs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orgs) != 3 {
		t.Fatalf("want 3 orgs, got %d", len(orgs))
	}
	for i, org := range orgs {
		if org.ID != int64(i+1) {
			t.Fatalf("order broken at %d: %+v", i, org)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":      "acme-corp",
		"  My_Org  ":     "my-org",
		"Already-Good":   "already-good",
		"Weird!! Chars?": "weird-chars",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
