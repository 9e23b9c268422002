package pebblestore

import (
	"bytes"
	"context"
	"testing"
)

func openForTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}

func TestSetGetDelete(t *testing.T) {
	db := openForTest(t)
	if err := db.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(v, []byte("v")) {
		t.Fatalf("value: %q", v)
	}
	if err := db.Delete([]byte("k")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get([]byte("k")); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBatchCommitAtomicity(t *testing.T) {
	db := openForTest(t)
	b := db.NewBatch()
	_ = b.Set([]byte("a"), []byte("1"), nil)
	_ = b.Set([]byte("b"), []byte("2"), nil)
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	for _, k := range []string{"a", "b"} {
		if _, err := db.Get([]byte(k)); err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
	}
}

func TestScanPrefix(t *testing.T) {
	db := openForTest(t)
	for _, kv := range [][2]string{
		{"org/1/svc/1", "api"},
		{"org/1/svc/2", "web"},
		{"org/2/svc/1", "other"},
	} {
		if err := db.Set([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	var keys []string
	err := db.ScanPrefix([]byte("org/1/svc/"), func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(keys) != 2 || keys[0] != "org/1/svc/1" || keys[1] != "org/1/svc/2" {
		t.Fatalf("keys: %v", keys)
	}
}

func TestPrefixUpperBound(t *testing.T) {
	if got := prefixUpperBound([]byte("abc")); !bytes.Equal(got, []byte("abd")) {
		t.Fatalf("upper bound: %q", got)
	}
	if got := prefixUpperBound([]byte{0xff, 0xff}); got != nil {
		t.Fatalf("expected nil for all-0xff prefix, got %q", got)
	}
	if got := prefixUpperBound([]byte{'a', 0xff}); !bytes.Equal(got, []byte{'b'}) {
		t.Fatalf("upper bound with trailing 0xff: %q", got)
	}
}
