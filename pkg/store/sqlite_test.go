package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "greeting", []byte("hello"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found, err := s.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key to exist")
	}
	if !bytes.Equal(val, []byte("hello")) {
		t.Errorf("Expected hello, got %s", val)
	}
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	val, found, err := s.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if string(val) != "v2" {
		t.Errorf("Expected v2, got %s", val)
	}
}

func TestSQLiteStore_TTLExpiry(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "short-lived", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, found, err := s.Get(ctx, "short-lived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to have expired")
	}
}

func TestSQLiteStore_Incr(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected counter %d, got %d", want, got)
		}
	}
}

func TestSQLiteStore_IncrAfterExpiry(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := s.Incr(ctx, "counter"); err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if err := s.Expire(ctx, "counter", 10*time.Millisecond); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	got, err := s.Incr(ctx, "counter")
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected counter to restart at 1, got %d", got)
	}
}

func TestSQLiteStore_Sweep(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "stale", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "fresh", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	pruned, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned row, got %d", pruned)
	}

	for _, key := range []string{"fresh", "forever"} {
		_, found, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !found {
			t.Errorf("Expected %s to survive the sweep", key)
		}
	}
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := s.Set(ctx, "durable", []byte("survives"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	val, found, err := reopened.Get(ctx, "durable")
	if err != nil || !found {
		t.Fatalf("Get after reopen failed: found=%v err=%v", found, err)
	}
	if string(val) != "survives" {
		t.Errorf("Expected survives, got %s", val)
	}
}

func TestSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("Expected error for empty db path")
	}
}
