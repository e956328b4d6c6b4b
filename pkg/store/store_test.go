package store

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	err := s.Set(ctx, "greeting", []byte("hello"), 0)
	if err != nil {
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
		t.Errorf("Expected value hello, got %s", val)
	}
}

func TestMemoryStore_GetNonExistent(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	_, found, err := s.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to be absent")
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	err := s.Set(ctx, "short-lived", []byte("v"), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, found, err := s.Get(ctx, "short-lived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key to exist before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	_, found, err = s.Get(ctx, "short-lived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to have expired")
	}
}

func TestMemoryStore_Incr(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

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

func TestMemoryStore_IncrAfterExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

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

func TestMemoryStore_IncrNonInteger(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	if err := s.Set(ctx, "text", []byte("not-a-number"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := s.Incr(ctx, "text"); err == nil {
		t.Error("Expected error incrementing non-integer value")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	if err := s.Set(ctx, "doomed", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, found, err := s.Get(ctx, "doomed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to be deleted")
	}
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	if _, _, err := s.Get(ctx, ""); err == nil {
		t.Error("Expected error for empty key on Get")
	}
	if err := s.Set(ctx, "", []byte("v"), 0); err == nil {
		t.Error("Expected error for empty key on Set")
	}
	if _, err := s.Incr(ctx, ""); err == nil {
		t.Error("Expected error for empty key on Incr")
	}
}

func TestMemoryStore_CleanupLoop(t *testing.T) {
	s := NewMemoryStoreWithConfig(MemoryStoreConfig{CleanupInterval: 10 * time.Millisecond})
	defer s.Close()

	ctx := context.Background()

	if err := s.Set(ctx, "a", []byte("1"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if size := s.Size(); size != 1 {
		t.Errorf("Expected 1 entry after sweep, got %d", size)
	}
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}

func TestNamespace_PrefixesKeys(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()

	cacheNS := NewNamespace(s, "cache")
	usageNS := NewNamespace(s, "usage")

	if err := cacheNS.Set(ctx, "k", []byte("cached"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := usageNS.Set(ctx, "k", []byte("ledger"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Same logical key, separate physical entries
	val, found, err := cacheNS.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get from cache namespace failed: found=%v err=%v", found, err)
	}
	if string(val) != "cached" {
		t.Errorf("Expected cached, got %s", val)
	}

	raw, found, err := s.Get(ctx, "usage:k")
	if err != nil || !found {
		t.Fatalf("Raw get failed: found=%v err=%v", found, err)
	}
	if string(raw) != "ledger" {
		t.Errorf("Expected ledger, got %s", raw)
	}
}

func TestNamespace_Incr(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()
	ns := NewNamespace(s, "rate_limit")

	n, err := ns.Incr(ctx, "203.0.113.7:1700000000")
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1, got %d", n)
	}

	raw, found, err := s.Get(ctx, "rate_limit:203.0.113.7:1700000000")
	if err != nil || !found {
		t.Fatalf("Raw get failed: found=%v err=%v", found, err)
	}
	if string(raw) != "1" {
		t.Errorf("Expected raw counter 1, got %s", raw)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Expected memory backend, got %T", s)
	}
}
