package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestQueryKeyIgnoresParameterOrder(t *testing.T) {
	a := QueryKey(PrefixFeatured, map[string]string{"limit": "6", "page": "1"})
	b := QueryKey(PrefixFeatured, map[string]string{"page": "1", "limit": "6"})
	if a != b {
		t.Fatalf("expected identical keys, got %s and %s", a, b)
	}
	if !strings.HasPrefix(a, PrefixFeatured+":") {
		t.Fatalf("expected key to keep its prefix, got %s", a)
	}
	if a == QueryKey(PrefixFeatured, map[string]string{"limit": "7", "page": "1"}) {
		t.Fatalf("different params must yield different keys")
	}
}

func TestMemoryRoundTripAndPrefixDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "properties:featured:x", map[string]int{"n": 1}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := m.Set(ctx, KeyUserStats, map[string]int{"n": 2}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got map[string]int
	found, err := m.Get(ctx, "properties:featured:x", &got)
	if err != nil || !found || got["n"] != 1 {
		t.Fatalf("unexpected get result found=%v err=%v got=%v", found, err, got)
	}

	if err := m.DeletePrefix(ctx, PrefixFeatured); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if found, _ := m.Get(ctx, "properties:featured:x", &got); found {
		t.Fatalf("expected featured key to be dropped")
	}
	if m.Len() != 1 {
		t.Fatalf("expected stats key to survive, have %d keys", m.Len())
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "k", 1, time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	var v int
	if found, _ := m.Get(ctx, "k", &v); found {
		t.Fatalf("expected entry to expire")
	}
}
