package cache

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string](10, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("got %q/%v", got, ok)
	}
	c.Set("k", "v2")
	got, _ = c.Get("k")
	if got != "v2" {
		t.Fatalf("overwrite failed: %q", got)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected deleted key to miss")
	}
	c.Delete("k") // no-op
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("k", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired key to miss")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a so b is the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should survive")
	}
}

func TestCleanExpired(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)
	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry must survive the sweep")
	}
}
