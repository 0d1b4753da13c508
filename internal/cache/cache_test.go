package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New[string]()

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit for fresh entry")
	}
	if got != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestGetMissing(t *testing.T) {
	c := New[string]()

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	c := New[string]()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}

	// The expired entry was removed by the read itself.
	if c.Len() != 0 {
		t.Errorf("Len = %d after expired read, want 0", c.Len())
	}
}

func TestSetReplaces(t *testing.T) {
	c := New[string]()

	c.Set("k", "old", 10*time.Millisecond)
	c.Set("k", "new", time.Minute)
	time.Sleep(20 * time.Millisecond)

	got, ok := c.Get("k")
	if !ok || got != "new" {
		t.Errorf("Get = %q, %v, want %q with fresh expiry", got, ok, "new")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string]()

	c.Set("k", "v", time.Minute)

	if !c.Invalidate("k") {
		t.Error("Invalidate = false for present key, want true")
	}
	if c.Invalidate("k") {
		t.Error("Invalidate = true for removed key, want false")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestClear(t *testing.T) {
	c := New[int]()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	if !c.IsEmpty() {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestCleanupExpired(t *testing.T) {
	c := New[int]()

	c.Set("fresh1", 1, time.Minute)
	c.Set("fresh2", 2, time.Minute)
	c.Set("stale1", 3, 5*time.Millisecond)
	c.Set("stale2", 4, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	removed := c.CleanupExpired()
	if removed != 2 {
		t.Errorf("CleanupExpired = %d, want 2", removed)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d after cleanup, want 2", c.Len())
	}
}

func TestStatsDoesNotMutate(t *testing.T) {
	c := New[int]()

	c.Set("fresh", 1, time.Minute)
	c.Set("stale", 2, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	total, expired := c.Stats()
	if total != 2 {
		t.Errorf("Stats total = %d, want 2", total)
	}
	if expired != 1 {
		t.Errorf("Stats expired = %d, want 1", expired)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d after Stats, want 2 (Stats must not remove)", c.Len())
	}

	// Cleanup removes exactly the count Stats reported.
	if removed := c.CleanupExpired(); removed != expired {
		t.Errorf("CleanupExpired = %d, want %d", removed, expired)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%10)
				c.Set(key, i, time.Minute)
				c.Get(key)
				c.Stats()
				if j%25 == 0 {
					c.CleanupExpired()
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len = %d, want <= 10", c.Len())
	}
}
