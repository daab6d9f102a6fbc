// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package cache

import (
	"testing"
	"time"
)

func TestTTLBasicOperations(t *testing.T) {
	t.Parallel()

	c := NewTTL[string](time.Minute, 0)
	defer c.Close()

	c.Set("a", "alpha")
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	c.Delete("a")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTTLSlidingExpiration(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[int](10*time.Minute, 0)
	c.now = clock.Now
	defer c.Close()

	c.Set("session", 1)

	clock.Advance(8 * time.Minute)
	if _, ok := c.Get("session"); !ok {
		t.Fatal("entry expired too early")
	}

	// the hit above renewed the deadline
	clock.Advance(8 * time.Minute)
	if _, ok := c.Get("session"); !ok {
		t.Fatal("hit did not renew the deadline")
	}

	clock.Advance(11 * time.Minute)
	if _, ok := c.Get("session"); ok {
		t.Fatal("idle entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestTTLCleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[int](time.Minute, 0)
	c.now = clock.Now
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	clock.Advance(2 * time.Minute)
	c.Set("c", 3)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", c.Len())
	}
	if s := c.GetStats(); s.Evictions != 2 || s.TotalKeys != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestTTLCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewTTL[int](time.Minute, time.Millisecond)
	c.Close()
	c.Close()
}
