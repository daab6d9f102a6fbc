// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type scriptedFetch struct {
	calls  atomic.Int32
	values []string
	err    error
}

func (f *scriptedFetch) fetch(context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func emptyList(v []string) bool { return len(v) == 0 }

var errUnavailable = errors.New("HTTP 503")

func TestSlotFreshValueIsNotRefetched(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := &scriptedFetch{err: errUnavailable}
	s := NewSlot("trending", time.Hour, f.fetch, WithClock[[]string](clock.Now), WithEmpty(emptyList))
	s.Seed([]string{"X", "Y"}, clock.Now())

	clock.Advance(30 * time.Minute)

	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Errorf("Get() = %v, want [X Y]", got)
	}
	if n := f.calls.Load(); n != 0 {
		t.Errorf("fresh slot fetched %d times", n)
	}
}

func TestSlotServesStaleWhenRefreshFails(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := &scriptedFetch{err: errUnavailable}
	var outcomes []Outcome
	var staleErr error
	s := NewSlot("trending", time.Hour, f.fetch,
		WithClock[[]string](clock.Now),
		WithEmpty(emptyList),
		WithOutcomeHook[[]string](func(o Outcome) { outcomes = append(outcomes, o) }),
		WithStaleHook[[]string](func(err error, _ time.Duration) { staleErr = err }),
	)
	s.Seed([]string{"X", "Y"}, clock.Now())

	clock.Advance(70 * time.Minute)

	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v, want stale value", err)
	}
	if !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Errorf("Get() = %v, want stale [X Y]", got)
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("expected one refresh attempt, got %d", n)
	}
	if !errors.Is(staleErr, errUnavailable) {
		t.Errorf("stale hook got %v", staleErr)
	}
	if len(outcomes) != 1 || outcomes[0] != OutcomeStale {
		t.Errorf("outcomes = %v, want [stale]", outcomes)
	}
}

func TestSlotEmptyRefreshKeepsPreviousValue(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := &scriptedFetch{values: nil}
	s := NewSlot("popular", time.Hour, f.fetch, WithClock[[]string](clock.Now), WithEmpty(emptyList))
	s.Seed([]string{"A"}, clock.Now().Add(-2*time.Hour))

	got, err := s.Get(context.Background())
	if err != nil || !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Get() = %v, %v; want [A], nil", got, err)
	}
}

func TestSlotMissWithoutPreviousValue(t *testing.T) {
	t.Parallel()

	f := &scriptedFetch{err: errUnavailable}
	s := NewSlot("featured", 24*time.Hour, f.fetch, WithEmpty(emptyList))

	got, err := s.Get(context.Background())
	if !errors.Is(err, errUnavailable) {
		t.Errorf("Get() error = %v, want wrapped errUnavailable", err)
	}
	if len(got) != 0 {
		t.Errorf("Get() = %v, want empty", got)
	}

	f2 := &scriptedFetch{}
	s2 := NewSlot("featured", 24*time.Hour, f2.fetch, WithEmpty(emptyList))
	if _, err := s2.Get(context.Background()); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("empty fetch error = %v, want ErrEmptyResult", err)
	}
}

func TestSlotRefreshPublishes(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := &scriptedFetch{values: []string{"New"}}
	var published []string
	var publishedAt time.Time
	s := NewSlot("trending", time.Hour, f.fetch,
		WithClock[[]string](clock.Now),
		WithEmpty(emptyList),
		WithPublishHook(func(v []string, at time.Time) { published, publishedAt = v, at }),
	)
	s.Seed([]string{"Old"}, clock.Now())
	clock.Advance(61 * time.Minute)

	got, err := s.Get(context.Background())
	if err != nil || !reflect.DeepEqual(got, []string{"New"}) {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if !reflect.DeepEqual(published, []string{"New"}) || !publishedAt.Equal(clock.Now()) {
		t.Errorf("publish hook got %v at %v", published, publishedAt)
	}

	_, at, ok := s.Peek()
	if !ok || !at.Equal(clock.Now()) {
		t.Errorf("Peek() fetchedAt = %v, ok=%v", at, ok)
	}
}

func TestSlotConcurrentCallersFetchOnce(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"A", "B"}, nil
	}
	s := NewSlot("trending", time.Hour, fetch, WithEmpty(emptyList))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := s.Get(context.Background()); err != nil || len(v) != 2 {
				t.Errorf("Get() = %v, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

func TestSlotSeedIgnoresOlderAndEmpty(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := NewSlot("trending", time.Hour, (&scriptedFetch{}).fetch, WithClock[[]string](clock.Now), WithEmpty(emptyList))

	s.Seed(nil, clock.Now())
	if _, _, ok := s.Peek(); ok {
		t.Fatal("empty seed should be ignored")
	}
	s.Seed([]string{"newer"}, clock.Now())
	s.Seed([]string{"older"}, clock.Now().Add(-time.Hour))

	v, _, _ := s.Peek()
	if !reflect.DeepEqual(v, []string{"newer"}) {
		t.Errorf("Peek() = %v, want [newer]", v)
	}
}
