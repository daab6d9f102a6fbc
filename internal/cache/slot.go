// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrEmptyResult is reported when a fetch succeeds but yields nothing usable.
var ErrEmptyResult = errors.New("fetch returned an empty result")

// Outcome classifies one Slot.Get call.
type Outcome string

const (
	// OutcomeHit served a fresh value without fetching.
	OutcomeHit Outcome = "hit"
	// OutcomeRefreshed fetched and published a new value.
	OutcomeRefreshed Outcome = "refreshed"
	// OutcomeStale served an expired value because the refresh failed.
	OutcomeStale Outcome = "stale"
	// OutcomeMiss had nothing to serve.
	OutcomeMiss Outcome = "miss"
)

// FetchFunc loads a fresh value for a Slot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type snapshot[T any] struct {
	value     T
	fetchedAt time.Time
}

// Slot is a single-value cache with a TTL and stale-preferred fallback.
//
// Reads of a fresh value take no lock. A stale or empty slot is refreshed
// under the slot's mutex after re-checking freshness, so concurrent callers
// trigger one fetch. When a refresh fails or returns an empty value, the
// previous value is served instead of the failure.
type Slot[T any] struct {
	name  string
	ttl   time.Duration
	fetch FetchFunc[T]
	empty func(T) bool
	now   func() time.Time

	onPublish func(value T, fetchedAt time.Time)
	onOutcome func(Outcome)
	onStale   func(err error, age time.Duration)

	mu   sync.Mutex
	snap atomic.Pointer[snapshot[T]]
}

// SlotOption configures a Slot.
type SlotOption[T any] func(*Slot[T])

// WithClock replaces time.Now. Tests use it to age the slot.
func WithClock[T any](now func() time.Time) SlotOption[T] {
	return func(s *Slot[T]) { s.now = now }
}

// WithEmpty marks values that must not replace a previous value.
func WithEmpty[T any](empty func(T) bool) SlotOption[T] {
	return func(s *Slot[T]) { s.empty = empty }
}

// WithPublishHook runs after a fetched value is published, outside the lock.
func WithPublishHook[T any](fn func(value T, fetchedAt time.Time)) SlotOption[T] {
	return func(s *Slot[T]) { s.onPublish = fn }
}

// WithOutcomeHook observes every Get.
func WithOutcomeHook[T any](fn func(Outcome)) SlotOption[T] {
	return func(s *Slot[T]) { s.onOutcome = fn }
}

// WithStaleHook is told why a stale value was served.
func WithStaleHook[T any](fn func(err error, age time.Duration)) SlotOption[T] {
	return func(s *Slot[T]) { s.onStale = fn }
}

// NewSlot returns an empty slot named name.
func NewSlot[T any](name string, ttl time.Duration, fetch FetchFunc[T], opts ...SlotOption[T]) *Slot[T] {
	s := &Slot[T]{
		name:  name,
		ttl:   ttl,
		fetch: fetch,
		empty: func(T) bool { return false },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the slot name.
func (s *Slot[T]) Name() string { return s.name }

// TTL returns the freshness window.
func (s *Slot[T]) TTL() time.Duration { return s.ttl }

// Get returns the cached value when fresh, otherwise refreshes it. An error
// is returned only when the refresh failed and no previous value exists.
func (s *Slot[T]) Get(ctx context.Context) (T, error) {
	if snap := s.snap.Load(); snap != nil && s.fresh(snap) {
		s.observe(OutcomeHit)
		return snap.value, nil
	}

	value, outcome, published, err := s.refresh(ctx)
	s.observe(outcome)
	if published != nil && s.onPublish != nil {
		s.onPublish(published.value, published.fetchedAt)
	}
	return value, err
}

func (s *Slot[T]) refresh(ctx context.Context) (T, Outcome, *snapshot[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snap.Load()
	if prev != nil && s.fresh(prev) {
		return prev.value, OutcomeHit, nil, nil
	}

	value, err := s.fetch(ctx)
	if err == nil && s.empty(value) {
		err = ErrEmptyResult
	}
	if err == nil {
		next := &snapshot[T]{value: value, fetchedAt: s.now()}
		s.snap.Store(next)
		return value, OutcomeRefreshed, next, nil
	}

	if prev != nil {
		if s.onStale != nil {
			s.onStale(err, s.now().Sub(prev.fetchedAt))
		}
		return prev.value, OutcomeStale, nil, nil
	}

	var zero T
	return zero, OutcomeMiss, nil, fmt.Errorf("%s: %w", s.name, err)
}

// Seed installs value as if it had been fetched at fetchedAt. Empty values
// are ignored. Used to warm a slot from a persisted snapshot.
func (s *Slot[T]) Seed(value T, fetchedAt time.Time) {
	if s.empty(value) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.snap.Load(); cur != nil && cur.fetchedAt.After(fetchedAt) {
		return
	}
	s.snap.Store(&snapshot[T]{value: value, fetchedAt: fetchedAt})
}

// Peek returns the current value and its fetch time without refreshing.
func (s *Slot[T]) Peek() (value T, fetchedAt time.Time, ok bool) {
	snap := s.snap.Load()
	if snap == nil {
		return value, fetchedAt, false
	}
	return snap.value, snap.fetchedAt, true
}

func (s *Slot[T]) fresh(snap *snapshot[T]) bool {
	return s.now().Sub(snap.fetchedAt) < s.ttl
}

func (s *Slot[T]) observe(o Outcome) {
	if s.onOutcome != nil {
		s.onOutcome(o)
	}
}
