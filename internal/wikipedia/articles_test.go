// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
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

// stubFetcher returns canned lists per kind and counts calls.
type stubFetcher struct {
	mu     sync.Mutex
	lists  map[Kind][]string
	errs   map[Kind]error
	calls  map[Kind]int
	limits map[Kind]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		lists:  make(map[Kind][]string),
		errs:   make(map[Kind]error),
		calls:  make(map[Kind]int),
		limits: make(map[Kind]int),
	}
}

func (f *stubFetcher) set(kind Kind, titles []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[kind] = titles
	f.errs[kind] = err
}

func (f *stubFetcher) count(kind Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

func (f *stubFetcher) fetch(kind Kind, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind]++
	f.limits[kind] = limit
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return slices.Clone(f.lists[kind]), nil
}

func (f *stubFetcher) Trending(_ context.Context, limit int) ([]string, error) {
	return f.fetch(KindTrending, limit)
}

func (f *stubFetcher) Featured(_ context.Context, limit int) ([]string, error) {
	return f.fetch(KindFeatured, limit)
}

func (f *stubFetcher) Popular(_ context.Context, limit int) ([]string, error) {
	return f.fetch(KindPopular, limit)
}

// memorySnapshots is an in-memory SnapshotStore.
type memorySnapshots struct {
	mu    sync.Mutex
	snaps map[Kind]Snapshot
	saves atomic.Int32
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snaps: make(map[Kind]Snapshot)}
}

func (m *memorySnapshots) Load(_ context.Context, kind Kind) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[kind]
	return s, ok, nil
}

func (m *memorySnapshots) Save(_ context.Context, kind Kind, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[kind] = snap
	m.saves.Add(1)
	return nil
}

func (m *memorySnapshots) Close() error { return nil }

func testArticlesConfig(clock *fakeClock) ArticlesConfig {
	return ArticlesConfig{
		TrendingTTL:   time.Hour,
		FeaturedTTL:   24 * time.Hour,
		PopularTTL:    time.Hour,
		TrendingLimit: 100,
		FeaturedLimit: 500,
		PopularLimit:  50,
		Now:           clock.Now,
	}
}

func TestArticlesServesFreshListWithoutRefetch(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := newStubFetcher()
	f.set(KindTrending, []string{"X", "Y"}, nil)
	a := NewArticles(f, testArticlesConfig(clock), nil)
	ctx := context.Background()

	if got := a.Trending(ctx); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("Trending() = %v", got)
	}
	clock.Advance(30 * time.Minute)
	f.set(KindTrending, []string{"Z"}, nil)

	if got := a.Trending(ctx); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("Trending() after 30m = %v, want cached [X Y]", got)
	}
	if n := f.count(KindTrending); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
	if f.limits[KindTrending] != 100 {
		t.Errorf("limit = %d, want 100", f.limits[KindTrending])
	}
}

func TestArticlesServesStaleListWhenRefreshFails(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := newStubFetcher()
	f.set(KindTrending, []string{"X", "Y"}, nil)
	a := NewArticles(f, testArticlesConfig(clock), nil)
	ctx := context.Background()

	_ = a.Trending(ctx)
	clock.Advance(70 * time.Minute)
	f.set(KindTrending, nil, ErrHTTPStatus)

	if got := a.Trending(ctx); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("Trending() after failed refresh = %v, want stale [X Y]", got)
	}
	if n := f.count(KindTrending); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestArticlesEmptyRefreshKeepsPreviousList(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := newStubFetcher()
	f.set(KindPopular, []string{"P"}, nil)
	a := NewArticles(f, testArticlesConfig(clock), nil)
	ctx := context.Background()

	_ = a.Popular(ctx)
	clock.Advance(2 * time.Hour)
	f.set(KindPopular, []string{}, nil)

	if got := a.Popular(ctx); !slices.Equal(got, []string{"P"}) {
		t.Errorf("Popular() = %v, want [P]", got)
	}
}

func TestArticlesNothingCachedReturnsEmpty(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.set(KindFeatured, nil, errors.New("network unreachable"))
	a := NewArticles(f, testArticlesConfig(newFakeClock()), nil)

	got := a.Featured(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("Featured() = %#v, want empty non-nil", got)
	}
	if got := a.Get(context.Background(), Kind("bogus")); len(got) != 0 {
		t.Errorf("Get(bogus) = %v, want empty", got)
	}
}

func TestArticlesKindsAreIndependent(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.set(KindTrending, []string{"T"}, nil)
	f.set(KindFeatured, []string{"F"}, nil)
	f.set(KindPopular, []string{"P"}, nil)
	a := NewArticles(f, testArticlesConfig(newFakeClock()), nil)
	ctx := context.Background()

	_ = a.Featured(ctx)
	if f.count(KindTrending) != 0 || f.count(KindPopular) != 0 {
		t.Error("fetching one kind touched another")
	}
	if got := a.Popular(ctx); !slices.Equal(got, []string{"P"}) {
		t.Errorf("Popular() = %v", got)
	}
}

func TestArticlesSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	snaps := newMemorySnapshots()
	f := newStubFetcher()
	f.set(KindTrending, []string{"X", "Y"}, nil)
	ctx := context.Background()

	first := NewArticles(f, testArticlesConfig(clock), snaps)
	_ = first.Trending(ctx)
	if n := snaps.saves.Load(); n != 1 {
		t.Fatalf("snapshot saves = %d, want 1", n)
	}

	// A new process restores the list and serves it while fresh.
	f.set(KindTrending, nil, ErrHTTPStatus)
	second := NewArticles(f, testArticlesConfig(clock), snaps)
	if n := second.Restore(ctx); n != 1 {
		t.Fatalf("Restore() = %d, want 1", n)
	}
	if got := second.Trending(ctx); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("Trending() after restore = %v", got)
	}
	if n := f.count(KindTrending); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}

	status := second.Status()
	if len(status) != 3 || status[0].Kind != KindTrending || status[0].Articles != 2 {
		t.Errorf("Status() = %+v", status)
	}
	if status[1].Articles != 0 || !status[1].FetchedAt.IsZero() {
		t.Errorf("featured status = %+v, want empty", status[1])
	}
}

func TestArticlesOverClient(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"query":{"recentchanges":[{"title":"Ada Lovelace"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL, PageviewsURL: srv.URL, UserAgent: "test", Timeout: time.Second})
	a := NewArticles(c, testArticlesConfig(newFakeClock()), nil)

	for i := 0; i < 3; i++ {
		if got := a.Trending(context.Background()); !slices.Equal(got, []string{"Ada Lovelace"}) {
			t.Fatalf("Trending() = %v", got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("random"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(random) error = %v, want ErrUnknownKind", err)
	}
}
