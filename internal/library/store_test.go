// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingLoader serves fixed documents and counts reads.
type countingLoader struct {
	mu    sync.Mutex
	docs  map[string]string
	stamp map[string]Stamp
	reads atomic.Int32
	gate  chan struct{}
}

func newCountingLoader(docs map[string]string) *countingLoader {
	l := &countingLoader{docs: docs, stamp: make(map[string]Stamp)}
	for path := range docs {
		l.stamp[path] = Stamp{ModTime: time.Unix(1000, 0), Size: int64(len(docs[path]))}
	}
	return l
}

func (l *countingLoader) Read(_ context.Context, path string) (Document, error) {
	l.reads.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.docs[path]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{Data: []byte(data), Origin: OriginFile, Location: path, Stamp: l.stamp[path]}, nil
}

func (l *countingLoader) Stat(path string) (Stamp, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stamp[path]
	return s, ok
}

func (l *countingLoader) rewrite(path, data string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[path] = data
	l.stamp[path] = Stamp{ModTime: l.stamp[path].ModTime.Add(time.Second), Size: int64(len(data))}
}

func TestStoreLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader(map[string]string{"lib.json": `[{"Name":"A"},{"Name":"B"}]`})
	store := NewStore(loader)
	ctx := context.Background()

	first, err := store.Load(ctx, "lib.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := store.Load(ctx, "lib.json")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if &again[0] != &first[0] {
			t.Fatal("Load() returned a different slice for the same path")
		}
	}
	if got := loader.reads.Load(); got != 1 {
		t.Errorf("reads = %d, want 1", got)
	}
}

func TestStoreReloadsChangedFile(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader(map[string]string{"lib.json": `[{"Name":"A"}]`})
	store := NewStore(loader)
	ctx := context.Background()

	if _, err := store.Load(ctx, "lib.json"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	loader.rewrite("lib.json", `[{"Name":"A"},{"Name":"B"}]`)

	entries, err := store.Load(ctx, "lib.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries after rewrite = %d, want 2", len(entries))
	}
	if got := loader.reads.Load(); got != 2 {
		t.Errorf("reads = %d, want 2", got)
	}
}

func TestStoreInvalidate(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader(map[string]string{"lib.json": `[{"Name":"A"}]`})
	store := NewStore(loader)
	ctx := context.Background()

	if _, err := store.Load(ctx, "lib.json"); err != nil {
		t.Fatal(err)
	}
	store.Invalidate("lib.json")
	store.Invalidate("never-loaded.json")
	if _, err := store.Load(ctx, "lib.json"); err != nil {
		t.Fatal(err)
	}
	if got := loader.reads.Load(); got != 2 {
		t.Errorf("reads = %d, want 2", got)
	}
}

func TestStoreConcurrentFirstLoadsShareOneRead(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader(map[string]string{"lib.json": `[{"Name":"A"}]`})
	loader.gate = make(chan struct{})
	store := NewStore(loader)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]Entry, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.Load(context.Background(), "lib.json")
		}(i)
	}

	// Let the first read start, then release it.
	for loader.reads.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	if got := loader.reads.Load(); got != 1 {
		t.Errorf("reads = %d, want 1", got)
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Errorf("caller %d got %d entries", i, len(r))
		}
	}
}

func TestStoreErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(newCountingLoader(map[string]string{"bad.json": `{"Name":"A"}`}))
	ctx := context.Background()

	if _, err := store.Load(ctx, ""); !errors.Is(err, ErrNoPath) {
		t.Errorf("empty path error = %v, want ErrNoPath", err)
	}
	if _, err := store.Load(ctx, "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing path error = %v, want ErrNotFound", err)
	}
	if _, err := store.Load(ctx, "bad.json"); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("bad shape error = %v, want ErrUnsupportedShape", err)
	}
}

func TestSourceLoaderFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "export.json")
	if err := os.WriteFile(file, []byte(`[{"Name":"A"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	libDir := filepath.Join(dir, "playnite")
	if err := os.Mkdir(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	emptyDir := filepath.Join(dir, "empty")
	if err := os.Mkdir(emptyDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(libDir, "games.json"), []byte(`{"Games":[{"Name":"B"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(time.Second, "test-agent")
	ctx := context.Background()

	doc, err := loader.Read(ctx, file)
	if err != nil {
		t.Fatalf("Read(file) error = %v", err)
	}
	if doc.Origin != OriginFile || doc.Stamp.Size != int64(len(`[{"Name":"A"}]`)) {
		t.Errorf("Read(file) = origin %q stamp %+v", doc.Origin, doc.Stamp)
	}

	doc, err = loader.Read(ctx, libDir)
	if err != nil {
		t.Fatalf("Read(dir) error = %v", err)
	}
	if doc.Location != filepath.Join(libDir, "games.json") {
		t.Errorf("Read(dir) location = %q", doc.Location)
	}

	if _, err := loader.Read(ctx, emptyDir); !errors.Is(err, ErrMissingGamesJSON) {
		t.Errorf("Read(empty dir) error = %v, want ErrMissingGamesJSON", err)
	}
	if _, err := loader.Read(ctx, filepath.Join(dir, "nope.json")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := loader.Read(ctx, "  "); !errors.Is(err, ErrNoPath) {
		t.Errorf("Read(blank) error = %v, want ErrNoPath", err)
	}

	if stamp, ok := loader.Stat(libDir); !ok || stamp.Size == 0 {
		t.Errorf("Stat(dir) = %+v, %v", stamp, ok)
	}
	if _, ok := loader.Stat("https://example.com/games.json"); ok {
		t.Error("Stat(url) should report false")
	}
}

func TestSourceLoaderURL(t *testing.T) {
	t.Parallel()

	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/games.json":
			_, _ = w.Write([]byte(`[{"Name":"Remote"}]`))
		default:
			http.Error(w, "gone fishing", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	loader := NewLoader(time.Second, "keepfeed-test/1.0")
	ctx := context.Background()

	doc, err := loader.Read(ctx, srv.URL+"/games.json")
	if err != nil {
		t.Fatalf("Read(url) error = %v", err)
	}
	if doc.Origin != OriginURL || string(doc.Data) != `[{"Name":"Remote"}]` {
		t.Errorf("Read(url) = %q from %q", doc.Data, doc.Origin)
	}
	if got, _ := gotAgent.Load().(string); got != "keepfeed-test/1.0" {
		t.Errorf("User-Agent = %q", got)
	}

	_, err = loader.Read(ctx, srv.URL+"/down")
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("Read(503) error = %v, want ErrHTTPStatus", err)
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "gone fishing") {
		t.Errorf("error %q should carry the status and body excerpt", err)
	}
}

func TestStoreMemoizesURLs(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"Name":"Remote"}]`))
	}))
	defer srv.Close()

	store := NewStore(NewLoader(time.Second, "test"))
	for i := 0; i < 3; i++ {
		if _, err := store.Load(context.Background(), srv.URL); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}
