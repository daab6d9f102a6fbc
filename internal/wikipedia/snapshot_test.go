// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/keepfeed/internal/config"
)

func testSnapshotStore(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, KindFeatured); err != nil || ok {
		t.Fatalf("Load(empty) = ok %v, err %v", ok, err)
	}

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	want := Snapshot{Articles: []string{"Apollo 11", "Barack Obama"}, FetchedAt: at}
	if err := store.Save(ctx, KindFeatured, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(ctx, KindFeatured)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if !slices.Equal(got.Articles, want.Articles) || !got.FetchedAt.Equal(at) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if _, ok, _ := store.Load(ctx, KindTrending); ok {
		t.Error("kinds share a snapshot key")
	}
}

func TestBadgerSnapshots(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshots")
	store, err := OpenBadgerSnapshots(path)
	if err != nil {
		t.Fatalf("OpenBadgerSnapshots() error = %v", err)
	}
	testSnapshotStore(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Snapshots survive a reopen.
	reopened, err := OpenBadgerSnapshots(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Load(context.Background(), KindFeatured); err != nil || !ok {
		t.Errorf("Load() after reopen = ok %v, err %v", ok, err)
	}
}

func TestRedisSnapshots(t *testing.T) {
	url := os.Getenv("KEEPFEED_TEST_REDIS_URL")
	if url == "" {
		t.Skip("KEEPFEED_TEST_REDIS_URL not set")
	}
	store, err := NewRedisSnapshots(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisSnapshots() error = %v", err)
	}
	defer store.Close()
	_ = store.rdb.Del(context.Background(), snapshotKey(KindFeatured), snapshotKey(KindTrending))
	testSnapshotStore(t, store)
}

func TestOpenSnapshots(t *testing.T) {
	t.Parallel()

	store, err := OpenSnapshots(context.Background(), config.SnapshotConfig{})
	if err != nil || store != nil {
		t.Fatalf("OpenSnapshots(disabled) = %v, %v; want nil, nil", store, err)
	}

	store, err = OpenSnapshots(context.Background(), config.SnapshotConfig{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatalf("OpenSnapshots(path) error = %v", err)
	}
	defer store.Close()
	if _, ok := store.(*BadgerSnapshots); !ok {
		t.Errorf("OpenSnapshots(path) = %T, want *BadgerSnapshots", store)
	}

	if _, err := OpenSnapshots(context.Background(), config.SnapshotConfig{RedisURL: "not a url"}); err == nil {
		t.Error("OpenSnapshots(bad redis url) should fail")
	}
}
