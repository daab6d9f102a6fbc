// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/logging"
)

const snapshotKeyPrefix = "articles:"

// Snapshot is a persisted article list.
type Snapshot struct {
	Articles  []string  `json:"articles"`
	FetchedAt time.Time `json:"fetched_at"`
}

// SnapshotStore persists the last good list of each kind.
type SnapshotStore interface {
	Load(ctx context.Context, kind Kind) (Snapshot, bool, error)
	Save(ctx context.Context, kind Kind, snap Snapshot) error
	Close() error
}

func snapshotKey(kind Kind) string {
	return snapshotKeyPrefix + string(kind)
}

// OpenSnapshots opens the store selected by cfg. It returns nil, nil when
// snapshots are disabled.
func OpenSnapshots(ctx context.Context, cfg config.SnapshotConfig) (SnapshotStore, error) {
	switch {
	case cfg.Path != "":
		store, err := OpenBadgerSnapshots(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case cfg.RedisURL != "":
		store, err := NewRedisSnapshots(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

// BadgerSnapshots stores snapshots in an embedded BadgerDB.
type BadgerSnapshots struct {
	db *badger.DB
}

// OpenBadgerSnapshots opens (or creates) a BadgerDB at path.
func OpenBadgerSnapshots(path string) (*BadgerSnapshots, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	opts.MemTableSize = 8 << 20
	opts.ValueLogFileSize = 16 << 20
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Info().Str("path", path).Msg("Article snapshot store opened")
	return &BadgerSnapshots{db: db}, nil
}

// NewBadgerSnapshots wraps an open database.
func NewBadgerSnapshots(db *badger.DB) *BadgerSnapshots {
	return &BadgerSnapshots{db: db}
}

// Load implements SnapshotStore.
func (s *BadgerSnapshots) Load(_ context.Context, kind Kind) (Snapshot, bool, error) {
	var snap Snapshot
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey(kind)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

// Save implements SnapshotStore.
func (s *BadgerSnapshots) Save(_ context.Context, kind Kind, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey(kind)), data)
	})
}

// Close implements SnapshotStore.
func (s *BadgerSnapshots) Close() error {
	return s.db.Close()
}

// RedisSnapshots stores snapshots in Redis without expiry.
type RedisSnapshots struct {
	rdb *redis.Client
}

// NewRedisSnapshots connects to redisURL and verifies it with PING.
func NewRedisSnapshots(ctx context.Context, redisURL string) (*RedisSnapshots, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logging.Info().Str("addr", opts.Addr).Msg("Article snapshot store connected to Redis")
	return &RedisSnapshots{rdb: rdb}, nil
}

// NewRedisSnapshotsWithClient wraps an existing client.
func NewRedisSnapshotsWithClient(rdb *redis.Client) *RedisSnapshots {
	return &RedisSnapshots{rdb: rdb}
}

// Load implements SnapshotStore.
func (s *RedisSnapshots) Load(ctx context.Context, kind Kind) (Snapshot, bool, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("redis get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// Save implements SnapshotStore.
func (s *RedisSnapshots) Save(ctx context.Context, kind Kind, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.rdb.Set(ctx, snapshotKey(kind), data, 0).Err()
}

// Close implements SnapshotStore.
func (s *RedisSnapshots) Close() error {
	return s.rdb.Close()
}
