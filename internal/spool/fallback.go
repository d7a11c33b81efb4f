// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package spool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/models"
)

// prefixEvent keys pending events. UUIDv7 suffixes keep keys in write order.
const prefixEvent = "event:"

// FallbackEntry is one event held by the fallback store.
type FallbackEntry struct {
	Key   []byte
	Event models.LogEvent
}

// FallbackSpool is a BadgerDB store that takes events the spool file could
// not. Entries are written with SyncWrites so an accepted event survives a
// crash.
type FallbackSpool struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// OpenFallback opens (or creates) the BadgerDB directory at path.
func OpenFallback(path string) (*FallbackSpool, error) {
	if path == "" {
		return nil, fmt.Errorf("fallback spool path is required")
	}

	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	opts.NumCompactors = 2
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().Str("path", path).Msg("Fallback spool opened")
	return &FallbackSpool{db: db}, nil
}

// Append stores event under a new time-ordered key.
func (f *FallbackSpool) Append(event *models.LogEvent) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrFallbackClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal fallback entry: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate fallback key: %w", err)
	}
	key := []byte(prefixEvent + id.String())

	if err := f.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}
	return nil
}

// Pending returns up to limit stored events in write order. limit <= 0
// returns all of them. Undecodable values are logged and skipped; they stay
// in the store.
func (f *FallbackSpool) Pending(ctx context.Context, limit int) ([]FallbackEntry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, ErrFallbackClosed
	}

	var entries []FallbackEntry
	err := f.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixEvent)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(entries) >= limit {
				return nil
			}

			item := it.Item()
			var entry FallbackEntry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry.Event)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Fallback spool failed to unmarshal entry")
				continue
			}
			entry.Key = item.KeyCopy(nil)
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate fallback entries: %w", err)
	}
	return entries, nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (f *FallbackSpool) Delete(key []byte) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrFallbackClosed
	}

	err := f.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete fallback entry: %w", err)
	}
	return nil
}

// Count returns the number of stored events.
func (f *FallbackSpool) Count() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return 0, ErrFallbackClosed
	}

	n := 0
	err := f.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixEvent)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count fallback entries: %w", err)
	}
	return n, nil
}

// Close closes the database. Safe to call more than once.
func (f *FallbackSpool) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Fallback spool closed")
	return nil
}
