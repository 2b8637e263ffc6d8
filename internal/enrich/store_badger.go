// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/boxdstats/internal/logging"
)

const badgerKeyPrefix = "meta:"

// BadgerStore persists metadata in BadgerDB with a per-entry TTL.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore opens (or creates) a store at path.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for metadata: %w", err)
	}
	return NewBadgerStoreFromDB(db, ttl), nil
}

// NewBadgerStoreFromDB wraps an open database.
func NewBadgerStoreFromDB(db *badger.DB, ttl time.Duration) *BadgerStore {
	return &BadgerStore{db: db, ttl: ttl}
}

// Get implements Store. Read and decode errors count as a miss.
func (s *BadgerStore) Get(key TitleKey) (*Metadata, bool) {
	var md Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + string(key)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &md)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("component", "enrich").Str("key", string(key)).Msg("Metadata store read failed")
		}
		return nil, false
	}
	return &md, true
}

// Put implements Store. Nil metadata is ignored; write errors are logged.
func (s *BadgerStore) Put(key TitleKey, md *Metadata) {
	if md == nil {
		return
	}
	data, err := json.Marshal(md)
	if err != nil {
		logging.Warn().Err(err).Str("component", "enrich").Msg("Metadata encode failed")
		return
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerKeyPrefix+string(key)), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Warn().Err(err).Str("component", "enrich").Str("key", string(key)).Msg("Metadata store write failed")
	}
}

// gcDiscardRatio is the share of stale data a value log file needs before
// it is rewritten.
const gcDiscardRatio = 0.5

// Maintain runs value log garbage collection until no file qualifies.
func (s *BadgerStore) Maintain() error {
	for rewritten := 0; ; rewritten++ {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) ||
			errors.Is(err, badger.ErrGCInMemoryMode) {
			if rewritten > 0 {
				logging.Debug().Str("component", "enrich").Int("files", rewritten).Msg("Metadata store value log compacted")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("metadata store gc: %w", err)
		}
	}
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
