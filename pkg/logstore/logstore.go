// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logstore persists log records captured by the log server. Records
// are kept in arrival order under monotonically increasing sequence
// numbers, so a capture can be replayed after the emitting process is gone.
package logstore

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/maidsafe/maidsafe-utilities/pkg/serialisation"
)

// Record is one captured log record.
type Record struct {
	// Time is the capture time, not the emission time embedded in Body.
	Time time.Time `msgpack:"time"`
	// Source identifies the transport and remote address the record
	// arrived from, e.g. "tcp/127.0.0.1:53212".
	Source string `msgpack:"source"`
	// Body is the record as received, text or JSON depending on the
	// transport.
	Body []byte `msgpack:"body"`
}

// Store is an append-only leveldb store of captured records.
type Store struct {
	db *leveldb.DB

	mu      sync.Mutex
	nextSeq uint64
}

// New opens a persistent store at the given path, creating it if needed.
func New(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening log store: %w", err)
	}
	return newStore(db)
}

// NewInMemory returns a store backed by memory only.
func NewInMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory log store: %w", err)
	}
	return newStore(db)
}

func newStore(db *leveldb.DB) (*Store, error) {
	s := &Store{db: db}

	// Resume the sequence after the highest key already present.
	it := db.NewIterator(nil, nil)
	if it.Last() {
		s.nextSeq = binary.BigEndian.Uint64(it.Key()) + 1
	}
	it.Release()
	if err := it.Error(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("scanning log store: %w", err)
	}
	return s, nil
}

// Append stores the record and returns its sequence number.
func (s *Store) Append(rec Record) (uint64, error) {
	value, err := serialisation.Serialise(rec)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.nextSeq
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], seq)
	if err := s.db.Put(key[:], value, nil); err != nil {
		return 0, fmt.Errorf("storing record: %w", err)
	}
	s.nextSeq = seq + 1
	return seq, nil
}

// Iterate calls fn for every stored record in ascending sequence order,
// stopping early when fn returns stop or an error.
func (s *Store) Iterate(fn func(seq uint64, rec Record) (stop bool, err error)) error {
	it := s.db.NewIterator(nil, nil)
	defer it.Release()

	for it.Next() {
		var rec Record
		if err := serialisation.Deserialise(it.Value(), &rec); err != nil {
			return err
		}
		stop, err := fn(binary.BigEndian.Uint64(it.Key()), rec)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return it.Error()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
