// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

import (
	"errors"
	"fmt"
	"os"

	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var logger = log.NewFromGlobal(log.AddContext("internal", "database"))

// SetLogLevel sets the level of the database package logger.
func SetLogLevel(level log.Level) {
	logger.Patch(log.SetLevel(level))
}

var _ Database = (*PebbleDB)(nil)

// PebbleDB is a database implementation using pebble.
type PebbleDB struct {
	path string
	db   *pebble.DB
}

// NewPebble opens a pebble database at the given path. The path is
// only used as a name when inMemory is true.
func NewPebble(path string, inMemory bool) (*PebbleDB, error) {
	opts := &pebble.Options{}
	if inMemory {
		opts.FS = vfs.NewMem()
	} else if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("opening pebble db: %w", err)
	}

	logger.Debugf("opened pebble database at %s (in memory: %t)", path, inMemory)
	return &PebbleDB{path: path, db: db}, nil
}

// Path returns the path the database was opened at.
func (p *PebbleDB) Path() string {
	return p.path
}

// Get returns a copy of the value at the given key.
// It returns the wrapped error ErrKeyNotFound if the key is not found.
func (p *PebbleDB) Get(key []byte) (value []byte, err error) {
	data, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: 0x%x", ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("getting 0x%x from database: %w", key, transformPebbleError(err))
	}

	value = make([]byte, len(data))
	copy(value, data)

	if err := closer.Close(); err != nil {
		return nil, fmt.Errorf("closing after get: %w", err)
	}
	return value, nil
}

// Set sets the value at the given key.
func (p *PebbleDB) Set(key, value []byte) error {
	err := p.db.Set(key, value, pebble.Sync)
	if err != nil {
		return fmt.Errorf("writing 0x%x with value 0x%x to database: %w",
			key, value, transformPebbleError(err))
	}
	return nil
}

// Delete deletes the given key. If the key is not found, no error is returned.
func (p *PebbleDB) Delete(key []byte) error {
	err := p.db.Delete(key, pebble.Sync)
	if err != nil {
		return fmt.Errorf("deleting 0x%x from database: %w", key, transformPebbleError(err))
	}
	return nil
}

// NewWriteBatch returns a write batch committed atomically on Flush.
func (p *PebbleDB) NewWriteBatch() WriteBatch {
	return &pebbleBatch{
		db:    p.db,
		batch: p.db.NewBatch(),
	}
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (p *PebbleDB) NewTable(prefix string) Table {
	return NewTable(p, prefix)
}

// Close closes the database.
func (p *PebbleDB) Close() error {
	return transformPebbleError(p.db.Close())
}

func transformPebbleError(pebbleErr error) (err error) {
	if errors.Is(pebbleErr, pebble.ErrClosed) {
		return fmt.Errorf("%w", ErrClosed)
	}
	return pebbleErr
}
