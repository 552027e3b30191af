// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/dgraph-io/badger/v4"
)

var _ database.WriteBatch = (*writeBatch)(nil)

// writeBatch wraps a badger write batch, which cannot be reused
// once flushed or cancelled. The badger write batch is created on
// the first write following a flush or cancel.
type writeBatch struct {
	badgerDatabase   *badger.DB
	badgerWriteBatch *badger.WriteBatch
}

func newWriteBatch(badgerDatabase *badger.DB) *writeBatch {
	return &writeBatch{
		badgerDatabase: badgerDatabase,
	}
}

func (wb *writeBatch) batch() *badger.WriteBatch {
	if wb.badgerWriteBatch == nil {
		wb.badgerWriteBatch = wb.badgerDatabase.NewWriteBatch()
	}
	return wb.badgerWriteBatch
}

// Set sets a value at the given key.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	return transformError(wb.batch().Set(key, value))
}

// Delete deletes the given key from the database.
func (wb *writeBatch) Delete(key []byte) (err error) {
	return transformError(wb.batch().Delete(key))
}

// Flush flushes the write batch to the database.
func (wb *writeBatch) Flush() (err error) {
	if wb.badgerWriteBatch == nil {
		return nil
	}
	err = wb.badgerWriteBatch.Flush()
	wb.badgerWriteBatch = nil
	return transformError(err)
}

// Cancel cancels the write batch.
func (wb *writeBatch) Cancel() {
	if wb.badgerWriteBatch == nil {
		return
	}
	wb.badgerWriteBatch.Cancel()
	wb.badgerWriteBatch = nil
}
