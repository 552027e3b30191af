// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

var _ WriteBatch = (*pebbleBatch)(nil)

type pebbleBatch struct {
	db    *pebble.DB
	batch *pebble.Batch
}

func (pb *pebbleBatch) Set(key, value []byte) error {
	err := pb.batch.Set(key, value, nil)
	if err != nil {
		return fmt.Errorf("setting to batch writer: %w", err)
	}
	return nil
}

func (pb *pebbleBatch) Delete(key []byte) error {
	err := pb.batch.Delete(key, nil)
	if err != nil {
		return fmt.Errorf("setting to batch delete: %w", err)
	}
	return nil
}

// Flush commits the batch and starts a new one, so the write
// batch can be reused.
func (pb *pebbleBatch) Flush() error {
	err := pb.batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("committing batch: %w", transformPebbleError(err))
	}
	_ = pb.batch.Close()
	pb.batch = pb.db.NewBatch()
	return nil
}

// Cancel drops the pending writes.
func (pb *pebbleBatch) Cancel() {
	pb.batch.Reset()
}
