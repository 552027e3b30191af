// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"fmt"

	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/ChainSafe/aggregator/lib/transaction"
)

// Batcher creates write batches. Both database.Database and
// database.Table implement it.
type Batcher interface {
	NewWriteBatch() database.WriteBatch
}

// Commit writes the write set to the database atomically. Deletions
// remove their key and other writes store their data.
func Commit(batcher Batcher, writeSet transaction.WriteSet) (err error) {
	batch := batcher.NewWriteBatch()

	writeSet.Scan(func(key transaction.StateKey, op transaction.WriteOp) bool {
		if op.IsDeletion() {
			err = batch.Delete([]byte(key))
		} else {
			data, _ := op.ExtractRawBytes()
			err = batch.Set([]byte(key), data)
		}
		if err != nil {
			err = fmt.Errorf("writing %s at key %s: %w", op.Kind(), key, err)
			return false
		}
		return true
	})
	if err != nil {
		batch.Cancel()
		return err
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing write batch: %w", err)
	}

	logger.Debugf("committed %d writes", writeSet.Len())
	return nil
}

// Seed sets the given values in the database, in a single batch.
func Seed(batcher Batcher, values map[transaction.StateKey][]byte) (err error) {
	ops := make([]transaction.KeyedWriteOp, 0, len(values))
	for key, value := range values {
		ops = append(ops, transaction.KeyedWriteOp{Key: key, Op: transaction.NewCreation(value)})
	}
	return Commit(batcher, transaction.NewWriteSet(ops...))
}
