// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

import "github.com/ChainSafe/aggregator/internal/database"

var _ database.WriteBatch = (*writeBatch)(nil)

type operationKind uint8

const (
	operationSet operationKind = iota
	operationDelete
)

type operation struct {
	kind  operationKind
	key   string
	value []byte
}

// writeBatch records operations in memory and applies them
// to the database in order on Flush.
type writeBatch struct {
	database   *Database
	operations []operation
}

// Set records a set operation for the given key and value.
// The value byte slice is deep copied.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		kind:  operationSet,
		key:   string(key),
		value: copyBytes(value),
	})
	return nil
}

// Delete records a delete operation for the given key.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		kind: operationDelete,
		key:  string(key),
	})
	return nil
}

// Flush applies the recorded operations to the database
// atomically and clears them.
func (wb *writeBatch) Flush() (err error) {
	db := wb.database
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.panicOnClosed()

	for _, op := range wb.operations {
		switch op.kind {
		case operationSet:
			db.keyValues[op.key] = op.value
		case operationDelete:
			delete(db.keyValues, op.key)
		}
	}

	wb.operations = nil
	return nil
}

// Cancel drops the recorded operations.
func (wb *writeBatch) Cancel() {
	wb.operations = nil
}
