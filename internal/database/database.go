// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package database defines the key value store interfaces used to hold
// committed state, together with a pebble implementation.
package database

import "errors"

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = errors.New("key not found")
	// ErrClosed is returned when an operation is attempted on a closed database.
	ErrClosed = errors.New("database is closed")
)

// Reader reads values from a key value store.
type Reader interface {
	// Get returns the value at the given key, or an error wrapping
	// ErrKeyNotFound if the key is not set.
	Get(key []byte) (value []byte, err error)
}

// Writer writes values to a key value store.
type Writer interface {
	Set(key, value []byte) error
	// Delete deletes the key, and returns no error if the key is not set.
	Delete(key []byte) error
}

// WriteBatch buffers writes until Flush is called.
// It is not safe for concurrent use.
type WriteBatch interface {
	Writer
	Flush() error
	Cancel()
}

// Table is a view of a database where all keys share a prefix.
type Table interface {
	Reader
	Writer
	NewWriteBatch() WriteBatch
}

// Database wraps all database operations. All methods are safe for concurrent use.
type Database interface {
	Reader
	Writer
	NewWriteBatch() WriteBatch
	NewTable(prefix string) Table
	Close() error
}
