// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package state reads base values from, and commits finished write
// sets to, a key value database.
package state

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/ChainSafe/aggregator/lib/transaction"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "state"))

// SetLogLevel sets the level of the state package logger.
func SetLogLevel(level log.Level) {
	logger.Patch(log.SetLevel(level))
}

// ErrRead is returned when the database fails to read a state value.
var ErrRead = errors.New("cannot read state value")

var _ transaction.StateView = (*View)(nil)

// View is a transaction.StateView reading state values from a database.
type View struct {
	reader database.Reader
}

// NewView returns a state view reading from the given database or table.
func NewView(reader database.Reader) *View {
	return &View{reader: reader}
}

// GetStateValue returns the value stored at key, or nil if there is none.
func (v *View) GetStateValue(key transaction.StateKey) (value []byte, err error) {
	value, err = v.reader.Get([]byte(key))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: at key %s: %w", ErrRead, key, err)
	}
	return value, nil
}
