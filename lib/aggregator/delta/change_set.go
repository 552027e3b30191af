// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package delta

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/ChainSafe/aggregator/pkg/btree"
	"github.com/ChainSafe/aggregator/pkg/u128"
)

var (
	// ErrBaseValueNotFound is returned when materializing a delta whose
	// key has no value in the state view.
	ErrBaseValueNotFound = errors.New("base value not found")
	// ErrStateView is returned when the state view fails to read a base value.
	ErrStateView = errors.New("cannot read base value")
)

// KeyedOp is a delta op together with the key it targets.
type KeyedOp struct {
	Key transaction.StateKey
	Op  Op
}

// ChangeSet is a set of delta ops ordered by key, at most one per key.
// The zero value is an empty change set ready to use, and a nil change set
// can be read as an empty one.
type ChangeSet struct {
	ops *btree.Map[transaction.StateKey, Op]
}

// NewChangeSet returns a change set holding the given ops.
// A later entry for a repeated key replaces the earlier one.
func NewChangeSet(ops ...KeyedOp) *ChangeSet {
	changeSet := &ChangeSet{}
	for _, op := range ops {
		changeSet.Insert(op.Key, op.Op)
	}
	return changeSet
}

// Insert sets the op for key, replacing any existing op.
func (c *ChangeSet) Insert(key transaction.StateKey, op Op) {
	if c.ops == nil {
		c.ops = btree.NewMap[transaction.StateKey, Op](0)
	}
	c.ops.Set(key, op)
}

// Get returns the op at key.
func (c *ChangeSet) Get(key transaction.StateKey) (Op, bool) {
	if c == nil || c.ops == nil {
		return Op{}, false
	}
	return c.ops.Get(key)
}

// Remove deletes the op at key and returns true if there was one.
func (c *ChangeSet) Remove(key transaction.StateKey) bool {
	if c == nil || c.ops == nil {
		return false
	}
	_, ok := c.ops.Delete(key)
	return ok
}

// Len returns the number of ops.
func (c *ChangeSet) Len() int {
	if c == nil || c.ops == nil {
		return 0
	}
	return c.ops.Len()
}

// IsEmpty returns true if there are no ops.
func (c *ChangeSet) IsEmpty() bool {
	return c.Len() == 0
}

// Scan iterates over the ops in key order.
// Return false to stop iterating.
func (c *ChangeSet) Scan(iter func(key transaction.StateKey, op Op) bool) {
	if c == nil || c.ops == nil {
		return
	}
	c.ops.Scan(iter)
}

// Entries returns the ops in key order.
func (c *ChangeSet) Entries() []KeyedOp {
	entries := make([]KeyedOp, 0, c.Len())
	c.Scan(func(key transaction.StateKey, op Op) bool {
		entries = append(entries, KeyedOp{Key: key, Op: op})
		return true
	})
	return entries
}

// Copy returns a copy of the change set. Nodes are shared until either
// change set is modified.
func (c *ChangeSet) Copy() *ChangeSet {
	if c == nil || c.ops == nil {
		return &ChangeSet{}
	}
	return &ChangeSet{ops: c.ops.Copy()}
}

// TakeMaterialized reads the base value of every key from view and returns
// the modification writes holding the result of applying each op, in key
// order. It stops at the first failing key.
func (c *ChangeSet) TakeMaterialized(view transaction.StateView) (
	writes []transaction.KeyedWriteOp, err error) {
	writes = make([]transaction.KeyedWriteOp, 0, c.Len())
	c.Scan(func(key transaction.StateKey, op Op) bool {
		var write transaction.WriteOp
		write, err = materialize(view, key, op)
		if err != nil {
			err = fmt.Errorf("materializing delta at key %s: %w", key, err)
			return false
		}
		writes = append(writes, transaction.KeyedWriteOp{Key: key, Op: write})
		return true
	})
	if err != nil {
		return nil, err
	}
	return writes, nil
}

func materialize(view transaction.StateView, key transaction.StateKey, op Op) (
	write transaction.WriteOp, err error) {
	encoded, err := view.GetStateValue(key)
	if err != nil {
		return write, fmt.Errorf("%w: %w", ErrStateView, err)
	} else if encoded == nil {
		return write, ErrBaseValueNotFound
	}

	base, err := u128.Decode(encoded)
	if err != nil {
		return write, fmt.Errorf("decoding base value: %w", err)
	}

	value, err := op.ApplyTo(base)
	if err != nil {
		return write, err
	}

	return transaction.NewModification(Serialize(value)), nil
}

// Serialize encodes an aggregator value.
func Serialize(value u128.Uint128) []byte {
	return value.Encode()
}

// Deserialize decodes an aggregator value and panics if the encoding
// is invalid.
func Deserialize(encoded []byte) u128.Uint128 {
	value, err := u128.Decode(encoded)
	if err != nil {
		panic(fmt.Sprintf("unexpected aggregator value: %s", err))
	}
	return value
}
