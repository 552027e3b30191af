// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"github.com/ChainSafe/aggregator/pkg/btree"
)

// WriteSet is an immutable set of writes ordered by key.
// The zero value is an empty write set.
type WriteSet struct {
	ops *btree.Map[StateKey, WriteOp]
}

// NewWriteSet returns a write set holding the given writes.
// A later entry for a repeated key replaces the earlier one.
func NewWriteSet(ops ...KeyedWriteOp) WriteSet {
	m := NewWriteSetMut()
	for _, op := range ops {
		m.Insert(op)
	}
	return m.Freeze()
}

// Get returns the write at key.
func (ws WriteSet) Get(key StateKey) (WriteOp, bool) {
	if ws.ops == nil {
		return WriteOp{}, false
	}
	return ws.ops.Get(key)
}

// Len returns the number of writes.
func (ws WriteSet) Len() int {
	if ws.ops == nil {
		return 0
	}
	return ws.ops.Len()
}

// IsEmpty returns true if there are no writes.
func (ws WriteSet) IsEmpty() bool {
	return ws.Len() == 0
}

// Scan iterates over the writes in key order.
// Return false to stop iterating.
func (ws WriteSet) Scan(iter func(key StateKey, op WriteOp) bool) {
	if ws.ops == nil {
		return
	}
	ws.ops.Scan(iter)
}

// Entries returns the writes in key order.
func (ws WriteSet) Entries() []KeyedWriteOp {
	entries := make([]KeyedWriteOp, 0, ws.Len())
	ws.Scan(func(key StateKey, op WriteOp) bool {
		entries = append(entries, KeyedWriteOp{Key: key, Op: op})
		return true
	})
	return entries
}

// Mut returns a mutable copy of the write set.
// Mutating the copy leaves the write set untouched.
func (ws WriteSet) Mut() *WriteSetMut {
	if ws.ops == nil {
		return NewWriteSetMut()
	}
	return &WriteSetMut{ops: ws.ops.Copy()}
}

// WriteSetMut is a mutable write set.
type WriteSetMut struct {
	ops *btree.Map[StateKey, WriteOp]
}

// NewWriteSetMut returns an empty mutable write set.
func NewWriteSetMut() *WriteSetMut {
	return &WriteSetMut{ops: btree.NewMap[StateKey, WriteOp](0)}
}

// Insert sets the write for its key, replacing any existing write.
func (m *WriteSetMut) Insert(op KeyedWriteOp) {
	m.ops.Set(op.Key, op.Op)
}

// Get returns the write at key.
func (m *WriteSetMut) Get(key StateKey) (WriteOp, bool) {
	return m.ops.Get(key)
}

// Remove deletes the write at key, if any.
func (m *WriteSetMut) Remove(key StateKey) {
	m.ops.Delete(key)
}

// Len returns the number of writes.
func (m *WriteSetMut) Len() int {
	return m.ops.Len()
}

// Freeze returns an immutable write set of the current writes.
// The mutable write set can keep being used without affecting it.
func (m *WriteSetMut) Freeze() WriteSet {
	return WriteSet{ops: m.ops.Copy()}
}
