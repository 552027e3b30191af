// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package btree provides an ordered map with cheap copy-on-write copies.
package btree

import (
	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

// Map is an ordered map backed by a btree.Map.
// The zero value is an empty map ready to use.
type Map[K constraints.Ordered, V any] struct {
	tr btree.Map[K, V]
}

// NewMap returns a new empty map with the given node degree.
// A degree of zero uses the btree default.
func NewMap[K constraints.Ordered, V any](degree int) *Map[K, V] {
	return &Map[K, V]{tr: *btree.NewMap[K, V](degree)}
}

// Copy returns a copy of the map in O(1). Nodes are shared between the
// two maps and only copied when either of them is mutated.
// Copy updates m and must not run concurrently with any other call on m.
func (m *Map[K, V]) Copy() *Map[K, V] {
	copied := m.tr.Copy()
	return &Map[K, V]{tr: *copied}
}

// Set sets or replaces the value for a key and returns the replaced value.
func (m *Map[K, V]) Set(key K, value V) (V, bool) {
	return m.tr.Set(key, value)
}

// Get a value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.tr.Get(key)
}

// Has returns true if the key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.tr.Get(key)
	return ok
}

// Delete a value for a key and returns the deleted value.
// Returns false if there was no value by that key found.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	return m.tr.Delete(key)
}

// Len returns the number of items in the map
func (m *Map[K, V]) Len() int {
	return m.tr.Len()
}

// Scan iterates over all items in ascending key order.
// Return false to stop iterating.
func (m *Map[K, V]) Scan(iter func(key K, value V) bool) {
	m.tr.Scan(iter)
}

// Keys returns all the keys in order.
func (m *Map[K, V]) Keys() []K {
	return m.tr.Keys()
}

// Values returns all the values in key order.
func (m *Map[K, V]) Values() []V {
	return m.tr.Values()
}
