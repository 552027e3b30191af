// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package btree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_Ordered(t *testing.T) {
	t.Parallel()

	m := NewMap[string, int](0)
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{1, 2, 3}, m.Values())
	assert.Equal(t, 3, m.Len())

	var scanned []string
	m.Scan(func(key string, _ int) bool {
		scanned = append(scanned, key)
		return key != "b"
	})
	assert.Equal(t, []string{"a", "b"}, scanned)

	previous, replaced := m.Set("a", 10)
	assert.True(t, replaced)
	assert.Equal(t, 1, previous)

	deleted, ok := m.Delete("b")
	require.True(t, ok)
	assert.Equal(t, 2, deleted)
	assert.False(t, m.Has("b"))
}

func TestMap_ZeroValue(t *testing.T) {
	t.Parallel()

	var m Map[string, int]
	assert.Equal(t, 0, m.Len())
	m.Set("a", 1)
	value, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestMap_Copy(t *testing.T) {
	t.Parallel()

	original := NewMap[string, int](0)
	original.Set("a", 1)
	original.Set("b", 2)

	copied := original.Copy()
	copied.Set("a", 100)
	copied.Delete("b")
	copied.Set("c", 3)

	assert.Equal(t, []string{"a", "b"}, original.Keys())
	assert.Equal(t, []int{1, 2}, original.Values())
	assert.Equal(t, []string{"a", "c"}, copied.Keys())
	assert.Equal(t, []int{100, 3}, copied.Values())

	original.Set("d", 4)
	assert.False(t, copied.Has("d"))
}
