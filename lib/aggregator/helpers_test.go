// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package aggregator

import (
	"testing"

	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/ChainSafe/aggregator/pkg/u128"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var testLimit = u128.From64(15)

func encoded(value uint64) []byte {
	return delta.Serialize(u128.From64(value))
}

func add(value uint64) delta.Op {
	return delta.Addition(u128.From64(value), testLimit)
}

func sub(value uint64) delta.Op {
	return delta.Subtraction(u128.From64(value), testLimit)
}

func newChangeSetExt(t *testing.T, deltas []delta.KeyedOp, writes []transaction.KeyedWriteOp,
	events ...transaction.ContractEvent) ChangeSetExt {
	t.Helper()

	changeSet := newChangeSet(t, writes, events...)
	ext, err := NewChangeSetExt(delta.NewChangeSet(deltas...), changeSet,
		transaction.UnlimitedChangeSetConfigs())
	require.NoError(t, err)
	return ext
}

func newChangeSet(t *testing.T, writes []transaction.KeyedWriteOp,
	events ...transaction.ContractEvent) transaction.ChangeSet {
	t.Helper()

	changeSet, err := transaction.NewChangeSet(transaction.NewWriteSet(writes...), events,
		transaction.UnlimitedChangeSetConfigs())
	require.NoError(t, err)
	return changeSet
}

var entriesOptions = []cmp.Option{
	cmp.AllowUnexported(transaction.WriteOp{}, delta.Op{}),
	cmpopts.EquateEmpty(),
}

func assertEntries(t *testing.T, ext ChangeSetExt,
	deltas []delta.KeyedOp, writes []transaction.KeyedWriteOp) {
	t.Helper()

	if diff := cmp.Diff(deltas, ext.DeltaChangeSet().Entries(), entriesOptions...); diff != "" {
		t.Errorf("deltas mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(writes, ext.WriteSet().Entries(), entriesOptions...); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func assertWriteSet(t *testing.T, writes []transaction.KeyedWriteOp, writeSet transaction.WriteSet) {
	t.Helper()

	if diff := cmp.Diff(writes, writeSet.Entries(), entriesOptions...); diff != "" {
		t.Errorf("write set mismatch (-want +got):\n%s", diff)
	}
}
