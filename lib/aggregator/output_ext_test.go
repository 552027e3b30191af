// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package aggregator

import (
	"testing"

	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func Test_TransactionOutputExt_skipsMaterialization(t *testing.T) {
	t.Parallel()

	events := []transaction.ContractEvent{{Key: "e"}}
	writeSet := transaction.NewWriteSet(transaction.KeyedWriteOp{
		Key: "x", Op: transaction.NewCreation(encoded(1)),
	})
	deltas := delta.NewChangeSet(delta.KeyedOp{Key: "a", Op: add(1)})

	testCases := map[string]struct {
		deltas *delta.ChangeSet
		status transaction.TransactionStatus
	}{
		"discarded_with_deltas": {
			deltas: deltas,
			status: transaction.Discard(4),
		},
		"kept_without_deltas": {
			status: transaction.Keep(0),
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			output := transaction.NewTransactionOutput(writeSet, events, 21, testCase.status)
			ext := NewTransactionOutputExt(testCase.deltas, output)

			// the mock fails the test if the state view is read
			view := NewMockStateView(ctrl)
			assert.Equal(t, output, ext.IntoTransactionOutput(view))

			writes := []transaction.KeyedWriteOp{
				{Key: "a", Op: transaction.NewModification(encoded(2))},
				{Key: "b", Op: transaction.NewModification(encoded(2))},
			}
			assert.Equal(t, output, ext.OutputWithDeltaWrites(writes))
		})
	}
}

func Test_TransactionOutputExt_IntoTransactionOutput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	events := []transaction.ContractEvent{{Key: "e", Data: []byte{1}}}
	writeSet := transaction.NewWriteSet(transaction.KeyedWriteOp{
		Key: "x", Op: transaction.NewCreation(encoded(1)),
	})
	output := transaction.NewTransactionOutput(writeSet, events, 21, transaction.Keep(0))
	ext := NewTransactionOutputExt(delta.NewChangeSet(
		delta.KeyedOp{Key: "a", Op: add(3)},
		delta.KeyedOp{Key: "b", Op: sub(1)},
	), output)

	view := NewMockStateView(ctrl)
	view.EXPECT().GetStateValue(transaction.StateKey("a")).Return(encoded(10), nil)
	view.EXPECT().GetStateValue(transaction.StateKey("b")).Return(encoded(5), nil)

	materialized := ext.IntoTransactionOutput(view)

	assertWriteSet(t, []transaction.KeyedWriteOp{
		{Key: "a", Op: transaction.NewModification(encoded(13))},
		{Key: "b", Op: transaction.NewModification(encoded(4))},
		{Key: "x", Op: transaction.NewCreation(encoded(1))},
	}, materialized.WriteSet())
	assert.Equal(t, events, materialized.Events())
	assert.Equal(t, uint64(21), materialized.GasUsed())
	assert.Equal(t, transaction.Keep(0), materialized.Status())

	// the original output is left as is
	assertWriteSet(t, []transaction.KeyedWriteOp{
		{Key: "x", Op: transaction.NewCreation(encoded(1))},
	}, ext.TransactionOutput().WriteSet())
}

func Test_TransactionOutputExt_IntoTransactionOutput_panics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	output := transaction.NewTransactionOutput(transaction.WriteSet{}, nil, 0, transaction.Keep(0))
	ext := NewTransactionOutputExt(delta.NewChangeSet(delta.KeyedOp{Key: "a", Op: add(3)}), output)

	view := NewMockStateView(ctrl)
	view.EXPECT().GetStateValue(transaction.StateKey("a")).Return(nil, nil)

	assert.PanicsWithError(t, "failed to apply aggregator delta outputs: "+
		"materializing delta at key a: base value not found",
		func() { ext.IntoTransactionOutput(view) })
}

func Test_TransactionOutputExt_OutputWithDeltaWrites(t *testing.T) {
	t.Parallel()

	events := []transaction.ContractEvent{{Key: "e"}}
	writeSet := transaction.NewWriteSet(
		transaction.KeyedWriteOp{Key: "k1", Op: transaction.NewModification(encoded(0))},
		transaction.KeyedWriteOp{Key: "x", Op: transaction.NewDeletion()},
	)
	output := transaction.NewTransactionOutput(writeSet, events, 7, transaction.Keep(0))
	ext := NewTransactionOutputExt(delta.NewChangeSet(
		delta.KeyedOp{Key: "k1", Op: add(5)},
		delta.KeyedOp{Key: "k2", Op: add(1)},
	), output)

	t.Run("one_write_per_delta", func(t *testing.T) {
		writes := []transaction.KeyedWriteOp{
			{Key: "k1", Op: transaction.NewModification(encoded(5))},
			{Key: "k2", Op: transaction.NewModification(encoded(1))},
		}

		merged := ext.OutputWithDeltaWrites(writes)

		assertWriteSet(t, []transaction.KeyedWriteOp{
			{Key: "k1", Op: transaction.NewModification(encoded(5))},
			{Key: "k2", Op: transaction.NewModification(encoded(1))},
			{Key: "x", Op: transaction.NewDeletion()},
		}, merged.WriteSet())
		assert.Equal(t, events, merged.Events())
		assert.Equal(t, uint64(7), merged.GasUsed())
		assert.Equal(t, transaction.Keep(0), merged.Status())
	})

	t.Run("missing_write", func(t *testing.T) {
		writes := []transaction.KeyedWriteOp{
			{Key: "k1", Op: transaction.NewModification(encoded(5))},
		}

		assert.PanicsWithValue(t, "expected 2 delta writes but got 1", func() {
			ext.OutputWithDeltaWrites(writes)
		})
	})
}

func Test_ChangeSetExt_IntoOutputExt(t *testing.T) {
	t.Parallel()

	event := transaction.ContractEvent{Key: "e"}
	ext := newChangeSetExt(t,
		[]delta.KeyedOp{{Key: "a", Op: add(1)}},
		[]transaction.KeyedWriteOp{{Key: "b", Op: transaction.NewCreation(encoded(2))}},
		event)

	outputExt := ext.IntoOutputExt(9, transaction.Retry())

	deltas, output := outputExt.Unpack()
	assert.Equal(t, []delta.KeyedOp{{Key: "a", Op: add(1)}}, deltas.Entries())
	assertWriteSet(t, []transaction.KeyedWriteOp{
		{Key: "b", Op: transaction.NewCreation(encoded(2))},
	}, output.WriteSet())
	assert.Equal(t, []transaction.ContractEvent{event}, output.Events())
	assert.Equal(t, uint64(9), output.GasUsed())
	assert.Equal(t, transaction.Retry(), output.Status())

	assert.True(t, FromTransactionOutput(output).DeltaChangeSet().IsEmpty())
}
