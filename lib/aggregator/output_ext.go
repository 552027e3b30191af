// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package aggregator

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/lib/transaction"
)

// ErrMaterialization wraps the error a TransactionOutputExt panics with
// when its deltas cannot be turned into writes.
var ErrMaterialization = errors.New("failed to apply aggregator delta outputs")

// TransactionOutputExt is a transaction output together with the
// aggregator deltas that still have to be written.
type TransactionOutputExt struct {
	deltaChangeSet *delta.ChangeSet
	output         transaction.TransactionOutput
}

// NewTransactionOutputExt returns a transaction output extended with
// the given deltas.
func NewTransactionOutputExt(deltaChangeSet *delta.ChangeSet,
	output transaction.TransactionOutput) TransactionOutputExt {
	return TransactionOutputExt{
		deltaChangeSet: deltaChangeSet.Copy(),
		output:         output,
	}
}

// FromTransactionOutput returns the transaction output without deltas.
func FromTransactionOutput(output transaction.TransactionOutput) TransactionOutputExt {
	return NewTransactionOutputExt(nil, output)
}

// DeltaChangeSet returns a copy of the pending deltas.
func (o TransactionOutputExt) DeltaChangeSet() *delta.ChangeSet {
	return o.deltaChangeSet.Copy()
}

// TransactionOutput returns the output without the pending deltas.
func (o TransactionOutputExt) TransactionOutput() transaction.TransactionOutput {
	return o.output
}

// Unpack returns a copy of the pending deltas and the output.
func (o TransactionOutputExt) Unpack() (*delta.ChangeSet, transaction.TransactionOutput) {
	return o.DeltaChangeSet(), o.output
}

// IntoTransactionOutput returns the output with every pending delta
// applied to its base value read from view.
// A discarded output or an output without deltas is returned as is,
// without reading from view.
// It panics with an error wrapping ErrMaterialization if any delta fails
// to apply.
// TODO: re-run the epilogue to charge gas once materialization can fail
// for user transactions.
func (o TransactionOutputExt) IntoTransactionOutput(view transaction.StateView) transaction.TransactionOutput {
	if o.skipMaterialization() {
		return o.output
	}

	writes, err := o.deltaChangeSet.TakeMaterialized(view)
	if err != nil {
		logger.Criticalf("cannot materialize %d aggregator deltas: %s", o.deltaChangeSet.Len(), err)
		panic(fmt.Errorf("%w: %w", ErrMaterialization, err))
	}

	return mergeDeltaWrites(o.output, writes)
}

// OutputWithDeltaWrites returns the output with the given writes of the
// pending deltas added to its write set, replacing existing writes.
// A discarded output or an output without deltas is returned as is.
// It panics if there is not exactly one write per pending delta.
func (o TransactionOutputExt) OutputWithDeltaWrites(writes []transaction.KeyedWriteOp) transaction.TransactionOutput {
	if o.skipMaterialization() {
		return o.output
	}

	if o.deltaChangeSet.Len() != len(writes) {
		panic(fmt.Sprintf("expected %d delta writes but got %d",
			o.deltaChangeSet.Len(), len(writes)))
	}

	return mergeDeltaWrites(o.output, writes)
}

func (o TransactionOutputExt) skipMaterialization() bool {
	return o.output.Status().IsDiscarded() || o.deltaChangeSet.IsEmpty()
}

func mergeDeltaWrites(output transaction.TransactionOutput,
	writes []transaction.KeyedWriteOp) transaction.TransactionOutput {
	writeSet, events, gasUsed, status := output.Unpack()

	writeSetMut := writeSet.Mut()
	for _, write := range writes {
		writeSetMut.Insert(write)
	}
	materializedCounter.Add(float64(len(writes)))
	logger.Tracef("merged %d delta writes into transaction output", len(writes))

	return transaction.NewTransactionOutput(writeSetMut.Freeze(), events, gasUsed, status)
}
