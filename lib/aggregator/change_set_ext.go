// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package aggregator

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/ChainSafe/aggregator/pkg/u128"
)

var (
	// ErrDeltaWriteOverlap is returned when a key has both a pending delta
	// and a write in the same change set.
	ErrDeltaWriteOverlap = errors.New("key has both a pending delta and a write")
	// ErrApplyToDeleted is returned when a delta targets a deleted value.
	ErrApplyToDeleted = errors.New("cannot apply aggregator delta to deleted value")
	// ErrDeltaApplication is returned when applying or merging a delta fails.
	ErrDeltaApplication = errors.New("failed to apply aggregator delta")
	// ErrDecodeValue is returned when a written value targeted by a delta
	// is not a valid aggregator value.
	ErrDecodeValue = errors.New("cannot decode aggregator value")
)

// ChangeSetExt is a change set together with the aggregator deltas that
// are still pending. A key is either pending or written, never both.
//
// Squashing returns a new ChangeSetExt and leaves both operands untouched.
// A ChangeSetExt must not be used by several goroutines at once.
type ChangeSetExt struct {
	deltaChangeSet *delta.ChangeSet
	changeSet      transaction.ChangeSet
	checker        transaction.CheckChangeSet
}

// NewChangeSetExt returns a change set extended with the given deltas.
// The checker is used to validate every change set produced by squashing.
// It returns an error wrapping ErrDeltaWriteOverlap if a key is both in
// the delta change set and in the write set.
func NewChangeSetExt(deltaChangeSet *delta.ChangeSet, changeSet transaction.ChangeSet,
	checker transaction.CheckChangeSet) (ext ChangeSetExt, err error) {
	deltaChangeSet.Scan(func(key transaction.StateKey, _ delta.Op) bool {
		if _, ok := changeSet.WriteSet().Get(key); ok {
			err = fmt.Errorf("%w: %s", ErrDeltaWriteOverlap, key)
			return false
		}
		return true
	})
	if err != nil {
		return ext, err
	}

	return ChangeSetExt{
		deltaChangeSet: deltaChangeSet.Copy(),
		changeSet:      changeSet,
		checker:        checker,
	}, nil
}

// EmptyChangeSetExt returns a change set without deltas, writes nor events.
func EmptyChangeSetExt(checker transaction.CheckChangeSet) ChangeSetExt {
	return ChangeSetExt{
		deltaChangeSet: delta.NewChangeSet(),
		changeSet:      transaction.EmptyChangeSet(),
		checker:        checker,
	}
}

// DeltaChangeSet returns a copy of the pending deltas.
func (c ChangeSetExt) DeltaChangeSet() *delta.ChangeSet {
	return c.deltaChangeSet.Copy()
}

// ChangeSet returns the change set of writes and events.
func (c ChangeSetExt) ChangeSet() transaction.ChangeSet {
	return c.changeSet
}

// WriteSet returns the write set of the change set.
func (c ChangeSetExt) WriteSet() transaction.WriteSet {
	return c.changeSet.WriteSet()
}

// Unpack returns a copy of the pending deltas and the change set.
func (c ChangeSetExt) Unpack() (*delta.ChangeSet, transaction.ChangeSet) {
	return c.DeltaChangeSet(), c.changeSet
}

// SquashDeltaChangeSet returns the result of applying the deltas of other
// after c. A delta targeting a written value is applied to it, otherwise
// it is merged with the pending delta for its key, if any.
func (c ChangeSetExt) SquashDeltaChangeSet(other *delta.ChangeSet) (squashed ChangeSetExt, err error) {
	deltas := c.deltaChangeSet.Copy()
	writeSet, events := c.changeSet.Unpack()
	writes := writeSet.Mut()

	other.Scan(func(key transaction.StateKey, op delta.Op) bool {
		err = squashDelta(deltas, writes, key, op)
		return err == nil
	})
	if err != nil {
		squashFailureCounter.Inc()
		return squashed, err
	}
	deltaSquashCounter.Add(float64(other.Len()))

	return c.finalize(deltas, writes, events)
}

func squashDelta(deltas *delta.ChangeSet, writes *transaction.WriteSetMut,
	key transaction.StateKey, op delta.Op) error {
	write, written := writes.Get(key)
	if written {
		if write.IsDeletion() {
			return fmt.Errorf("%w at key %s", ErrApplyToDeleted, key)
		}

		data, _ := write.ExtractRawBytes()
		base, err := u128.Decode(data)
		if err != nil {
			return fmt.Errorf("%w at key %s: %w", ErrDecodeValue, key, err)
		}

		value, err := op.ApplyTo(base)
		if err != nil {
			return fmt.Errorf("%w at key %s: %w", ErrDeltaApplication, key, err)
		}

		writes.Insert(transaction.KeyedWriteOp{
			Key: key,
			Op:  write.WithData(delta.Serialize(value)),
		})
		return nil
	}

	existing, pending := deltas.Get(key)
	if !pending {
		deltas.Insert(key, op)
		return nil
	}

	merged, err := op.MergeOnto(existing)
	if err != nil {
		return fmt.Errorf("%w at key %s: %w", ErrDeltaApplication, key, err)
	}
	deltas.Insert(key, merged)
	return nil
}

// SquashChangeSet returns the result of applying the writes and events of
// other after c. A write to a key with a pending delta supersedes the delta.
func (c ChangeSetExt) SquashChangeSet(other transaction.ChangeSet) (squashed ChangeSetExt, err error) {
	deltas := c.deltaChangeSet.Copy()
	writeSet, events := c.changeSet.Unpack()
	writes := writeSet.Mut()
	otherWriteSet, otherEvents := other.Unpack()

	otherWriteSet.Scan(func(key transaction.StateKey, op transaction.WriteOp) bool {
		existing, ok := writes.Get(key)
		if !ok {
			deltas.Remove(key)
			writes.Insert(transaction.KeyedWriteOp{Key: key, Op: op})
			return true
		}

		var hasEffect bool
		op, hasEffect, err = transaction.Squash(existing, op)
		if err != nil {
			err = fmt.Errorf("squashing write at key %s: %w", key, err)
			return false
		}

		if hasEffect {
			writes.Insert(transaction.KeyedWriteOp{Key: key, Op: op})
		} else {
			writes.Remove(key)
		}
		return true
	})
	if err != nil {
		squashFailureCounter.Inc()
		return squashed, err
	}
	writeSquashCounter.Add(float64(otherWriteSet.Len()))

	events = append(events, otherEvents...)

	return c.finalize(deltas, writes, events)
}

// Squash returns the result of applying other after c. The writes of
// other are squashed before its deltas.
func (c ChangeSetExt) Squash(other ChangeSetExt) (squashed ChangeSetExt, err error) {
	squashed, err = c.SquashChangeSet(other.changeSet)
	if err != nil {
		return squashed, err
	}
	return squashed.SquashDeltaChangeSet(other.deltaChangeSet)
}

// SquashAll squashes results in the order given, which must be the commit
// order of the transactions they come from.
func SquashAll(checker transaction.CheckChangeSet, results ...ChangeSetExt) (
	squashed ChangeSetExt, err error) {
	squashed = EmptyChangeSetExt(checker)
	for i, result := range results {
		squashed, err = squashed.Squash(result)
		if err != nil {
			return ChangeSetExt{}, fmt.Errorf("squashing result %d of %d: %w", i+1, len(results), err)
		}
	}
	return squashed, nil
}

// IntoOutputExt returns the transaction output of the change set with the
// given gas used and status, together with the pending deltas.
func (c ChangeSetExt) IntoOutputExt(gasUsed uint64, status transaction.TransactionStatus) TransactionOutputExt {
	writeSet, events := c.changeSet.Unpack()
	output := transaction.NewTransactionOutput(writeSet, events, gasUsed, status)
	return NewTransactionOutputExt(c.deltaChangeSet, output)
}

func (c ChangeSetExt) finalize(deltas *delta.ChangeSet, writes *transaction.WriteSetMut,
	events []transaction.ContractEvent) (squashed ChangeSetExt, err error) {
	changeSet, err := transaction.NewChangeSet(writes.Freeze(), events, c.checker)
	if err != nil {
		squashFailureCounter.Inc()
		return squashed, err
	}

	logger.Tracef("squashed change set has %d pending deltas, %d writes and %d events",
		deltas.Len(), changeSet.WriteSet().Len(), len(events))

	return ChangeSetExt{
		deltaChangeSet: deltas,
		changeSet:      changeSet,
		checker:        c.checker,
	}, nil
}
