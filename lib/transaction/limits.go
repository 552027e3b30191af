// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyWriteOps = errors.New("too many write ops")
	ErrWriteOpTooBig   = errors.New("write op too big")
	ErrWriteOpsTooBig  = errors.New("write ops too big")
	ErrEventTooBig     = errors.New("event too big")
	ErrEventsTooBig    = errors.New("events too big")
)

var _ CheckChangeSet = ChangeSetConfigs{}

// ChangeSetConfigs limits the size of a change set.
// A zero limit disables the corresponding check.
type ChangeSetConfigs struct {
	MaxWriteOpsPerTransaction uint64
	MaxBytesPerWriteOp        uint64
	MaxBytesAllWriteOps       uint64
	MaxBytesPerEvent          uint64
	MaxBytesAllEvents         uint64
}

// UnlimitedChangeSetConfigs returns configs accepting every change set.
func UnlimitedChangeSetConfigs() ChangeSetConfigs {
	return ChangeSetConfigs{}
}

// CheckChangeSet implements CheckChangeSet.
func (c ChangeSetConfigs) CheckChangeSet(changeSet ChangeSet) (err error) {
	writeSet := changeSet.WriteSet()
	if exceeds(uint64(writeSet.Len()), c.MaxWriteOpsPerTransaction) {
		return fmt.Errorf("%w: %d exceeds limit %d",
			ErrTooManyWriteOps, writeSet.Len(), c.MaxWriteOpsPerTransaction)
	}

	var writeOpsTotal uint64
	writeSet.Scan(func(key StateKey, op WriteOp) bool {
		size := uint64(len(key) + op.Size())
		if exceeds(size, c.MaxBytesPerWriteOp) {
			err = fmt.Errorf("%w: %d bytes at key %s exceeds limit %d",
				ErrWriteOpTooBig, size, key, c.MaxBytesPerWriteOp)
			return false
		}
		writeOpsTotal += size
		return true
	})
	if err != nil {
		return err
	}
	if exceeds(writeOpsTotal, c.MaxBytesAllWriteOps) {
		return fmt.Errorf("%w: %d bytes exceeds limit %d",
			ErrWriteOpsTooBig, writeOpsTotal, c.MaxBytesAllWriteOps)
	}

	var eventsTotal uint64
	for _, event := range changeSet.events {
		size := uint64(event.Size())
		if exceeds(size, c.MaxBytesPerEvent) {
			return fmt.Errorf("%w: %d bytes for event %s exceeds limit %d",
				ErrEventTooBig, size, event.TypeTag, c.MaxBytesPerEvent)
		}
		eventsTotal += size
	}
	if exceeds(eventsTotal, c.MaxBytesAllEvents) {
		return fmt.Errorf("%w: %d bytes exceeds limit %d",
			ErrEventsTooBig, eventsTotal, c.MaxBytesAllEvents)
	}

	return nil
}

func exceeds(value, limit uint64) bool {
	return limit != 0 && value > limit
}
