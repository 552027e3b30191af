// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"
)

// ContractEvent is an event emitted by a transaction.
type ContractEvent struct {
	Key            string
	SequenceNumber uint64
	TypeTag        string
	Data           []byte
}

// Size returns the number of bytes the event accounts for.
func (e ContractEvent) Size() int {
	return len(e.Key) + len(e.TypeTag) + len(e.Data)
}

// CheckChangeSet validates a change set before it is accepted.
type CheckChangeSet interface {
	CheckChangeSet(changeSet ChangeSet) error
}

// CheckChangeSetFunc is a function implementing CheckChangeSet.
type CheckChangeSetFunc func(changeSet ChangeSet) error

// CheckChangeSet calls f(changeSet).
func (f CheckChangeSetFunc) CheckChangeSet(changeSet ChangeSet) error {
	return f(changeSet)
}

// ErrChangeSetRejected wraps every error returned by a CheckChangeSet
// when constructing a change set.
var ErrChangeSetRejected = errors.New("change set rejected")

// ChangeSet is a checked write set together with the events emitted
// alongside it.
type ChangeSet struct {
	writeSet WriteSet
	events   []ContractEvent
}

// NewChangeSet builds a change set and validates it with checker.
func NewChangeSet(writeSet WriteSet, events []ContractEvent, checker CheckChangeSet) (ChangeSet, error) {
	changeSet := ChangeSet{
		writeSet: writeSet,
		events:   events,
	}

	err := checker.CheckChangeSet(changeSet)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("%w: %w", ErrChangeSetRejected, err)
	}

	return changeSet, nil
}

// EmptyChangeSet returns a change set without writes nor events.
func EmptyChangeSet() ChangeSet {
	return ChangeSet{}
}

// WriteSet returns the write set of the change set.
func (cs ChangeSet) WriteSet() WriteSet {
	return cs.writeSet
}

// Events returns a copy of the events of the change set.
func (cs ChangeSet) Events() []ContractEvent {
	return copyEvents(cs.events)
}

func copyEvents(events []ContractEvent) []ContractEvent {
	if len(events) == 0 {
		return nil
	}
	eventsCopy := make([]ContractEvent, len(events))
	copy(eventsCopy, events)
	return eventsCopy
}

// Unpack returns the write set and a copy of the events.
func (cs ChangeSet) Unpack() (WriteSet, []ContractEvent) {
	return cs.writeSet, cs.Events()
}
