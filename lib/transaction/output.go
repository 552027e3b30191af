// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import "fmt"

// StatusKind is the kind of a transaction status.
type StatusKind uint8

const (
	// StatusKeep means the output is applied to the ledger.
	StatusKeep StatusKind = iota
	// StatusDiscard means the output is dropped.
	StatusDiscard
	// StatusRetry means the transaction has to be executed again.
	StatusRetry
)

// TransactionStatus is the status of an executed transaction.
type TransactionStatus struct {
	Kind StatusKind
	Code uint64
}

// Keep returns a kept status with the given execution status code.
func Keep(code uint64) TransactionStatus {
	return TransactionStatus{Kind: StatusKeep, Code: code}
}

// Discard returns a discarded status with the given status code.
func Discard(code uint64) TransactionStatus {
	return TransactionStatus{Kind: StatusDiscard, Code: code}
}

// Retry returns a retry status.
func Retry() TransactionStatus {
	return TransactionStatus{Kind: StatusRetry}
}

// IsDiscarded returns true if the output must not be applied.
func (s TransactionStatus) IsDiscarded() bool {
	return s.Kind == StatusDiscard
}

func (s TransactionStatus) String() string {
	switch s.Kind {
	case StatusKeep:
		return fmt.Sprintf("keep(%d)", s.Code)
	case StatusDiscard:
		return fmt.Sprintf("discard(%d)", s.Code)
	case StatusRetry:
		return "retry"
	default:
		return fmt.Sprintf("unknown(%d)", s.Kind)
	}
}

// TransactionOutput is the externally visible result of a transaction.
type TransactionOutput struct {
	writeSet WriteSet
	events   []ContractEvent
	gasUsed  uint64
	status   TransactionStatus
}

// NewTransactionOutput assembles a transaction output.
// The events are copied.
func NewTransactionOutput(writeSet WriteSet, events []ContractEvent,
	gasUsed uint64, status TransactionStatus) TransactionOutput {
	return TransactionOutput{
		writeSet: writeSet,
		events:   copyEvents(events),
		gasUsed:  gasUsed,
		status:   status,
	}
}

// WriteSet returns the write set of the output.
func (o TransactionOutput) WriteSet() WriteSet { return o.writeSet }

// Events returns a copy of the events of the output.
func (o TransactionOutput) Events() []ContractEvent { return copyEvents(o.events) }

// GasUsed returns the gas used by the transaction.
func (o TransactionOutput) GasUsed() uint64 { return o.gasUsed }

// Status returns the status of the transaction.
func (o TransactionOutput) Status() TransactionStatus { return o.status }

// Unpack decomposes the output into the parts NewTransactionOutput takes,
// with a copy of the events.
func (o TransactionOutput) Unpack() (writeSet WriteSet, events []ContractEvent,
	gasUsed uint64, status TransactionStatus) {
	return o.writeSet, o.Events(), o.gasUsed, o.status
}

// StateView reads values from ledger state.
// A nil value with a nil error means the key holds no value.
type StateView interface {
	GetStateValue(key StateKey) ([]byte, error)
}
