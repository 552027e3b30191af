// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package transaction defines concrete writes, change sets and transaction
// outputs, as produced by transaction execution.
package transaction

import (
	"errors"
	"fmt"
)

// ErrCannotSquash is returned when two writes to the same key cannot be
// combined, for example when creating a value that already exists.
var ErrCannotSquash = errors.New("write ops cannot be squashed")

// StateKey identifies a storage location.
type StateKey string

// WriteOpKind is the kind of a concrete write.
type WriteOpKind uint8

const (
	// Creation creates a value that did not exist.
	Creation WriteOpKind = iota
	// Modification overwrites an existing value.
	Modification
	// Deletion removes an existing value.
	Deletion
)

func (k WriteOpKind) String() string {
	switch k {
	case Creation:
		return "creation"
	case Modification:
		return "modification"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// StateValueMetadata is the metadata attached to a stored value.
type StateValueMetadata struct {
	Deposit            uint64
	CreationTimeMicros uint64
}

// WriteOp is a fully resolved storage mutation.
// It is immutable once constructed.
type WriteOp struct {
	kind     WriteOpKind
	data     []byte
	metadata *StateValueMetadata
}

// NewCreation returns a creation write of data.
func NewCreation(data []byte) WriteOp {
	return WriteOp{kind: Creation, data: data}
}

// NewModification returns a modification write of data.
func NewModification(data []byte) WriteOp {
	return WriteOp{kind: Modification, data: data}
}

// NewDeletion returns a deletion write.
func NewDeletion() WriteOp {
	return WriteOp{kind: Deletion}
}

// NewCreationWithMetadata returns a creation write of data carrying metadata.
func NewCreationWithMetadata(data []byte, metadata StateValueMetadata) WriteOp {
	return WriteOp{kind: Creation, data: data, metadata: &metadata}
}

// NewModificationWithMetadata returns a modification write of data carrying metadata.
func NewModificationWithMetadata(data []byte, metadata StateValueMetadata) WriteOp {
	return WriteOp{kind: Modification, data: data, metadata: &metadata}
}

// NewDeletionWithMetadata returns a deletion write carrying metadata.
func NewDeletionWithMetadata(metadata StateValueMetadata) WriteOp {
	return WriteOp{kind: Deletion, metadata: &metadata}
}

// Kind returns the kind of the write.
func (op WriteOp) Kind() WriteOpKind { return op.kind }

// IsDeletion returns true for deletions, with or without metadata.
func (op WriteOp) IsDeletion() bool { return op.kind == Deletion }

// Metadata returns a copy of the write metadata, and false if there is none.
func (op WriteOp) Metadata() (StateValueMetadata, bool) {
	if op.metadata == nil {
		return StateValueMetadata{}, false
	}
	return *op.metadata, true
}

// ExtractRawBytes returns the written bytes and true, or nil and false
// for a deletion.
func (op WriteOp) ExtractRawBytes() ([]byte, bool) {
	if op.kind == Deletion {
		return nil, false
	}
	return op.data, true
}

// WithData returns a copy of the write with its payload replaced, keeping
// the kind and metadata. It panics when called on a deletion.
func (op WriteOp) WithData(data []byte) WriteOp {
	if op.kind == Deletion {
		panic("cannot set data on a deletion write op")
	}
	op.data = data
	return op
}

// Size returns the payload size of the write.
func (op WriteOp) Size() int {
	return len(op.data)
}

func (op WriteOp) String() string {
	if op.kind == Deletion {
		return op.kind.String()
	}
	return fmt.Sprintf("%s(0x%x)", op.kind, op.data)
}

// KeyedWriteOp is a write op together with the key it targets.
type KeyedWriteOp struct {
	Key StateKey
	Op  WriteOp
}

// Squash combines the existing write to a key with a later incoming write
// to the same key. It returns the combined write and true, or false when
// the two writes cancel out and no effect remains.
// Both writes must either carry metadata or not, and the metadata of the
// existing write is kept.
func Squash(existing, incoming WriteOp) (squashed WriteOp, hasEffect bool, err error) {
	if (existing.metadata == nil) != (incoming.metadata == nil) {
		return WriteOp{}, false, fmt.Errorf("%w: %s followed by %s",
			ErrCannotSquash, existing.describe(), incoming.describe())
	}
	metadata := existing.metadata

	switch existing.kind {
	case Creation:
		switch incoming.kind {
		case Modification:
			return WriteOp{kind: Creation, data: incoming.data, metadata: metadata}, true, nil
		case Deletion:
			return WriteOp{}, false, nil
		}
	case Modification:
		switch incoming.kind {
		case Modification:
			return WriteOp{kind: Modification, data: incoming.data, metadata: metadata}, true, nil
		case Deletion:
			return WriteOp{kind: Deletion, metadata: metadata}, true, nil
		}
	case Deletion:
		if incoming.kind == Creation {
			return WriteOp{kind: Modification, data: incoming.data, metadata: metadata}, true, nil
		}
	}

	return WriteOp{}, false, fmt.Errorf("%w: %s followed by %s",
		ErrCannotSquash, existing.describe(), incoming.describe())
}

func (op WriteOp) describe() string {
	if op.metadata == nil {
		return op.kind.String()
	}
	return op.kind.String() + " with metadata"
}
