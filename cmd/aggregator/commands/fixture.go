// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChainSafe/aggregator/lib/aggregator"
	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/ChainSafe/aggregator/pkg/u128"
	"gopkg.in/yaml.v3"
)

var (
	ErrWriteKind   = errors.New("write kind not recognised")
	ErrWriteValue  = errors.New("write needs exactly one of value and data")
	ErrStatusKind  = errors.New("status not recognised")
	ErrDeltaBounds = errors.New("delta bounds are smaller than its update")
)

// Fixture is a base state together with execution results to squash in
// the order given, and the gas and status of the resulting output.
type Fixture struct {
	Base       map[string]u128.Uint128 `yaml:"base"`
	Results    []ResultFixture         `yaml:"results"`
	GasUsed    uint64                  `yaml:"gas-used"`
	Status     string                  `yaml:"status"`
	StatusCode uint64                  `yaml:"status-code"`
}

// ResultFixture is the execution result of one transaction.
type ResultFixture struct {
	Writes []WriteFixture `yaml:"writes"`
	Deltas []DeltaFixture `yaml:"deltas"`
	Events []EventFixture `yaml:"events"`
}

// WriteFixture is a concrete write. Value holds an aggregator value
// and Data holds raw hex encoded bytes.
type WriteFixture struct {
	Key      string        `yaml:"key"`
	Kind     string        `yaml:"kind"`
	Value    *u128.Uint128 `yaml:"value,omitempty"`
	Data     string        `yaml:"data,omitempty"`
	Metadata *Metadata     `yaml:"metadata,omitempty"`
}

// MarshalYAML always emits the value of a write carrying one, including
// zero, which the omitempty tag would otherwise drop.
func (w WriteFixture) MarshalYAML() (interface{}, error) {
	if w.Value == nil {
		type plain WriteFixture
		return plain(w), nil
	}

	return struct {
		Key      string       `yaml:"key"`
		Kind     string       `yaml:"kind"`
		Value    u128.Uint128 `yaml:"value"`
		Metadata *Metadata    `yaml:"metadata,omitempty"`
	}{
		Key:      w.Key,
		Kind:     w.Kind,
		Value:    *w.Value,
		Metadata: w.Metadata,
	}, nil
}

// Metadata is the state value metadata of a write.
type Metadata struct {
	Deposit            uint64 `yaml:"deposit"`
	CreationTimeMicros uint64 `yaml:"creation-time-micros"`
}

// DeltaFixture is a pending aggregator delta. The bounds default to
// the update value in its own direction, and zero in the other.
type DeltaFixture struct {
	Key         string        `yaml:"key"`
	Update      delta.Update  `yaml:"update"`
	Limit       u128.Uint128  `yaml:"limit"`
	MaxPositive *u128.Uint128 `yaml:"max-positive,omitempty"`
	MinNegative *u128.Uint128 `yaml:"min-negative,omitempty"`
}

// EventFixture is a contract event with hex encoded data.
type EventFixture struct {
	Key            string `yaml:"key"`
	SequenceNumber uint64 `yaml:"sequence-number"`
	Type           string `yaml:"type"`
	Data           string `yaml:"data,omitempty"`
}

// decodeFixture decodes a YAML fixture, rejecting unknown fields.
func decodeFixture(reader io.Reader) (fixture Fixture, err error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	err = decoder.Decode(&fixture)
	if err != nil {
		return fixture, fmt.Errorf("decoding fixture: %w", err)
	}
	return fixture, nil
}

// baseValues returns the encoded base values keyed by state key.
func (f Fixture) baseValues() map[transaction.StateKey][]byte {
	values := make(map[transaction.StateKey][]byte, len(f.Base))
	for key, value := range f.Base {
		values[transaction.StateKey(key)] = delta.Serialize(value)
	}
	return values
}

// status returns the transaction status of the fixture.
func (f Fixture) status() (transaction.TransactionStatus, error) {
	switch strings.ToLower(f.Status) {
	case "", "keep":
		return transaction.Keep(f.StatusCode), nil
	case "discard":
		return transaction.Discard(f.StatusCode), nil
	case "retry":
		return transaction.Retry(), nil
	default:
		return transaction.TransactionStatus{}, fmt.Errorf("%w: %s", ErrStatusKind, f.Status)
	}
}

// changeSetExts returns the execution results of the fixture.
func (f Fixture) changeSetExts(checker transaction.CheckChangeSet) (
	exts []aggregator.ChangeSetExt, err error) {
	exts = make([]aggregator.ChangeSetExt, len(f.Results))
	for i, result := range f.Results {
		exts[i], err = result.changeSetExt(checker)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i+1, err)
		}
	}
	return exts, nil
}

func (r ResultFixture) changeSetExt(checker transaction.CheckChangeSet) (
	ext aggregator.ChangeSetExt, err error) {
	writes := make([]transaction.KeyedWriteOp, len(r.Writes))
	for i, write := range r.Writes {
		writes[i], err = write.keyedWriteOp()
		if err != nil {
			return ext, fmt.Errorf("write at key %s: %w", write.Key, err)
		}
	}

	deltas := make([]delta.KeyedOp, len(r.Deltas))
	for i, d := range r.Deltas {
		deltas[i], err = d.keyedOp()
		if err != nil {
			return ext, fmt.Errorf("delta at key %s: %w", d.Key, err)
		}
	}

	var events []transaction.ContractEvent
	for _, event := range r.Events {
		contractEvent, err := event.contractEvent()
		if err != nil {
			return ext, fmt.Errorf("event %s: %w", event.Key, err)
		}
		events = append(events, contractEvent)
	}

	changeSet, err := transaction.NewChangeSet(transaction.NewWriteSet(writes...), events, checker)
	if err != nil {
		return ext, err
	}

	return aggregator.NewChangeSetExt(delta.NewChangeSet(deltas...), changeSet, checker)
}

func (w WriteFixture) keyedWriteOp() (keyed transaction.KeyedWriteOp, err error) {
	keyed.Key = transaction.StateKey(w.Key)

	var metadata *transaction.StateValueMetadata
	if w.Metadata != nil {
		metadata = &transaction.StateValueMetadata{
			Deposit:            w.Metadata.Deposit,
			CreationTimeMicros: w.Metadata.CreationTimeMicros,
		}
	}

	if strings.ToLower(w.Kind) == "deletion" {
		if w.Value != nil || w.Data != "" {
			return keyed, fmt.Errorf("%w: deletion carries no value", ErrWriteValue)
		}
		if metadata != nil {
			keyed.Op = transaction.NewDeletionWithMetadata(*metadata)
		} else {
			keyed.Op = transaction.NewDeletion()
		}
		return keyed, nil
	}

	var data []byte
	switch {
	case w.Value != nil && w.Data == "":
		data = delta.Serialize(*w.Value)
	case w.Value == nil && w.Data != "":
		data, err = decodeHex(w.Data)
		if err != nil {
			return keyed, err
		}
	default:
		return keyed, ErrWriteValue
	}

	switch strings.ToLower(w.Kind) {
	case "creation":
		if metadata != nil {
			keyed.Op = transaction.NewCreationWithMetadata(data, *metadata)
		} else {
			keyed.Op = transaction.NewCreation(data)
		}
	case "modification":
		if metadata != nil {
			keyed.Op = transaction.NewModificationWithMetadata(data, *metadata)
		} else {
			keyed.Op = transaction.NewModification(data)
		}
	default:
		return keyed, fmt.Errorf("%w: %s", ErrWriteKind, w.Kind)
	}
	return keyed, nil
}

func (d DeltaFixture) keyedOp() (keyed delta.KeyedOp, err error) {
	keyed.Key = transaction.StateKey(d.Key)

	maxPositive, minNegative := u128.Zero, u128.Zero
	switch d.Update.Kind {
	case delta.Plus:
		maxPositive = d.Update.Value
	case delta.Minus:
		minNegative = d.Update.Value
	}
	if d.MaxPositive != nil {
		maxPositive = *d.MaxPositive
	}
	if d.MinNegative != nil {
		minNegative = *d.MinNegative
	}

	if d.Update.Kind == delta.Plus && maxPositive.Cmp(d.Update.Value) < 0 ||
		d.Update.Kind == delta.Minus && minNegative.Cmp(d.Update.Value) < 0 {
		return keyed, fmt.Errorf("%w: update %s with max positive %s and min negative %s",
			ErrDeltaBounds, d.Update, maxPositive, minNegative)
	}

	keyed.Op = delta.NewOp(d.Update, d.Limit, maxPositive, minNegative)
	return keyed, nil
}

func (e EventFixture) contractEvent() (event transaction.ContractEvent, err error) {
	event = transaction.ContractEvent{
		Key:            e.Key,
		SequenceNumber: e.SequenceNumber,
		TypeTag:        e.Type,
	}
	if e.Data != "" {
		event.Data, err = decodeHex(e.Data)
		if err != nil {
			return event, err
		}
	}
	return event, nil
}

func decodeHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex data: %w", err)
	}
	return data, nil
}

// OutputReport is the YAML report of a materialized transaction output.
type OutputReport struct {
	Writes  []WriteFixture `yaml:"writes"`
	Events  []EventFixture `yaml:"events,omitempty"`
	GasUsed uint64         `yaml:"gas-used"`
	Status  string         `yaml:"status"`
}

// newOutputReport returns the report of the output. Values of 16 bytes
// are reported as aggregator values, others as hex data.
func newOutputReport(output transaction.TransactionOutput) OutputReport {
	writeSet, events, gasUsed, status := output.Unpack()

	report := OutputReport{
		Writes:  make([]WriteFixture, 0, writeSet.Len()),
		GasUsed: gasUsed,
		Status:  status.String(),
	}

	writeSet.Scan(func(key transaction.StateKey, op transaction.WriteOp) bool {
		write := WriteFixture{
			Key:  string(key),
			Kind: op.Kind().String(),
		}
		if data, ok := op.ExtractRawBytes(); ok {
			if value, err := u128.Decode(data); err == nil {
				write.Value = &value
			} else {
				write.Data = "0x" + hex.EncodeToString(data)
			}
		}
		if metadata, ok := op.Metadata(); ok {
			write.Metadata = &Metadata{
				Deposit:            metadata.Deposit,
				CreationTimeMicros: metadata.CreationTimeMicros,
			}
		}
		report.Writes = append(report.Writes, write)
		return true
	})

	for _, event := range events {
		eventFixture := EventFixture{
			Key:            event.Key,
			SequenceNumber: event.SequenceNumber,
			Type:           event.TypeTag,
		}
		if len(event.Data) > 0 {
			eventFixture.Data = "0x" + hex.EncodeToString(event.Data)
		}
		report.Events = append(report.Events, eventFixture)
	}

	return report
}
