// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package delta implements pending aggregator updates: bounded additions
// and subtractions that are applied once the value they target is known.
package delta

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/pkg/u128"
)

var (
	// ErrOverflow is returned when an addition exceeds the aggregator limit.
	ErrOverflow = errors.New("aggregator value overflow")
	// ErrUnderflow is returned when a subtraction goes below zero.
	ErrUnderflow = errors.New("aggregator value underflow")
	// ErrLimitMismatch is returned when merging deltas with different limits.
	ErrLimitMismatch = errors.New("aggregator delta limits differ")
	// ErrInvalidUpdate is returned when parsing a malformed update.
	ErrInvalidUpdate = errors.New("invalid aggregator update")
)

// UpdateKind is the direction of a delta update.
type UpdateKind uint8

const (
	// Plus adds to the aggregator value.
	Plus UpdateKind = iota
	// Minus subtracts from the aggregator value.
	Minus
)

func (k UpdateKind) String() string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Update is the net effect of a delta.
type Update struct {
	Kind  UpdateKind
	Value u128.Uint128
}

func (u Update) String() string {
	return u.Kind.String() + u.Value.String()
}

// ParseUpdate parses an update formatted as by String, such as "+7".
func ParseUpdate(s string) (update Update, err error) {
	if len(s) < 2 || s[1] == '+' || s[1] == '-' {
		return update, fmt.Errorf("%w: %q", ErrInvalidUpdate, s)
	}

	switch s[0] {
	case '+':
		update.Kind = Plus
	case '-':
		update.Kind = Minus
	default:
		return update, fmt.Errorf("%w: %q does not start with + or -", ErrInvalidUpdate, s)
	}

	err = update.Value.UnmarshalText([]byte(s[1:]))
	if err != nil {
		return Update{}, fmt.Errorf("%w: %w", ErrInvalidUpdate, err)
	}
	return update, nil
}

// MarshalText encodes the update as by String.
func (u Update) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText decodes an update encoded by MarshalText.
func (u *Update) UnmarshalText(text []byte) (err error) {
	*u, err = ParseUpdate(string(text))
	return err
}

// Op is a pending update of an aggregator value.
//
// Besides the net update, an Op keeps track of the largest intermediate
// increase and decrease seen while the updates it represents were recorded,
// so that applying a merged Op fails exactly when applying its parts one
// by one would.
type Op struct {
	update      Update
	limit       u128.Uint128
	maxPositive u128.Uint128
	minNegative u128.Uint128
}

// NewOp returns a new delta op.
func NewOp(update Update, limit, maxPositive, minNegative u128.Uint128) Op {
	return Op{
		update:      update,
		limit:       limit,
		maxPositive: maxPositive,
		minNegative: minNegative,
	}
}

// Addition returns an op adding value, bounded by limit.
func Addition(value, limit u128.Uint128) Op {
	return NewOp(Update{Kind: Plus, Value: value}, limit, value, u128.Zero)
}

// Subtraction returns an op subtracting value, bounded by limit.
func Subtraction(value, limit u128.Uint128) Op {
	return NewOp(Update{Kind: Minus, Value: value}, limit, u128.Zero, value)
}

// Update returns the net update of the op.
func (o Op) Update() Update { return o.update }

// Limit returns the maximum value the aggregator can hold.
func (o Op) Limit() u128.Uint128 { return o.limit }

// MaxPositive returns the largest increase over the base value seen.
func (o Op) MaxPositive() u128.Uint128 { return o.maxPositive }

// MinNegative returns the largest decrease below the base value seen.
func (o Op) MinNegative() u128.Uint128 { return o.minNegative }

func (o Op) String() string {
	return fmt.Sprintf("%s (limit %s, max positive %s, min negative %s)",
		o.update, o.limit, o.maxPositive, o.minNegative)
}

// ApplyTo returns the result of applying the op to base.
// It first checks every recorded intermediate value stays within bounds.
func (o Op) ApplyTo(base u128.Uint128) (u128.Uint128, error) {
	_, err := addition(base, o.maxPositive, o.limit)
	if err != nil {
		return u128.Zero, err
	}
	_, err = subtraction(base, o.minNegative)
	if err != nil {
		return u128.Zero, err
	}

	switch o.update.Kind {
	case Plus:
		return addition(base, o.update.Value, o.limit)
	default:
		return subtraction(base, o.update.Value)
	}
}

// MergeOnto returns the op equivalent to applying previous and then o.
// The order matters: deltas do not commute once bounds are involved.
func (o Op) MergeOnto(previous Op) (merged Op, err error) {
	if o.limit != previous.limit {
		return Op{}, fmt.Errorf("%w: %s and %s", ErrLimitMismatch, previous.limit, o.limit)
	}

	prev := previous.update.Value
	var shiftedMaxPositive, shiftedMinNegative u128.Uint128

	merged = o
	switch previous.update.Kind {
	case Plus:
		shiftedMaxPositive, err = addition(prev, o.maxPositive, o.limit)
		if err != nil {
			return Op{}, err
		}
		shiftedMinNegative = o.minNegative.SaturatingSub(prev)

		switch o.update.Kind {
		case Plus:
			sum, err := addition(prev, o.update.Value, o.limit)
			if err != nil {
				return Op{}, err
			}
			merged.update = Update{Kind: Plus, Value: sum}
		default:
			merged.update = netUpdate(prev, o.update.Value)
		}
	default:
		shiftedMaxPositive = o.maxPositive.SaturatingSub(prev)
		shiftedMinNegative, err = addition(o.minNegative, prev, o.limit)
		if err != nil {
			return Op{}, err
		}

		switch o.update.Kind {
		case Plus:
			merged.update = netUpdate(o.update.Value, prev)
		default:
			sum, err := addition(o.update.Value, prev, o.limit)
			if err != nil {
				return Op{}, err
			}
			merged.update = Update{Kind: Minus, Value: sum}
		}
	}

	merged.maxPositive = u128.MaxOf(previous.maxPositive, shiftedMaxPositive)
	merged.minNegative = u128.MaxOf(previous.minNegative, shiftedMinNegative)
	return merged, nil
}

// netUpdate returns the update for adding plus and subtracting minus.
func netUpdate(plus, minus u128.Uint128) Update {
	if difference, ok := plus.CheckedSub(minus); ok {
		return Update{Kind: Plus, Value: difference}
	}
	return Update{Kind: Minus, Value: minus.SaturatingSub(plus)}
}

func addition(base, value, limit u128.Uint128) (u128.Uint128, error) {
	sum, ok := base.CheckedAdd(value, limit)
	if !ok {
		return u128.Zero, fmt.Errorf("%w: %s + %s exceeds limit %s", ErrOverflow, base, value, limit)
	}
	return sum, nil
}

func subtraction(base, value u128.Uint128) (u128.Uint128, error) {
	difference, ok := base.CheckedSub(value)
	if !ok {
		return u128.Zero, fmt.Errorf("%w: %s - %s", ErrUnderflow, base, value)
	}
	return difference, nil
}
