// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package u128 implements the unsigned 128 bit integer domain used by
// aggregator values, together with their fixed width encoding.
package u128

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Size is the encoded length of a Uint128 in bytes.
const Size = 16

var (
	// ErrInvalidLength is returned when decoding a byte slice that is not
	// exactly Size bytes long.
	ErrInvalidLength = errors.New("invalid uint128 encoding length")
	// ErrOutOfRange is returned when a value does not fit in 128 bits.
	ErrOutOfRange = errors.New("value out of uint128 range")
)

// Uint128 represents an unsigned 128 bit integer
type Uint128 struct {
	Upper uint64
	Lower uint64
}

var (
	// Zero is the zero Uint128 value.
	Zero = Uint128{}
	// Max is the maximum Uint128 value.
	Max = Uint128{Upper: ^uint64(0), Lower: ^uint64(0)}
)

// From64 returns the Uint128 holding the given uint64.
func From64(v uint64) Uint128 {
	return Uint128{Lower: v}
}

// FromBig converts a big integer to a Uint128.
// It returns ErrOutOfRange for negative values and values above Max.
func FromBig(b *big.Int) (u Uint128, err error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return u, fmt.Errorf("%w: %s", ErrOutOfRange, b)
	}

	z, overflow := uint256.FromBig(b)
	if overflow {
		return u, fmt.Errorf("%w: %s", ErrOutOfRange, b)
	}
	return fromUint256(z), nil
}

// MustFromString parses a decimal string and panics on failure.
// It is meant for constants and tests.
func MustFromString(s string) Uint128 {
	var u Uint128
	if err := u.UnmarshalText([]byte(s)); err != nil {
		panic(err)
	}
	return u
}

// Big returns the value as a big integer.
func (u Uint128) Big() *big.Int {
	return u.toUint256().ToBig()
}

// IsZero returns true if the value is zero.
func (u Uint128) IsZero() bool {
	return u.Upper == 0 && u.Lower == 0
}

// Cmp returns 1 if u is greater than other, 0 if they are equal, and -1 otherwise.
func (u Uint128) Cmp(other Uint128) int {
	switch {
	case u.Upper > other.Upper:
		return 1
	case u.Upper < other.Upper:
		return -1
	case u.Lower > other.Lower:
		return 1
	case u.Lower < other.Lower:
		return -1
	}
	return 0
}

// Encode returns the Size bytes little endian encoding of the value.
// Unlike a compact encoding, leading zero bytes are kept.
func (u Uint128) Encode() []byte {
	b := make([]byte, Size)
	binary.LittleEndian.PutUint64(b[:8], u.Lower)
	binary.LittleEndian.PutUint64(b[8:], u.Upper)
	return b
}

// Decode decodes a Size bytes little endian encoded value.
func Decode(b []byte) (u Uint128, err error) {
	if len(b) != Size {
		return u, fmt.Errorf("%w: got %d bytes, expected %d", ErrInvalidLength, len(b), Size)
	}

	return Uint128{
		Upper: binary.LittleEndian.Uint64(b[8:]),
		Lower: binary.LittleEndian.Uint64(b[:8]),
	}, nil
}

// CheckedAdd returns u + other and true if the sum does not exceed limit.
// Otherwise it returns the zero value and false.
func (u Uint128) CheckedAdd(other, limit Uint128) (Uint128, bool) {
	// cannot overflow 256 bits with two 128 bit operands
	sum := new(uint256.Int).Add(u.toUint256(), other.toUint256())
	if sum.Gt(limit.toUint256()) {
		return Zero, false
	}
	return fromUint256(sum), true
}

// CheckedSub returns u - other and true, or the zero value and false
// if other is greater than u.
func (u Uint128) CheckedSub(other Uint128) (Uint128, bool) {
	if u.Cmp(other) < 0 {
		return Zero, false
	}
	difference := new(uint256.Int).Sub(u.toUint256(), other.toUint256())
	return fromUint256(difference), true
}

// SaturatingSub returns u - other, or zero if other is greater than u.
func (u Uint128) SaturatingSub(other Uint128) Uint128 {
	difference, ok := u.CheckedSub(other)
	if !ok {
		return Zero
	}
	return difference
}

// String returns the decimal representation of the value.
func (u Uint128) String() string {
	return u.toUint256().Dec()
}

// MarshalText encodes the value as a decimal string.
func (u Uint128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText decodes a decimal string into the value.
func (u *Uint128) UnmarshalText(text []byte) error {
	b, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return fmt.Errorf("parsing %q as a decimal uint128", text)
	}

	parsed, err := FromBig(b)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u Uint128) toUint256() *uint256.Int {
	return &uint256.Int{u.Lower, u.Upper, 0, 0}
}

func fromUint256(z *uint256.Int) Uint128 {
	return Uint128{Upper: z[1], Lower: z[0]}
}

// MaxOf returns the greater of a and b.
func MaxOf(a, b Uint128) Uint128 {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
