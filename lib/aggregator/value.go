// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package aggregator squashes execution results holding aggregator deltas
// and turns their remaining deltas into concrete writes.
package aggregator

import (
	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/ChainSafe/aggregator/lib/aggregator/delta"
	"github.com/ChainSafe/aggregator/pkg/u128"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "aggregator"))

// SetLogLevel sets the level of the aggregator package logger.
func SetLogLevel(level log.Level) {
	logger.Patch(log.SetLevel(level))
}

// Write is a storage write that may carry a value.
type Write interface {
	ExtractRawBytes() (data []byte, ok bool)
}

// FromWrite returns the aggregator value held by write, or false if the
// write is a deletion. It must only be called on writes known to hold an
// aggregator value, and panics if the value cannot be decoded.
func FromWrite(write Write) (value u128.Uint128, ok bool) {
	data, ok := write.ExtractRawBytes()
	if !ok {
		return u128.Zero, false
	}
	return delta.Deserialize(data), true
}
