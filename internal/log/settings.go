// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
)

type settings struct {
	writer  io.Writer
	level   *Level
	caller  *bool
	context []contextKeyValues
}

type contextKeyValues struct {
	key    string
	values []string
}

func newSettings(options []Option) (s settings) {
	for _, option := range options {
		option(&s)
	}
	return s
}

// mergeWith sets values of other on s, for each value set in other.
// Context values are appended to the existing values of each key.
func (s *settings) mergeWith(other settings) {
	if other.writer != nil {
		s.writer = other.writer
	}

	if other.level != nil {
		value := *other.level
		s.level = &value
	}

	if other.caller != nil {
		value := *other.caller
		s.caller = &value
	}

	for _, kvs := range other.context {
		for _, value := range kvs.values {
			AddContext(kvs.key, value)(s)
		}
	}
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stderr
	}

	if s.level == nil {
		value := Info
		s.level = &value
	}

	if s.caller == nil {
		value := false
		s.caller = &value
	}
}

// coloured returns true if the level should be coloured,
// which is only the case when writing to a terminal stream.
func (s settings) coloured() bool {
	return s.writer == os.Stderr || s.writer == os.Stdout
}
