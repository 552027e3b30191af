// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
)

// Option is the type to specify settings modifier
// for the logger operation.
type Option func(s *settings)

// SetLevel sets the level for the logger.
// The level defaults to Info.
func SetLevel(level Level) Option {
	return func(s *settings) {
		s.level = &level
	}
}

// SetCaller enables or disables appending the file and line
// of the caller to each log line. It is disabled by default.
func SetCaller(enabled bool) Option {
	return func(s *settings) {
		s.caller = &enabled
	}
}

// SetWriter sets the writer of the logger, os.Stderr by default.
func SetWriter(writer io.Writer) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// AddContext appends a key value pair to the context of the logger.
// A value for an existing key is added after its other values.
func AddContext(key, value string) Option {
	return func(s *settings) {
		for i := range s.context {
			if s.context[i].key == key {
				s.context[i].values = append(s.context[i].values, value)
				return
			}
		}
		s.context = append(s.context, contextKeyValues{key: key, values: []string{value}})
	}
}
