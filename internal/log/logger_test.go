// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_settings(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		options  []Option
		expected settings
	}{
		"defaults": {
			expected: settings{
				writer: os.Stderr,
				level:  levelPtr(Info),
				caller: boolPtr(false),
			},
		},
		"options": {
			options: []Option{
				SetLevel(Error),
				SetCaller(true),
				SetWriter(io.Discard),
				AddContext("pkg", "database"),
			},
			expected: settings{
				writer: io.Discard,
				level:  levelPtr(Error),
				caller: boolPtr(true),
				context: []contextKeyValues{
					{key: "pkg", values: []string{"database"}},
				},
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger := New(testCase.options...)

			assert.Equal(t, testCase.expected, logger.settings)
			assert.Empty(t, logger.childs)
		})
	}
}

func Test_Logger_New_child(t *testing.T) {
	t.Parallel()

	parent := New(SetLevel(Warn), SetWriter(io.Discard), AddContext("pkg", "state"))

	child := parent.New(SetCaller(true), AddContext("pkg", "view"))

	assert.Equal(t, settings{
		writer: io.Discard,
		level:  levelPtr(Warn),
		caller: boolPtr(true),
		context: []contextKeyValues{
			{key: "pkg", values: []string{"state", "view"}},
		},
	}, child.settings)
	assert.Same(t, parent.mutex, child.mutex)
	assert.Equal(t, []*Logger{child}, parent.childs)

	// the parent settings are left as they were
	assert.Equal(t, boolPtr(false), parent.settings.caller)
}

func Test_settings_coloured(t *testing.T) {
	t.Parallel()

	assert.True(t, settings{writer: os.Stderr}.coloured())
	assert.True(t, settings{writer: os.Stdout}.coloured())
	assert.False(t, settings{writer: io.Discard}.coloured())
}
