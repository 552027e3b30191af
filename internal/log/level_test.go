// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          string
		level      Level
		errWrapped error
		errMessage string
	}{
		"trace": {
			s:     "trace",
			level: Trace,
		},
		"upper_case_critical": {
			s:     "CRITICAL",
			level: Critical,
		},
		"unknown": {
			s:          "verbose",
			errWrapped: ErrLevelNotRecognised,
			errMessage: "level is not recognised: verbose",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(testCase.s)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
			}
			assert.Equal(t, testCase.level, level)
		})
	}
}

func Test_Logger_Patch_propagatesToChilds(t *testing.T) {
	t.Parallel()

	parent := New(SetLevel(Info))
	child := parent.New(AddContext("pkg", "child"))
	grandChild := child.New()

	parent.Patch(SetLevel(Trace))

	assert.Equal(t, Trace, *child.settings.level)
	assert.Equal(t, Trace, *grandChild.settings.level)
	assert.Equal(t, []contextKeyValues{{key: "pkg", values: []string{"child"}}},
		grandChild.settings.context)
}
