// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

// timePrefixRegex matches the RFC3339 time and the space
// starting each log line.
const timePrefixRegex = `^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}` +
	`(Z|[+-][0-9]{2}:[0-9]{2}) `

func levelPtr(l Level) *Level { return &l }

func boolPtr(b bool) *bool { return &b }
