// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// callerDepth is the number of frames between the caller of a
// logging method such as Infof and getCallerString.
const callerDepth = 3

// getCallerString returns the file:line of the code calling the logger,
// or the empty string if the caller is not shown.
func getCallerString(enabled bool) string {
	if !enabled {
		return ""
	}

	_, file, line, ok := runtime.Caller(callerDepth)
	if !ok {
		return "???"
	}

	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
