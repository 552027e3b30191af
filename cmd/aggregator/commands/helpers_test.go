// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFixture(t *testing.T, content string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "fixture.yaml")
	const perms = 0o600
	err := os.WriteFile(path, []byte(content), perms)
	require.NoError(t, err)
	return path
}

// runRoot runs a new root command with the given arguments and
// returns its standard output.
func runRoot(t *testing.T, args ...string) (output string, err error) {
	t.Helper()

	cmd, err := NewRootCommand()
	require.NoError(t, err)

	buffer := bytes.NewBuffer(nil)
	cmd.SetOut(buffer)
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs(args)

	err = cmd.Execute()
	return buffer.String(), err
}

func decodeReport(t *testing.T, output string) (report OutputReport) {
	t.Helper()

	err := yaml.Unmarshal([]byte(output), &report)
	require.NoError(t, err)
	return report
}
