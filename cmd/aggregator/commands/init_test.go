// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"path/filepath"
	"testing"

	"github.com/ChainSafe/aggregator/pkg/u128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_init(t *testing.T) {
	basePath := t.TempDir()
	configPath := filepath.Join(basePath, "config.toml")

	_, err := runRoot(t, "init", "--base-path", basePath,
		"--db-backend", "badger", "--log", "error")
	require.NoError(t, err)
	assert.True(t, fileExists(configPath))

	_, err = runRoot(t, "init", "--base-path", basePath)
	assert.EqualError(t, err, "config file "+configPath+
		" already exists, use --force to overwrite it")

	_, err = runRoot(t, "init", "--base-path", basePath,
		"--db-backend", "badger", "--log", "error", "--force")
	require.NoError(t, err)

	// the badger backend is read from the config file
	fixturePath := writeFixture(t, threeResultsFixture)
	output, err := runRoot(t, "squash", fixturePath, "--base-path", basePath, "--commit")
	require.NoError(t, err)
	assert.Len(t, decodeReport(t, output).Writes, 4)
	assert.True(t, fileExists(filepath.Join(basePath, "db")))

	fixturePath = writeFixture(t, `
results:
  - deltas:
      - {key: balance, update: "+1", limit: 100}
`)
	output, err = runRoot(t, "squash", fixturePath, "--no-seed",
		"--config", configPath, "--base-path", basePath)
	require.NoError(t, err)

	expected := []WriteFixture{
		{Key: "balance", Kind: "modification", Value: ptrTo(u128.From64(13))},
	}
	assert.Equal(t, expected, decodeReport(t, output).Writes)
}
