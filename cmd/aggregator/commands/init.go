// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"path/filepath"

	cfg "github.com/ChainSafe/aggregator/config"
	"github.com/spf13/cobra"
)

// newInitCommand returns the command writing the config file
func (c *cli) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the configuration file to the base path",
		Long: `The init command writes the current configuration, including values given
with flags, to config.toml in the base path.
Example:
	aggregator init --base-path ~/.aggregator --db-backend badger`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execInit(cmd)
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing config file")
	return cmd
}

// execInit executes the init command
func (c *cli) execInit(cmd *cobra.Command) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get --force: %s", err)
	}

	path := filepath.Join(c.config.BasePath, "config.toml")
	if fileExists(path) && !force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite it", path)
	}

	err = cfg.WriteTOML(path, c.config)
	if err != nil {
		return err
	}

	logger.Infof("config written to %s", path)
	return nil
}
