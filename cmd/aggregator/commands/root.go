// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"io"

	cfg "github.com/ChainSafe/aggregator/config"
	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/ChainSafe/aggregator/lib/aggregator"
	"github.com/ChainSafe/aggregator/lib/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// cli holds the state shared by the commands of one root command.
type cli struct {
	viper  *viper.Viper
	config *cfg.Config
}

// NewRootCommand creates the root command
func NewRootCommand() (*cobra.Command, error) {
	c := &cli{
		viper:  newViper(),
		config: cfg.DefaultConfig(),
	}

	cmd := &cobra.Command{
		Use:   "aggregator",
		Short: "Squash execution results holding aggregator deltas",
		Long: `Aggregator squashes the execution results of transactions in commit order,
materializes the aggregator deltas left pending against the state database
and prints the resulting transaction output.
Usage:
	aggregator init --base-path ~/.aggregator
	aggregator squash results.yaml --db-backend memory
	aggregator squash results.yaml --config config.toml --commit`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			c.config, err = c.parseConfig(cmd)
			if err != nil {
				return err
			}
			return setupLogging(c.config.Log, cmd.ErrOrStderr())
		},
	}

	if err := c.addRootFlags(cmd); err != nil {
		return nil, err
	}

	cmd.AddCommand(c.newInitCommand(), c.newSquashCommand())

	return cmd, nil
}

// addRootFlags adds the root flags to the command
func (c *cli) addRootFlags(cmd *cobra.Command) error {
	defaults := cfg.DefaultConfig()

	cmd.PersistentFlags().String("config", "",
		"Path to a TOML config file, defaults to config.toml in the base path")

	if err := addStringFlagBindViper(c.viper, cmd,
		"base-path",
		defaults.BasePath,
		"Base directory holding the config file and the database",
		"base-path"); err != nil {
		return fmt.Errorf("failed to add --base-path flag: %s", err)
	}
	if err := addStringFlagBindViper(c.viper, cmd,
		"log",
		defaults.Log.Level,
		"Global log level. Supports levels critical (silent), error, warn, info, debug and trace",
		"log.level"); err != nil {
		return fmt.Errorf("failed to add --log flag: %s", err)
	}
	if err := addBoolFlagBindViper(c.viper, cmd,
		"log-caller",
		defaults.Log.Caller,
		"Append the file and line of the logging code to each log line",
		"log.caller"); err != nil {
		return fmt.Errorf("failed to add --log-caller flag: %s", err)
	}
	if err := addStringFlagBindViper(c.viper, cmd,
		"db-backend",
		defaults.Database.Backend.String(),
		"State database backend, one of pebble, badger and memory",
		"database.backend"); err != nil {
		return fmt.Errorf("failed to add --db-backend flag: %s", err)
	}
	if err := addStringFlagBindViper(c.viper, cmd,
		"db-path",
		defaults.Database.Path,
		"State database directory, relative to the base path unless absolute",
		"database.path"); err != nil {
		return fmt.Errorf("failed to add --db-path flag: %s", err)
	}
	if err := addBoolFlagBindViper(c.viper, cmd,
		"db-in-memory",
		defaults.Database.InMemory,
		"Keep the state database in memory",
		"database.in-memory"); err != nil {
		return fmt.Errorf("failed to add --db-in-memory flag: %s", err)
	}
	if err := addUint64FlagBindViper(c.viper, cmd,
		"max-write-ops",
		defaults.ChangeSet.MaxWriteOpsPerTransaction,
		"Maximum number of writes in a squashed change set, 0 for no limit",
		"change-set.max-write-ops-per-transaction"); err != nil {
		return fmt.Errorf("failed to add --max-write-ops flag: %s", err)
	}

	return nil
}

// parseConfig parses the config from the config file, the
// environment and the command line flags, in increasing priority.
func (c *cli) parseConfig(cmd *cobra.Command) (*cfg.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get --config: %s", err)
	}

	basePath := cfg.ExpandDir(c.viper.GetString("base-path"))
	err = readConfigFile(c.viper, configPath, basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	con := cfg.DefaultConfig()
	err = c.viper.Unmarshal(con)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	con.BasePath = cfg.ExpandDir(con.BasePath)

	if err := con.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}

	return con, nil
}

// setupLogging sends logs to the writer given, sets the global log
// level, then the levels of the packages which have one set.
func setupLogging(logConfig *cfg.LogConfig, writer io.Writer) error {
	log.Patch(log.SetWriter(writer), log.SetCaller(logConfig.Caller))

	if logConfig.Level != "" {
		level, err := log.ParseLevel(logConfig.Level)
		if err != nil {
			return fmt.Errorf("parsing global log level: %w", err)
		}
		log.PatchLevel(level)
	}

	packageLevels := []struct {
		level    string
		setLevel func(log.Level)
	}{
		{logConfig.Aggregator, aggregator.SetLogLevel},
		{logConfig.State, state.SetLogLevel},
		{logConfig.Database, database.SetLogLevel},
	}
	for _, packageLevel := range packageLevels {
		if packageLevel.level == "" {
			continue
		}
		level, err := log.ParseLevel(packageLevel.level)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		packageLevel.setLevel(level)
	}

	return nil
}
