// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables overriding the config,
// for example AGGREGATOR_DATABASE_BACKEND.
const envPrefix = "AGGREGATOR"

// newViper returns a viper instance reading environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// addStringFlagBindViper adds a string flag to the given command and binds it to the given viper name
func addStringFlagBindViper(v *viper.Viper,
	cmd *cobra.Command,
	name,
	defaultValue,
	usage,
	viperBindName string,
) error {
	cmd.PersistentFlags().String(name, defaultValue, usage)
	return v.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addBoolFlagBindViper adds a bool flag to the given command and binds it to the given viper name
func addBoolFlagBindViper(v *viper.Viper,
	cmd *cobra.Command,
	name string,
	defaultValue bool,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Bool(name, defaultValue, usage)
	return v.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addUint64FlagBindViper adds a uint64 flag to the given command and binds it to the given viper name
func addUint64FlagBindViper(v *viper.Viper,
	cmd *cobra.Command,
	name string,
	defaultValue uint64,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Uint64(name, defaultValue, usage)
	return v.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// readConfigFile reads the config file at path if set, or the
// config.toml file in the base path if it exists.
func readConfigFile(v *viper.Viper, path, basePath string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(basePath)

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// ignore not found error, return other errors
			return err
		}
	}
	return nil
}

// fileExists returns true if a file or directory exists at path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
