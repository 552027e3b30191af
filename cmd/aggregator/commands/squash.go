// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"os"

	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/ChainSafe/aggregator/internal/metrics"
	"github.com/ChainSafe/aggregator/lib/aggregator"
	"github.com/ChainSafe/aggregator/lib/state"
	"github.com/ChainSafe/aggregator/lib/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newSquashCommand returns the command squashing the results of a fixture
func (c *cli) newSquashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squash FIXTURE",
		Short: "Squash execution results and materialize their deltas",
		Long: `The squash command seeds the state database with the base values of the
fixture, squashes its execution results in order, materializes the pending
aggregator deltas against the state database and prints the output as YAML.
Example:
	aggregator squash results.yaml --db-backend memory
	aggregator squash results.yaml --commit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execSquash(cmd, args[0])
		},
	}
	cmd.Flags().Bool("commit", false, "commit the output write set to the state database")
	cmd.Flags().Bool("no-seed", false, "do not write the fixture base values to the state database")
	cmd.Flags().String("metrics-file", "", "write the prometheus metrics to this file once done")
	return cmd
}

// execSquash executes the squash command
func (c *cli) execSquash(cmd *cobra.Command, fixturePath string) (err error) {
	commit, err := cmd.Flags().GetBool("commit")
	if err != nil {
		return fmt.Errorf("failed to get --commit: %s", err)
	}
	noSeed, err := cmd.Flags().GetBool("no-seed")
	if err != nil {
		return fmt.Errorf("failed to get --no-seed: %s", err)
	}
	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return fmt.Errorf("failed to get --metrics-file: %s", err)
	}

	file, err := os.Open(fixturePath)
	if err != nil {
		return fmt.Errorf("opening fixture: %w", err)
	}
	defer file.Close()

	fixture, err := decodeFixture(file)
	if err != nil {
		return err
	}

	db, err := openDatabase(c.config)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing database: %w", closeErr)
		}
	}()
	table := db.NewTable(c.config.Database.TablePrefix)

	if !noSeed {
		err = state.Seed(table, fixture.baseValues())
		if err != nil {
			return fmt.Errorf("seeding base values: %w", err)
		}
	}

	output, err := squash(fixture, c.config.ChangeSet.Configs(), table)
	if err != nil {
		return err
	}

	if commit && !output.Status().IsDiscarded() {
		err = state.Commit(table, output.WriteSet())
		if err != nil {
			return fmt.Errorf("committing output: %w", err)
		}
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	defer encoder.Close()
	err = encoder.Encode(newOutputReport(output))
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if metricsFile != "" {
		return metrics.WriteTextfile(metricsFile, prometheus.DefaultGatherer)
	}
	return nil
}

// squash squashes the fixture results in order and materializes the
// deltas left pending, reading base values from the given reader.
func squash(fixture Fixture, checker transaction.CheckChangeSet, reader database.Reader) (
	output transaction.TransactionOutput, err error) {
	status, err := fixture.status()
	if err != nil {
		return output, err
	}

	results, err := fixture.changeSetExts(checker)
	if err != nil {
		return output, fmt.Errorf("building results: %w", err)
	}

	squashed, err := aggregator.SquashAll(checker, results...)
	if err != nil {
		return output, err
	}
	logger.Debugf("squashed %d results", len(results))

	// A materialization failure panics and the output is never committed.
	outputExt := squashed.IntoOutputExt(fixture.GasUsed, status)
	return outputExt.IntoTransactionOutput(state.NewView(reader)), nil
}
