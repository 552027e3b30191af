// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package metrics exports the registered prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/ChainSafe/aggregator/internal/log"
	"github.com/prometheus/client_golang/prometheus"
)

var logger log.LeveledLogger = log.NewFromGlobal(log.AddContext("pkg", "metrics"))

// WriteTextfile writes the metrics gathered from gatherer to the file at
// path, in the text format read by the node exporter textfile collector.
// The file is replaced atomically.
func WriteTextfile(path string, gatherer prometheus.Gatherer) (err error) {
	err = prometheus.WriteToTextfile(path, gatherer)
	if err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	logger.Debugf("metrics written to %s", path)
	return nil
}
