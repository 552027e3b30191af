// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deltaSquashCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aggregator_squash",
		Name:      "deltas_total",
		Help:      "total number of deltas squashed into execution results",
	})
	writeSquashCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aggregator_squash",
		Name:      "writes_total",
		Help:      "total number of writes squashed into execution results",
	})
	squashFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aggregator_squash",
		Name:      "failures_total",
		Help:      "total number of squash operations that failed",
	})
	materializedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aggregator_output",
		Name:      "materialized_deltas_total",
		Help:      "total number of deltas turned into writes of transaction outputs",
	})
)
