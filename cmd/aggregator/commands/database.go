// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	cfg "github.com/ChainSafe/aggregator/config"
	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/ChainSafe/aggregator/internal/database/badger"
	"github.com/ChainSafe/aggregator/internal/database/memory"
)

// openDatabase opens the state database configured.
func openDatabase(config *cfg.Config) (db database.Database, err error) {
	path := config.DatabasePath()
	inMemory := config.Database.InMemory

	switch config.Database.Backend {
	case cfg.PebbleBackend:
		db, err = database.NewPebble(path, inMemory)
	case cfg.BadgerBackend:
		db, err = badger.New(badger.Settings{
			Path:     path,
			InMemory: &inMemory,
		})
	case cfg.MemoryBackend:
		db = memory.New()
	default:
		return nil, fmt.Errorf("%w: %s", cfg.ErrBackendNotSupported, config.Database.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", config.Database.Backend, err)
	}

	logger.Debugf("opened %s state database", config.Database.Backend)
	return db, nil
}
