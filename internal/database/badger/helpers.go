// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/aggregator/internal/database"
	"github.com/dgraph-io/badger/v4"
)

// transformError transforms a badger error into a database error
// eventually, for errors defined in the parent database package.
func transformError(badgerErr error) (err error) {
	if errors.Is(badgerErr, badger.ErrDBClosed) {
		return fmt.Errorf("%w", database.ErrClosed)
	}
	return badgerErr
}
