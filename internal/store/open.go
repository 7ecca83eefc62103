package store

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the store selected by driver. path is the SQLite database
// file and is ignored by the memory driver.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStore(ctx, path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (want %s or %s)", driver, DriverSQLite, DriverMemory)
	}
}
