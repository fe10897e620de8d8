package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/filex"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open returns the Store selected by driver. path is the database file for
// the sqlite and bolt drivers and is ignored by memory.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite:
		if !isSQLiteMemoryDSN(path) {
			if _, err := filex.EnsureParentDir(sqliteFilePath(path)); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(ctx, path)
	case DriverBolt:
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
		return OpenBolt(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func isSQLiteMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// sqliteFilePath strips the URI scheme and query from a file: DSN.
func sqliteFilePath(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}
