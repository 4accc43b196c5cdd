// Package testutil builds throwaway databases for repository, service and
// handler tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"rideshare-backend/internal/infrastructure/database/postgres"
)

// NewDB opens a migrated SQLite database in a temp dir. A single connection
// makes transactions queue instead of failing with "database is locked".
// Transactions therefore never overlap; tests that need an interleaving
// raise the limit themselves.
func NewDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "rides.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := postgres.Open(sqlite.Open(dsn), "test")
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	return db
}
