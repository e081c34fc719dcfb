package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrate_UnsupportedBackend(t *testing.T) {
	err := Migrate(schema.DatabaseBackend("oracle"), "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Latest version creates both tables
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Running again is a no-op
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	// Step down to reviews only, then all the way down and back up
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 2))

	// Migrated schema is usable by the store
	db, err := Open(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestMigrate_SQLiteInMemory(t *testing.T) {
	require.NoError(t, Migrate(schema.SQLiteBackend, ":memory:", -1))
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []string{"sqlite", "mysql", "postgresql"} {
		entries, err := migrationsFS.ReadDir("migrations/" + backend)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 4, backend)
	}
}
