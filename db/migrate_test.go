package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	t.Run("successfully opens database and runs migrations", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		var exists int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "schema_migrations table should exist after migrations")

		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='triples'").Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "triples table should exist after migrations")
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)

		// Running migrations again on the same database must be a no-op
		err = Migrate(db, nil)
		require.NoError(t, err)
		db.Close()
	})
}

func TestTriplesUniqueConstraint(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := OpenWithMigrations(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO triples (subject, predicate, object) VALUES (?, ?, ?)",
		"crypto#qkd", "rdfs:label", "qkd")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO triples (subject, predicate, object) VALUES (?, ?, ?)",
		"crypto#qkd", "rdfs:label", "qkd")
	assert.Error(t, err, "duplicate triples should be rejected")
}
