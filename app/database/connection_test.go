package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionRejectsEmptyPath(t *testing.T) {
	_, err := NewConnection("")
	assert.Error(t, err)
}

func TestNewConnectionCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "wedding.db")

	db, err := NewConnection(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := setupDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var revision int64
	require.NoError(t, db.QueryRow(`SELECT revision FROM feed_state WHERE id = 1`).Scan(&revision))
	assert.Equal(t, int64(0), revision)
}
