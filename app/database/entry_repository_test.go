package database

import (
	"context"
	"testing"
	"time"

	"github.com/lysyi3m/wedding-feed/app/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(id string, createdAt time.Time) Entry {
	return Entry{
		ID:           id,
		AuthorName:   "Yuna",
		Message:      "Congrats!",
		PasswordHash: "hash-" + id,
		ContentHash:  "content-" + id,
		CreatedAt:    createdAt,
	}
}

func TestInsertEntryAndLoadSnapshot(t *testing.T) {
	repo := NewEntryRepository(setupDB(t))
	ctx := context.Background()
	t1 := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)

	e1, rev1, err := repo.InsertEntry(ctx, newEntry("E1", t1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev1)
	assert.True(t, e1.CreatedAt.Equal(t1))
	assert.NotZero(t, e1.Seq)

	e2, rev2, err := repo.InsertEntry(ctx, newEntry("E2", t1.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev2)

	entries, revision, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revision)
	require.Len(t, entries, 2)
	assert.Equal(t, e2.ID, entries[0].ID)
	assert.Equal(t, e1.ID, entries[1].ID)
	assert.Equal(t, "hash-E1", entries[1].PasswordHash)

	count, err := repo.GetEntryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInsertEntryCreatedAtNeverGoesBackwards(t *testing.T) {
	repo := NewEntryRepository(setupDB(t))
	ctx := context.Background()
	t1 := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := repo.InsertEntry(ctx, newEntry("E1", t1))
	require.NoError(t, err)

	// clock stepped back
	e2, _, err := repo.InsertEntry(ctx, newEntry("E2", t1.Add(-time.Hour)))
	require.NoError(t, err)
	assert.True(t, e2.CreatedAt.Equal(t1), "expected created_at clamped to %v, got %v", t1, e2.CreatedAt)

	// ties are ordered by insertion
	entries, _, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "E2", entries[0].ID)
	assert.Equal(t, "E1", entries[1].ID)
}

func TestDeleteEntry(t *testing.T) {
	repo := NewEntryRepository(setupDB(t))
	ctx := context.Background()

	_, _, err := repo.InsertEntry(ctx, newEntry("E1", time.Now()))
	require.NoError(t, err)

	// mismatch leaves the row alone
	_, err = repo.DeleteEntry(ctx, "E1", func(hash string) bool { return false })
	assert.ErrorIs(t, err, common.ErrMismatch)

	entries, revision, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(1), revision)

	var seen string
	revision, err = repo.DeleteEntry(ctx, "E1", func(hash string) bool {
		seen = hash
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, "hash-E1", seen)
	assert.Equal(t, int64(2), revision)

	_, err = repo.DeleteEntry(ctx, "E1", func(hash string) bool { return true })
	assert.ErrorIs(t, err, common.ErrNotFound)

	entries, _, err = repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestGetRevision(t *testing.T) {
	repo := NewEntryRepository(setupDB(t))
	ctx := context.Background()

	revision, err := repo.GetRevision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), revision)

	_, _, err = repo.InsertEntry(ctx, newEntry("E1", time.Now()))
	require.NoError(t, err)

	revision, err = repo.GetRevision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), revision)
}

func TestHasRecentDuplicate(t *testing.T) {
	repo := NewEntryRepository(setupDB(t))
	ctx := context.Background()
	now := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)

	entry := newEntry("E1", now)
	entry.ContentHash = "same"
	_, _, err := repo.InsertEntry(ctx, entry)
	require.NoError(t, err)

	dup, err := repo.HasRecentDuplicate(ctx, "same", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = repo.HasRecentDuplicate(ctx, "same", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = repo.HasRecentDuplicate(ctx, "other", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, dup)
}
