package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/wedding-feed/app/common"
)

var _ EntryRepository = (*SQLiteEntryRepository)(nil)

type SQLiteEntryRepository struct {
	db *DB
}

func NewEntryRepository(db *DB) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{db: db}
}

func (r *SQLiteEntryRepository) InsertEntry(ctx context.Context, entry Entry) (*Entry, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// created_at never goes backwards, even if the clock does
	var revision, createdAt int64
	err = tx.QueryRowContext(ctx, `
		UPDATE feed_state
		SET revision = revision + 1, last_created_at = MAX(last_created_at, ?)
		WHERE id = 1
		RETURNING revision, last_created_at
	`, entry.CreatedAt.UnixNano()).Scan(&revision, &createdAt)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to bump feed revision: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO guestbook_entries (id, author_name, message, password_hash, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING seq
	`, entry.ID, entry.AuthorName, entry.Message, entry.PasswordHash, entry.ContentHash, createdAt).Scan(&entry.Seq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit entry: %w", err)
	}

	entry.CreatedAt = fromUnixNano(createdAt)

	return &entry, revision, nil
}

func (r *SQLiteEntryRepository) DeleteEntry(ctx context.Context, id string, authorize AuthorizeFunc) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var passwordHash string
	err = tx.QueryRowContext(ctx, `SELECT password_hash FROM guestbook_entries WHERE id = ?`, id).Scan(&passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up entry: %w", err)
	}

	if !authorize(passwordHash) {
		return 0, common.ErrMismatch
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM guestbook_entries WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return 0, common.ErrNotFound
	}

	var revision int64
	err = tx.QueryRowContext(ctx, `
		UPDATE feed_state SET revision = revision + 1 WHERE id = 1 RETURNING revision
	`).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("failed to bump feed revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}

	return revision, nil
}

// LoadSnapshot returns all entries, newest first, with the revision they belong to.
func (r *SQLiteEntryRepository) LoadSnapshot(ctx context.Context) ([]Entry, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	if err := tx.QueryRowContext(ctx, `SELECT revision FROM feed_state WHERE id = 1`).Scan(&revision); err != nil {
		return nil, 0, fmt.Errorf("failed to get feed revision: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT seq, id, author_name, message, password_hash, content_hash, created_at
		FROM guestbook_entries
		ORDER BY created_at DESC, seq DESC
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var createdAt int64
		err := rows.Scan(&entry.Seq, &entry.ID, &entry.AuthorName, &entry.Message,
			&entry.PasswordHash, &entry.ContentHash, &createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entry.CreatedAt = fromUnixNano(createdAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, revision, nil
}

func (r *SQLiteEntryRepository) GetRevision(ctx context.Context) (int64, error) {
	var revision int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM feed_state WHERE id = 1`).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed revision: %w", err)
	}
	return revision, nil
}

func (r *SQLiteEntryRepository) GetEntryCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guestbook_entries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}

func (r *SQLiteEntryRepository) HasRecentDuplicate(ctx context.Context, contentHash string, since time.Time) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM guestbook_entries WHERE content_hash = ? AND created_at >= ? LIMIT 1
	`, contentHash, since.UnixNano()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
