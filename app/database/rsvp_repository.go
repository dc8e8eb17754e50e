package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ RSVPRepository = (*SQLiteRSVPRepository)(nil)

type SQLiteRSVPRepository struct {
	db *DB
}

func NewRSVPRepository(db *DB) *SQLiteRSVPRepository {
	return &SQLiteRSVPRepository{db: db}
}

func (r *SQLiteRSVPRepository) InsertRSVP(ctx context.Context, rsvp RSVP) (*RSVP, error) {
	var meal sql.NullBool
	if rsvp.MealPreference != nil {
		meal = sql.NullBool{Bool: *rsvp.MealPreference, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rsvps (id, name, attending, party_size, meal_preference, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING seq
	`, rsvp.ID, rsvp.Name, rsvp.Attending, rsvp.PartySize, meal, rsvp.CreatedAt.UnixNano()).Scan(&rsvp.Seq)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rsvp: %w", err)
	}

	return &rsvp, nil
}

func (r *SQLiteRSVPRepository) ListRSVPs(ctx context.Context) ([]RSVP, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, id, name, attending, party_size, meal_preference, created_at
		FROM rsvps
		ORDER BY created_at DESC, seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	rsvps := []RSVP{}
	for rows.Next() {
		var rsvp RSVP
		var meal sql.NullBool
		var createdAt int64
		err := rows.Scan(&rsvp.Seq, &rsvp.ID, &rsvp.Name, &rsvp.Attending, &rsvp.PartySize, &meal, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rsvp row: %w", err)
		}
		if meal.Valid {
			rsvp.MealPreference = &meal.Bool
		}
		rsvp.CreatedAt = fromUnixNano(createdAt)
		rsvps = append(rsvps, rsvp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rsvp rows: %w", err)
	}

	return rsvps, nil
}

func (r *SQLiteRSVPRepository) GetRSVPSummary(ctx context.Context) (*RSVPSummary, error) {
	var s RSVPSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN attending = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN attending = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(party_size), 0),
			COALESCE(SUM(CASE WHEN attending = 1 AND meal_preference = 1 THEN party_size ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN attending = 1 AND meal_preference = 0 THEN party_size ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN attending = 1 AND meal_preference IS NULL THEN party_size ELSE 0 END), 0)
		FROM rsvps
	`).Scan(&s.Responses, &s.Attending, &s.Declined, &s.Headcount, &s.MealYes, &s.MealNo, &s.MealUnspecified)
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp summary: %w", err)
	}

	return &s, nil
}
