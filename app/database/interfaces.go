package database

import (
	"context"
	"time"
)

// AuthorizeFunc decides, given the stored password hash, whether a delete may proceed.
type AuthorizeFunc func(passwordHash string) bool

type EntryRepository interface {
	// InsertEntry stores entry and returns it with the committed created_at
	// together with the new feed revision.
	InsertEntry(ctx context.Context, entry Entry) (*Entry, int64, error)
	// DeleteEntry runs lookup, authorize and delete in one transaction.
	DeleteEntry(ctx context.Context, id string, authorize AuthorizeFunc) (int64, error)
	LoadSnapshot(ctx context.Context) ([]Entry, int64, error)
	GetRevision(ctx context.Context) (int64, error)
	GetEntryCount(ctx context.Context) (int, error)
	HasRecentDuplicate(ctx context.Context, contentHash string, since time.Time) (bool, error)
}

type RSVPRepository interface {
	InsertRSVP(ctx context.Context, rsvp RSVP) (*RSVP, error)
	ListRSVPs(ctx context.Context) ([]RSVP, error)
	GetRSVPSummary(ctx context.Context) (*RSVPSummary, error)
}
