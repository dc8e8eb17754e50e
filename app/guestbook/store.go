package guestbook

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/wedding-feed/app/common"
	"github.com/lysyi3m/wedding-feed/app/database"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/oklog/ulid/v2"
)

type PolicySource interface {
	GuestbookSettings() invitation.GuestbookSettings
}

// Store is the durable, ordered guestbook with live subscriptions. Writes and
// publishes are serialized so subscribers see snapshots in commit order.
type Store struct {
	repo     database.EntryRepository
	hub      *Hub
	policy   PolicySource
	hasher   *PasswordHasher
	filterer *Filterer
	now      func() time.Time
	mu       sync.Mutex
}

func NewStore(repo database.EntryRepository, hub *Hub, policy PolicySource, hasher *PasswordHasher) *Store {
	return &Store{
		repo:     repo,
		hub:      hub,
		policy:   policy,
		hasher:   hasher,
		filterer: NewFilterer(),
		now:      time.Now,
	}
}

func (s *Store) Append(ctx context.Context, req AppendRequest) (*Entry, error) {
	settings := s.policy.GuestbookSettings()

	author := NormalizeText(req.AuthorName)
	message := NormalizeText(req.Message)

	if err := validateAppend(author, message, req.DeletePassword, settings); err != nil {
		return nil, err
	}

	if filtered, field, reason := s.filterer.Run(author, message, settings.Filters); filtered {
		slog.Info("Entry rejected by filter", "field", field, "reason", reason)
		return nil, common.NewValidationError(field, reason)
	}

	passwordHash, err := s.hasher.Hash(req.DeletePassword)
	if err != nil {
		return nil, err
	}

	hash := contentHash(author, message)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	if window := settings.GetDuplicateWindow(); window > 0 {
		duplicate, err := s.repo.HasRecentDuplicate(ctx, hash, now.Add(-window))
		if err != nil {
			return nil, common.Transient("check duplicate", err)
		}
		if duplicate {
			return nil, common.ErrDuplicate
		}
	}

	stored, revision, err := s.repo.InsertEntry(ctx, database.Entry{
		ID:           ulid.Make().String(),
		AuthorName:   author,
		Message:      message,
		PasswordHash: passwordHash,
		ContentHash:  hash,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, common.Transient("append entry", err)
	}

	slog.Info("Entry appended", "entry_id", stored.ID, "revision", revision)

	s.publishLocked(context.WithoutCancel(ctx))

	entry := toEntry(*stored)
	return &entry, nil
}

// Remove deletes the entry when password matches. It returns
// common.ErrNotFound or common.ErrMismatch without mutating anything otherwise.
func (s *Store) Remove(ctx context.Context, id, password string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.NewValidationError("id", "is required")
	}
	if password == "" {
		return common.NewValidationError("delete_password", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	revision, err := s.repo.DeleteEntry(ctx, id, func(passwordHash string) bool {
		return s.hasher.Verify(passwordHash, password)
	})
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrMismatch):
		slog.Info("Entry removal refused", "entry_id", id, "reason", err)
		return err
	case err != nil:
		return common.Transient("remove entry", err)
	}

	slog.Info("Entry removed", "entry_id", id, "revision", revision)

	s.publishLocked(context.WithoutCancel(ctx))

	return nil
}

// Subscribe returns a subscription whose first snapshot is the current state.
// It ends when ctx is cancelled or Close is called.
func (s *Store) Subscribe(ctx context.Context) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Another process may have written since our last publish.
	s.hub.Publish(snapshot)
	sub := s.hub.Subscribe(snapshot)

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.Done():
		}
	}()

	slog.Debug("Subscription opened", "subscription_id", sub.ID, "revision", snapshot.Revision)

	return sub, nil
}

func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.loadSnapshot(ctx)
}

// Refresh publishes the stored state if its revision moved past the last
// published one, which happens when another process shares the database.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	revision, err := s.repo.GetRevision(ctx)
	if err != nil {
		return false, common.Transient("get revision", err)
	}
	if revision <= s.hub.Revision() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return false, err
	}
	return s.hub.Publish(snapshot), nil
}

func (s *Store) Stats() Stats {
	return Stats{
		Revision:    s.hub.Revision(),
		Subscribers: s.hub.SubscriberCount(),
		Dropped:     s.hub.Dropped(),
	}
}

func (s *Store) EntryCount(ctx context.Context) (int, error) {
	count, err := s.repo.GetEntryCount(ctx)
	if err != nil {
		return 0, common.Transient("count entries", err)
	}
	return count, nil
}

func (s *Store) loadSnapshot(ctx context.Context) (Snapshot, error) {
	entries, revision, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return Snapshot{}, common.Transient("load snapshot", err)
	}
	return toSnapshot(entries, revision), nil
}

// publishLocked runs after a committed write. A failed reload is only logged:
// the write stands and the next Refresh catches subscribers up.
func (s *Store) publishLocked(ctx context.Context) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		slog.Error("Failed to load snapshot after write", "error", err)
		return
	}
	s.hub.Publish(snapshot)
}
