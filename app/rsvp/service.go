package rsvp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/wedding-feed/app/common"
	"github.com/lysyi3m/wedding-feed/app/database"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/unicode/norm"
)

const MaxNameLength = invitation.DefaultMaxNameLength

type PolicySource interface {
	RSVPSettings() invitation.RSVPSettings
}

// Service accepts attendance responses and serves the admin read side.
type Service struct {
	repo    database.RSVPRepository
	policy  PolicySource
	now     func() time.Time
	mu      sync.RWMutex
	summary *Summary

	// generation counts submissions; a refresh only caches when it is unchanged.
	generation uint64
}

func NewService(repo database.RSVPRepository, policy PolicySource) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*RSVP, error) {
	settings := s.policy.RSVPSettings()
	now := s.now().UTC()

	if !settings.IsOpen(now) {
		return nil, common.ErrClosed
	}

	record, err := normalize(req, settings)
	if err != nil {
		return nil, err
	}
	record.ID = ulid.Make().String()
	record.CreatedAt = now

	stored, err := s.repo.InsertRSVP(ctx, record)
	if err != nil {
		return nil, common.Transient("submit rsvp", err)
	}

	s.mu.Lock()
	s.summary = nil
	s.generation++
	s.mu.Unlock()

	slog.Info("RSVP submitted", "rsvp_id", stored.ID, "attending", stored.Attending, "party_size", stored.PartySize)

	result := toRSVP(*stored)
	return &result, nil
}

func (s *Service) List(ctx context.Context) ([]RSVP, error) {
	records, err := s.repo.ListRSVPs(ctx)
	if err != nil {
		return nil, common.Transient("list rsvps", err)
	}

	result := make([]RSVP, 0, len(records))
	for _, r := range records {
		result = append(result, toRSVP(r))
	}
	return result, nil
}

// Summary returns the cached summary, computing it if a submission
// invalidated it since the last refresh.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	cached := s.summary
	s.mu.RUnlock()

	if cached != nil {
		return *cached, nil
	}
	return s.RefreshSummary(ctx)
}

// RefreshSummary recomputes the summary. The result is cached only if no
// submission landed while the aggregates were being read.
func (s *Service) RefreshSummary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	raw, err := s.repo.GetRSVPSummary(ctx)
	if err != nil {
		return Summary{}, common.Transient("summarize rsvps", err)
	}

	summary := toSummary(*raw, s.now().UTC())

	s.mu.Lock()
	if s.generation == generation {
		s.summary = &summary
	}
	s.mu.Unlock()

	return summary, nil
}

func normalize(req SubmitRequest, settings invitation.RSVPSettings) (database.RSVP, error) {
	name := norm.NFC.String(strings.TrimSpace(req.Name))
	if name == "" {
		return database.RSVP{}, common.NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return database.RSVP{}, common.NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	if req.Attending == nil {
		return database.RSVP{}, common.NewValidationError("attending", "is required")
	}

	record := database.RSVP{Name: name, Attending: *req.Attending}

	if !record.Attending {
		return record, nil
	}

	switch {
	case req.PartySize == 0:
		record.PartySize = 1
	case req.PartySize < 0:
		return database.RSVP{}, common.NewValidationError("party_size", "must be at least 1")
	case settings.MaxPartySize > 0 && req.PartySize > settings.MaxPartySize:
		return database.RSVP{}, common.NewValidationError("party_size", fmt.Sprintf("must be at most %d", settings.MaxPartySize))
	default:
		record.PartySize = req.PartySize
	}
	record.MealPreference = req.MealPreference

	return record, nil
}
