package tasks

import (
	"context"

	"github.com/lysyi3m/wedding-feed/app/rsvp"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the admin API.
// Example usage:
//
//	scheduler := NewScheduler(store, rsvpService)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewSyncSnapshotTask(store))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// SnapshotRefresher republishes the guestbook when the database moved ahead
// of what subscribers have seen.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (bool, error)
}

type SummaryRefresher interface {
	RefreshSummary(ctx context.Context) (rsvp.Summary, error)
}
