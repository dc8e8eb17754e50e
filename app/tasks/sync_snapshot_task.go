package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type SyncSnapshotTask struct {
	Task
	store SnapshotRefresher
}

func NewSyncSnapshotTask(store SnapshotRefresher) *SyncSnapshotTask {
	return &SyncSnapshotTask{
		Task:  NewTask(TaskTypeSyncSnapshot, "guestbook"),
		store: store,
	}
}

func (t *SyncSnapshotTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	published, err := t.store.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh guestbook snapshot: %w", err)
	}

	if !published {
		slog.Debug("Guestbook snapshot up to date")
		return nil
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"subject", t.Subject,
		"duration", t.GetDuration(),
		"published", published)

	return nil
}
