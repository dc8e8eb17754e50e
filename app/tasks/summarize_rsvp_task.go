package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type SummarizeRSVPTask struct {
	Task
	rsvps SummaryRefresher
}

func NewSummarizeRSVPTask(rsvps SummaryRefresher) *SummarizeRSVPTask {
	return &SummarizeRSVPTask{
		Task:  NewTask(TaskTypeSummarizeRSVP, "rsvps"),
		rsvps: rsvps,
	}
}

func (t *SummarizeRSVPTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summary, err := t.rsvps.RefreshSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize rsvps: %w", err)
	}

	slog.Debug("Task completed",
		"type", t.GetType(),
		"subject", t.Subject,
		"duration", t.GetDuration(),
		"responses", summary.Responses,
		"headcount", summary.Headcount)

	return nil
}
