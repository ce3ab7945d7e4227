package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher publishes raw payloads on a subject
type Publisher interface {
	PublishSync(ctx context.Context, subject string, data []byte) error
}

// RunFinishedEvent is published once a scrape run reaches a terminal status
type RunFinishedEvent struct {
	RunID        string           `json:"run_id"`
	Platform     models.Platform  `json:"platform"`
	Status       models.RunStatus `json:"status"`
	Query        string           `json:"query"`
	DryRun       bool             `json:"dry_run"`
	TotalFound   int              `json:"total_found"`
	TotalSaved   int              `json:"total_saved"`
	TotalSkipped int              `json:"total_skipped"`
	TotalErrors  int              `json:"total_errors"`
	DurationMs   int64            `json:"duration_ms"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// NewRunFinishedEvent builds the event for a finished run
func NewRunFinishedEvent(run models.ScrapeRun) RunFinishedEvent {
	return RunFinishedEvent{
		RunID:        run.ID,
		Platform:     run.Platform,
		Status:       run.Status,
		Query:        run.Query,
		DryRun:       run.DryRun,
		TotalFound:   run.TotalFound,
		TotalSaved:   run.TotalSaved,
		TotalSkipped: run.TotalSkipped,
		TotalErrors:  run.TotalErrors,
		DurationMs:   run.DurationMs.OrEmpty(),
		FinishedAt:   run.CompletedAt.OrElse(run.StartedAt),
	}
}

// RunSubject returns the subject a run with the given status is published on
func RunSubject(status models.RunStatus) string {
	return fmt.Sprintf("%s.%s", common.RunSubjectPrefix, status)
}

// RunStreamConfig describes the stream holding run events
func RunStreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:     common.RunStreamName,
		Subjects: []string{common.RunSubjectPrefix + ".>"},
		MaxAge:   30 * 24 * time.Hour,
	}
}

// PublishRunFinished publishes the finished run event
func PublishRunFinished(ctx context.Context, publisher Publisher, run models.ScrapeRun) error {
	data, err := json.Marshal(NewRunFinishedEvent(run))
	if err != nil {
		return fmt.Errorf("marshalling run event: %w", err)
	}
	return publisher.PublishSync(ctx, RunSubject(run.Status), data)
}
