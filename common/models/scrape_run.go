package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// RunStatus is the lifecycle status of a scrape run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// ErrInvalidTransition is returned when a run is moved out of a terminal status
var ErrInvalidTransition = errors.New("invalid run status transition")

// allowedTransitions lists the forward-only moves of a run.
var allowedTransitions = map[RunStatus][]RunStatus{
	RunStatusRunning: {RunStatusCompleted, RunStatusPartial, RunStatusFailed},
}

// IsTransitionAllowed reports whether a run may move from one status to another
func IsTransitionAllowed(from, to RunStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ScrapeRun is the audit record of one invocation
type ScrapeRun struct {
	ID            string               `json:"id"`
	Platform      Platform             `json:"platform"`
	Status        RunStatus            `json:"status"`
	Query         string               `json:"query"`
	DryRun        bool                 `json:"dry_run"`
	TotalFound    int                  `json:"total_found"`
	TotalSaved    int                  `json:"total_saved"`
	TotalSkipped  int                  `json:"total_skipped"`
	TotalErrors   int                  `json:"total_errors"`
	ErrorMessages []string             `json:"error_messages"`
	StartedAt     time.Time            `json:"started_at"`
	CompletedAt   mo.Option[time.Time] `json:"completed_at"`
	DurationMs    mo.Option[int64]     `json:"duration_ms"`
}

// NewScrapeRun returns a running audit record
func NewScrapeRun(id string, platform Platform, query string, dryRun bool, startedAt time.Time) ScrapeRun {
	return ScrapeRun{
		ID:            id,
		Platform:      platform,
		Status:        RunStatusRunning,
		Query:         query,
		DryRun:        dryRun,
		ErrorMessages: []string{},
		StartedAt:     startedAt,
	}
}

func (r *ScrapeRun) AddFound(n int) {
	if n > 0 {
		r.TotalFound += n
	}
}

func (r *ScrapeRun) MarkSaved() {
	r.TotalSaved++
}

func (r *ScrapeRun) MarkSkipped() {
	r.TotalSkipped++
}

// RecordError counts an isolated error and keeps its message
func (r *ScrapeRun) RecordError(message string) {
	r.TotalErrors++
	r.ErrorMessages = append(r.ErrorMessages, message)
}

// Complete closes a finished run as partial when any error was recorded, completed otherwise
func (r *ScrapeRun) Complete(at time.Time) error {
	to := RunStatusCompleted
	if r.TotalErrors > 0 {
		to = RunStatusPartial
	}
	return r.transition(to, at)
}

// Fail closes a run whose scrape call itself failed
func (r *ScrapeRun) Fail(cause error, at time.Time) error {
	if cause != nil {
		r.RecordError(cause.Error())
	}
	return r.transition(RunStatusFailed, at)
}

func (r *ScrapeRun) transition(to RunStatus, at time.Time) error {
	if !IsTransitionAllowed(r.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.CompletedAt = mo.Some(at)
	r.DurationMs = mo.Some(at.Sub(r.StartedAt).Milliseconds())
	return nil
}

// Duration returns the elapsed run time, zero while the run is still running
func (r ScrapeRun) Duration() time.Duration {
	ms, ok := r.DurationMs.Get()
	if !ok {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
