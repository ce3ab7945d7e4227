package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/logger"
	"github.com/LexiconIndonesia/recruiter-scraper/common/messaging"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/LexiconIndonesia/recruiter-scraper/common/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// cleanupTimeout bounds shutdown, lock release and the final run update
// once the run context is gone
const cleanupTimeout = 10 * time.Second

// RunLocker serialises runs of the same platform across processes
type RunLocker interface {
	Acquire(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
}

// Orchestrator drives one scrape run: it records the audit row, invokes the
// source, deduplicates and persists candidates, and closes the run.
type Orchestrator struct {
	runs       services.ScrapeRunService
	recruiters services.RecruiterService
	jobs       services.JobListingService

	release   func()
	publisher messaging.Publisher
	lock      RunLocker
	now       func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithRelease sets a function called after every run to release the store
func WithRelease(release func()) Option {
	return func(o *Orchestrator) {
		o.release = release
	}
}

// WithPublisher publishes a RunFinished event for every closed run
func WithPublisher(publisher messaging.Publisher) Option {
	return func(o *Orchestrator) {
		o.publisher = publisher
	}
}

// WithRunLock allows a single concurrent run per platform
func WithRunLock(lock RunLocker) Option {
	return func(o *Orchestrator) {
		o.lock = lock
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator
func New(runs services.ScrapeRunService, recruiters services.RecruiterService, jobs services.JobListingService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runs:       runs,
		recruiters: recruiters,
		jobs:       jobs,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one scrape run and returns its final audit record. The source
// is shut down and the store released on every path.
func (o *Orchestrator) Run(ctx context.Context, s scraper.Scraper, opts scraper.Options) (run models.ScrapeRun, err error) {
	prefix := logger.Prefix(opts.DryRun)
	platform := s.Platform()
	locked := false

	defer func() {
		o.cleanup(ctx, s, platform, locked)
	}()

	id, err := uuid.NewV7()
	if err != nil {
		return models.ScrapeRun{}, fmt.Errorf("failed to generate run id: %w", err)
	}
	run = models.NewScrapeRun(id.String(), platform, opts.Query, opts.DryRun, o.now())

	if o.lock != nil {
		if err := o.lock.Acquire(ctx, platform.String()); err != nil {
			return o.abort(run, err, prefix)
		}
		locked = true
	}

	if _, err := o.runs.Create(ctx, run); err != nil {
		return o.abort(run, fmt.Errorf("failed to create scrape run: %w", err), prefix)
	}

	log.Info().
		Str("run_id", run.ID).
		Str("platform", platform.String()).
		Str("query", opts.Query).
		Int("max", opts.Limit()).
		Msg(prefix + "Scrape run started")

	result, scrapeErr := s.Scrape(ctx, opts)
	if scrapeErr == nil {
		scrapeErr = o.persist(ctx, &run, result, opts.DryRun)
	}

	if scrapeErr != nil {
		log.Error().Err(scrapeErr).Str("run_id", run.ID).Msg(prefix + "Scrape run failed")
		if err := run.Fail(scrapeErr, o.now()); err != nil {
			return run, err
		}
		if err := o.finish(ctx, run, prefix); err != nil {
			log.Error().Err(err).Str("run_id", run.ID).Msg(prefix + "Failed to close scrape run")
		}
		return run, scrapeErr
	}

	if err := run.Complete(o.now()); err != nil {
		return run, err
	}
	if err := o.finish(ctx, run, prefix); err != nil {
		return run, err
	}
	return run, nil
}

// persist deduplicates and stores every candidate. Lookup and insert failures
// are recorded on the run and do not stop it.
func (o *Orchestrator) persist(ctx context.Context, run *models.ScrapeRun, result scraper.Result, dryRun bool) error {
	prefix := logger.Prefix(dryRun)
	run.AddFound(result.Found())
	for _, msg := range result.Errors {
		run.RecordError(msg)
	}

	keys := newRunKeys()
	for _, r := range result.Recruiters {
		if err := ctx.Err(); err != nil {
			return err
		}

		dup, err := o.isDuplicateRecruiter(ctx, keys, r)
		if err != nil {
			run.RecordError(fmt.Sprintf("recruiter %q: duplicate lookup failed: %v", r.FullName, err))
			continue
		}
		if dup {
			run.MarkSkipped()
			log.Debug().Str("name", r.FullName).Msg(prefix + "Skipping duplicate recruiter")
			continue
		}

		if !dryRun {
			if _, err := o.recruiters.Create(ctx, r); err != nil {
				run.RecordError(fmt.Sprintf("recruiter %q: insert failed: %v", r.FullName, err))
				continue
			}
		}
		keys.addRecruiter(r)
		run.MarkSaved()
		log.Debug().Str("name", r.FullName).Msg(prefix + "Saved recruiter")
	}

	for _, j := range result.Jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		dup, err := o.isDuplicateJob(ctx, keys, j)
		if err != nil {
			run.RecordError(fmt.Sprintf("job %q: duplicate lookup failed: %v", j.SourceURL, err))
			continue
		}
		if dup {
			run.MarkSkipped()
			log.Debug().Str("url", j.SourceURL).Msg(prefix + "Skipping duplicate job")
			continue
		}

		if !dryRun {
			if _, err := o.jobs.Create(ctx, j); err != nil {
				run.RecordError(fmt.Sprintf("job %q: insert failed: %v", j.SourceURL, err))
				continue
			}
		}
		keys.addJob(j)
		run.MarkSaved()
		log.Debug().Str("title", j.Title).Str("url", j.SourceURL).Msg(prefix + "Saved job")
	}

	return nil
}

// abort fails a run that never reached the store. Only the summary is logged.
func (o *Orchestrator) abort(run models.ScrapeRun, cause error, prefix string) (models.ScrapeRun, error) {
	if err := run.Fail(cause, o.now()); err != nil {
		return run, errors.Join(cause, err)
	}
	logSummary(run, prefix)
	return run, cause
}

func logSummary(run models.ScrapeRun, prefix string) {
	log.Info().
		Str("run_id", run.ID).
		Str("platform", run.Platform.String()).
		Str("status", string(run.Status)).
		Int("found", run.TotalFound).
		Int("saved", run.TotalSaved).
		Int("skipped", run.TotalSkipped).
		Int("errors", run.TotalErrors).
		Dur("duration", run.Duration()).
		Msg(prefix + "Scrape run finished")
}

// finish writes the closed run, publishes its event and logs the summary
func (o *Orchestrator) finish(ctx context.Context, run models.ScrapeRun, prefix string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	logSummary(run, prefix)

	if err := o.runs.Update(ctx, run); err != nil {
		return fmt.Errorf("failed to update scrape run %s: %w", run.ID, err)
	}

	if o.publisher != nil {
		if err := messaging.PublishRunFinished(ctx, o.publisher, run); err != nil {
			log.Warn().Err(err).Str("run_id", run.ID).Msg(prefix + "Failed to publish run event")
		}
	}
	return nil
}

func (o *Orchestrator) cleanup(ctx context.Context, s scraper.Scraper, platform models.Platform, locked bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Str("scraper", s.Name()).Msg("Scraper shutdown failed")
	}
	if locked {
		if err := o.lock.Release(ctx, platform.String()); err != nil {
			log.Warn().Err(err).Str("platform", platform.String()).Msg("Failed to release run lock")
		}
	}
	if o.release != nil {
		o.release()
	}
}
