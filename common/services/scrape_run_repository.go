package services

import (
	"context"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
)

const scrapeRunsTable = "scrape_runs"

// ScrapeRunRepository persists the audit trail of scrape runs
type ScrapeRunRepository struct {
	table table
}

func NewScrapeRunRepository(db DBTX) *ScrapeRunRepository {
	return &ScrapeRunRepository{table: table{db: db, name: scrapeRunsTable}}
}

var _ ScrapeRunService = (*ScrapeRunRepository)(nil)

func (r *ScrapeRunRepository) Create(ctx context.Context, run models.ScrapeRun) (models.ScrapeRun, error) {
	if run.ErrorMessages == nil {
		run.ErrorMessages = []string{}
	}
	err := r.table.Insert(ctx, []Column{
		Col("id", run.ID),
		Col("platform", run.Platform.String()),
		Col("status", string(run.Status)),
		Col("query", run.Query),
		Col("dry_run", run.DryRun),
		Col("total_found", run.TotalFound),
		Col("total_saved", run.TotalSaved),
		Col("total_skipped", run.TotalSkipped),
		Col("total_errors", run.TotalErrors),
		Col("error_messages", run.ErrorMessages),
		Col("started_at", run.StartedAt),
	})
	if err != nil {
		return models.ScrapeRun{}, err
	}
	return run, nil
}

func (r *ScrapeRunRepository) Update(ctx context.Context, run models.ScrapeRun) error {
	messages := run.ErrorMessages
	if messages == nil {
		messages = []string{}
	}
	return r.table.UpdateByID(ctx, run.ID, []Column{
		Col("status", string(run.Status)),
		Col("total_found", run.TotalFound),
		Col("total_saved", run.TotalSaved),
		Col("total_skipped", run.TotalSkipped),
		Col("total_errors", run.TotalErrors),
		Col("error_messages", messages),
		Col("completed_at", run.CompletedAt),
		Col("duration_ms", run.DurationMs),
	})
}
