package services

import (
	"context"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
)

// RecruiterService defines the recruiter operations the orchestrator needs
type RecruiterService interface {
	// Create inserts a new recruiter and returns it with its ID
	Create(ctx context.Context, recruiter models.Recruiter) (models.Recruiter, error)

	// ExistsByLinkedInURL reports whether a recruiter with this profile URL exists
	ExistsByLinkedInURL(ctx context.Context, url string) (bool, error)

	// ExistsByNameAndCompany reports whether a recruiter with this exact name and company exists
	ExistsByNameAndCompany(ctx context.Context, fullName, company string) (bool, error)
}

// JobListingService defines the job listing operations the orchestrator needs
type JobListingService interface {
	// Create inserts a new job listing and returns it with its ID
	Create(ctx context.Context, job models.JobListing) (models.JobListing, error)

	// ExistsBySourceURL reports whether a job listing with this source URL exists
	ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error)
}

// ScrapeRunService defines the audit trail operations
type ScrapeRunService interface {
	// Create inserts the running audit record
	Create(ctx context.Context, run models.ScrapeRun) (models.ScrapeRun, error)

	// Update writes status, counters and completion fields of an existing run
	Update(ctx context.Context, run models.ScrapeRun) error
}
