package services

import (
	"context"
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/google/uuid"
)

const recruitersTable = "recruiters"

// RecruiterRepository persists recruiters
type RecruiterRepository struct {
	table table
}

// NewRecruiterRepository creates a recruiter repository on any pgx executor
func NewRecruiterRepository(db DBTX) *RecruiterRepository {
	return &RecruiterRepository{table: table{db: db, name: recruitersTable}}
}

var _ RecruiterService = (*RecruiterRepository)(nil)

func (r *RecruiterRepository) Create(ctx context.Context, recruiter models.Recruiter) (models.Recruiter, error) {
	if recruiter.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return models.Recruiter{}, fmt.Errorf("generate recruiter id: %w", err)
		}
		recruiter.ID = id.String()
	}
	if recruiter.JobTypes == nil {
		recruiter.JobTypes = []string{}
	}

	err := r.table.Insert(ctx, []Column{
		Col("id", recruiter.ID),
		Col("full_name", recruiter.FullName),
		Col("role", recruiter.Role),
		Col("company", recruiter.Company),
		Col("email", recruiter.Email),
		Col("linkedin_url", recruiter.LinkedInURL),
		Col("twitter_handle", recruiter.TwitterHandle),
		Col("location", recruiter.Location),
		Col("job_types", recruiter.JobTypes),
		Col("source", string(recruiter.Source)),
		Col("source_url", recruiter.SourceURL),
		Col("job_listing_id", recruiter.JobListingID),
		Col("scraped_at", recruiter.ScrapedAt),
	})
	if err != nil {
		return models.Recruiter{}, err
	}
	return recruiter, nil
}

func (r *RecruiterRepository) ExistsByLinkedInURL(ctx context.Context, url string) (bool, error) {
	_, found, err := r.table.FindIDBy(ctx, Col("linkedin_url", url))
	return found, err
}

func (r *RecruiterRepository) ExistsByNameAndCompany(ctx context.Context, fullName, company string) (bool, error) {
	_, found, err := r.table.FindIDBy(ctx, Col("full_name", fullName), Col("company", company))
	return found, err
}
