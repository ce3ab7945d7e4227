package services

import (
	"context"
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/google/uuid"
)

const jobListingsTable = "job_listings"

// JobListingRepository persists job listings
type JobListingRepository struct {
	table table
}

func NewJobListingRepository(db DBTX) *JobListingRepository {
	return &JobListingRepository{table: table{db: db, name: jobListingsTable}}
}

var _ JobListingService = (*JobListingRepository)(nil)

func (r *JobListingRepository) Create(ctx context.Context, job models.JobListing) (models.JobListing, error) {
	if job.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return models.JobListing{}, fmt.Errorf("generate job listing id: %w", err)
		}
		job.ID = id.String()
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}

	err := r.table.Insert(ctx, []Column{
		Col("id", job.ID),
		Col("title", job.Title),
		Col("company", job.Company),
		Col("department", job.Department),
		Col("description", job.Description),
		Col("location", job.Location),
		Col("location_type", job.LocationType),
		Col("employment_type", job.EmploymentType),
		Col("salary_min", job.SalaryMin),
		Col("salary_max", job.SalaryMax),
		Col("salary_currency", job.SalaryCurrency),
		Col("skills", job.Skills),
		Col("experience_level", job.ExperienceLevel),
		Col("source", string(job.Source)),
		Col("source_url", job.SourceURL),
		Col("status", job.Status),
		Col("posted_at", job.PostedAt),
		Col("scraped_at", job.ScrapedAt),
	})
	if err != nil {
		return models.JobListing{}, err
	}
	return job, nil
}

func (r *JobListingRepository) ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	_, found, err := r.table.FindIDBy(ctx, Col("source_url", sourceURL))
	return found, err
}
