package models

import (
	"time"

	"github.com/samber/mo"
)

// JobStatusOpen is the status every scraped job listing starts with
const JobStatusOpen = "open"

// Location types
const (
	LocationTypeRemote = "remote"
	LocationTypeHybrid = "hybrid"
	LocationTypeOnsite = "onsite"
)

// JobListing is a candidate job record produced by the career-page scraper.
// SourceURL is its natural key.
type JobListing struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Company         string               `json:"company"`
	Department      mo.Option[string]    `json:"department"`
	Description     mo.Option[string]    `json:"description"`
	Location        mo.Option[string]    `json:"location"`
	LocationType    mo.Option[string]    `json:"location_type"`
	EmploymentType  mo.Option[string]    `json:"employment_type"`
	SalaryMin       mo.Option[float64]   `json:"salary_min"`
	SalaryMax       mo.Option[float64]   `json:"salary_max"`
	SalaryCurrency  mo.Option[string]    `json:"salary_currency"`
	Skills          []string             `json:"skills"`
	ExperienceLevel mo.Option[string]    `json:"experience_level"`
	Source          RecordSource         `json:"source"`
	SourceURL       string               `json:"source_url"`
	Status          string               `json:"status"`
	PostedAt        mo.Option[time.Time] `json:"posted_at"`
	ScrapedAt       time.Time            `json:"scraped_at"`
}

// NewJobListing returns an open company-page listing with every optional field absent
func NewJobListing(title, company, sourceURL string, scrapedAt time.Time) JobListing {
	return JobListing{
		Title:     title,
		Company:   company,
		Skills:    []string{},
		Source:    SourceCompanyPage,
		SourceURL: sourceURL,
		Status:    JobStatusOpen,
		ScrapedAt: scrapedAt,
	}
}
