package models

import (
	"time"

	"github.com/samber/mo"
)

// Recruiter is a candidate recruiter record produced by a source scraper.
// It is persisted once by the orchestrator when it is not a duplicate and never updated afterwards.
type Recruiter struct {
	ID            string            `json:"id"`
	FullName      string            `json:"full_name"`
	Role          mo.Option[string] `json:"role"`
	Company       mo.Option[string] `json:"company"`
	Email         mo.Option[string] `json:"email"`
	LinkedInURL   mo.Option[string] `json:"linkedin_url"`
	TwitterHandle mo.Option[string] `json:"twitter_handle"`
	Location      mo.Option[string] `json:"location"`
	JobTypes      []string          `json:"job_types"`
	Source        RecordSource      `json:"source"`
	SourceURL     string            `json:"source_url"`
	JobListingID  mo.Option[string] `json:"job_listing_id"`
	ScrapedAt     time.Time         `json:"scraped_at"`
}

// HasNameAndCompany reports whether the recruiter carries the name+company dedup key
func (r Recruiter) HasNameAndCompany() bool {
	company, ok := r.Company.Get()
	return ok && company != "" && r.FullName != ""
}
