package scraper

import (
	"context"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
)

// DefaultMaxResults caps a run when no maximum is given
const DefaultMaxResults = 50

// Options controls a single scrape call
type Options struct {
	// Query is a comma separated list of URLs, company names or search terms
	Query      string
	MaxResults int
	DryRun     bool
}

// Limit returns MaxResults, or DefaultMaxResults when it is not positive
func (o Options) Limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// Result holds the candidates of one scrape call. Errors lists isolated
// failures the source recovered from.
type Result struct {
	Recruiters []models.Recruiter
	Jobs       []models.JobListing
	Errors     []string
}

// Found returns the number of candidate records
func (r Result) Found() int {
	return len(r.Recruiters) + len(r.Jobs)
}

// Scraper defines the contract every source implements
type Scraper interface {
	// Name returns a human readable name for logs
	Name() string

	// Platform returns the registry tag of the source
	Platform() models.Platform

	// Scrape runs one bounded pass over the query. It returns an error only
	// when the input cannot be processed at all.
	Scrape(ctx context.Context, opts Options) (Result, error)

	// Shutdown releases resources held by the source
	Shutdown(ctx context.Context) error
}
