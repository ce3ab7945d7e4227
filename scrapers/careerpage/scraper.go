package careerpage

import (
	"context"
	"fmt"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	"github.com/LexiconIndonesia/recruiter-scraper/scrapers/ats"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var pageHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// CareerPageScraper reads job listings from company career pages
type CareerPageScraper struct {
	base *scraper.BaseScraper
	now  func() time.Time
}

// NewCareerPageScraper creates a new CareerPageScraper
func NewCareerPageScraper(base *scraper.BaseScraper) *CareerPageScraper {
	return &CareerPageScraper{
		base: base,
		now:  time.Now,
	}
}

var _ scraper.Scraper = (*CareerPageScraper)(nil)

func (s *CareerPageScraper) Name() string {
	return "Career Page"
}

func (s *CareerPageScraper) Platform() models.Platform {
	return models.PlatformCareerPage
}

// Scrape fetches each comma separated URL in order. A failing URL is recorded
// and the next one is tried.
func (s *CareerPageScraper) Scrape(ctx context.Context, opts scraper.Options) (scraper.Result, error) {
	urls := utils.SplitQuery(opts.Query)
	if len(urls) == 0 {
		return scraper.Result{}, scraper.ErrEmptyQuery
	}
	limit := opts.Limit()

	var result scraper.Result
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if len(result.Jobs) >= limit {
			break
		}

		jobs, err := s.scrapePage(ctx, pageURL, opts.DryRun)
		if err != nil {
			log.Warn().Err(err).Str("url", pageURL).Msg("Failed to scrape career page")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pageURL, err))
			continue
		}

		remaining := limit - len(result.Jobs)
		result.Jobs = append(result.Jobs, lo.Slice(jobs, 0, remaining)...)
	}

	return result, nil
}

func (s *CareerPageScraper) scrapePage(ctx context.Context, pageURL string, dryRun bool) ([]models.JobListing, error) {
	u, err := utils.ParseHTTPURL(pageURL)
	if err != nil {
		return nil, err
	}

	body, err := s.base.Fetch(ctx, u.String(), pageHeaders)
	if err != nil {
		return nil, err
	}
	s.base.Archive(ctx, s.Platform(), u.String(), body, dryRun)

	html := string(body)
	company := CompanyName(u)
	kind := ats.DetectATS(u.String(), html)

	jobs, err := ats.NewParser(kind, s.now).Parse(html, company, u.String())
	if err != nil {
		return nil, err
	}
	jobs = lo.Map(jobs, func(job models.JobListing, _ int) models.JobListing {
		return ats.Classify(job)
	})

	log.Info().
		Str("url", u.String()).
		Str("company", company).
		Str("ats", string(kind)).
		Int("jobs", len(jobs)).
		Msg("Parsed career page")
	return jobs, nil
}

// Shutdown is a no-op, the scraper holds no connections of its own
func (s *CareerPageScraper) Shutdown(ctx context.Context) error {
	return nil
}
