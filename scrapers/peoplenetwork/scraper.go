package peoplenetwork

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	maxPageSize = 10
	// recruiterRoleFilter narrows the search to talent acquisition roles
	recruiterRoleFilter = "(?i)recruit|talent|sourc"
)

// Config holds the people search endpoint and credential
type Config struct {
	SearchURL string
	APIKey    string
}

// PeopleNetworkScraper finds recruiters of given companies on a professional network
type PeopleNetworkScraper struct {
	config Config
	base   *scraper.BaseScraper
	now    func() time.Time
}

func NewPeopleNetworkScraper(config Config, base *scraper.BaseScraper) *PeopleNetworkScraper {
	return &PeopleNetworkScraper{
		config: config,
		base:   base,
		now:    time.Now,
	}
}

var _ scraper.Scraper = (*PeopleNetworkScraper)(nil)

func (s *PeopleNetworkScraper) Name() string {
	return "People Network"
}

func (s *PeopleNetworkScraper) Platform() models.Platform {
	return models.PlatformPeopleNetwork
}

// Scrape splits the result budget evenly across the comma separated companies
func (s *PeopleNetworkScraper) Scrape(ctx context.Context, opts scraper.Options) (scraper.Result, error) {
	if s.config.APIKey == "" {
		return scraper.Result{}, fmt.Errorf("%w: PEOPLE_SEARCH_API_KEY is not set", scraper.ErrMissingCredential)
	}
	companies := utils.SplitQuery(opts.Query)
	if len(companies) == 0 {
		return scraper.Result{}, scraper.ErrEmptyQuery
	}

	limit := opts.Limit()
	perCompany := (limit + len(companies) - 1) / len(companies)

	var result scraper.Result
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if len(result.Recruiters) >= limit {
			break
		}

		recruiters, err := s.searchCompany(ctx, company, perCompany)
		result.Recruiters = append(result.Recruiters, recruiters...)
		if err != nil {
			log.Warn().Err(err).Str("company", company).Msg("People search failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", company, err))
		}
	}

	result.Recruiters = lo.Slice(result.Recruiters, 0, limit)
	return result, nil
}

// searchCompany pages through the search results of one company. It makes at
// most want calls and returns at most want recruiters.
func (s *PeopleNetworkScraper) searchCompany(ctx context.Context, company string, want int) ([]models.Recruiter, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + s.config.APIKey,
		"Accept":        "application/json",
	}

	var recruiters []models.Recruiter
	next := s.searchURL(company, min(want, maxPageSize))
	for calls := 0; next != "" && calls < want && len(recruiters) < want; calls++ {
		var page searchResponse
		if err := s.base.GetJSON(ctx, next, headers, &page); err != nil {
			return recruiters, err
		}
		if len(page.Results) == 0 {
			break
		}

		for _, r := range page.Results {
			if len(recruiters) >= want {
				break
			}
			recruiter, ok := s.toRecruiter(r, company)
			if !ok {
				log.Warn().Str("company", company).Str("profile", r.LinkedInProfileURL).Msg("Skipping profile without a name")
				continue
			}
			recruiters = append(recruiters, recruiter)
		}

		next = ""
		if page.NextPage != nil {
			next = *page.NextPage
		}
	}

	log.Debug().Str("company", company).Int("recruiters", len(recruiters)).Msg("People search finished")
	return recruiters, nil
}

func (s *PeopleNetworkScraper) searchURL(company string, pageSize int) string {
	params := url.Values{}
	params.Set("current_company_name", company)
	params.Set("current_role_title", recruiterRoleFilter)
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("enrich_profiles", "enrich")
	return s.config.SearchURL + "?" + params.Encode()
}

func (s *PeopleNetworkScraper) toRecruiter(r searchResult, company string) (models.Recruiter, bool) {
	if r.Profile == nil {
		return models.Recruiter{}, false
	}
	p := r.Profile

	name := strings.TrimSpace(p.FullName)
	if name == "" {
		name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	if name == "" {
		return models.Recruiter{}, false
	}

	role := nonEmpty(p.Occupation)
	if role.IsAbsent() {
		role = nonEmpty(p.Headline)
	}

	return models.Recruiter{
		FullName:    name,
		Role:        role,
		Company:     mo.Some(company),
		LinkedInURL: nonEmpty(&r.LinkedInProfileURL),
		Location:    joinLocation(p.City, p.State, p.CountryFullName),
		JobTypes:    utils.InferJobTypes(role.OrEmpty()),
		Source:      models.SourceProfessionalNetwork,
		SourceURL:   lo.Ternary(r.LinkedInProfileURL != "", r.LinkedInProfileURL, s.config.SearchURL),
		ScrapedAt:   s.now(),
	}, true
}

func nonEmpty(s *string) mo.Option[string] {
	if s == nil || strings.TrimSpace(*s) == "" {
		return mo.None[string]()
	}
	return mo.Some(strings.TrimSpace(*s))
}

// joinLocation joins the present location parts with ", "
func joinLocation(parts ...*string) mo.Option[string] {
	present := lo.FilterMap(parts, func(p *string, _ int) (string, bool) {
		v, ok := nonEmpty(p).Get()
		return v, ok
	})
	if len(present) == 0 {
		return mo.None[string]()
	}
	return mo.Some(strings.Join(present, ", "))
}

func (s *PeopleNetworkScraper) Shutdown(ctx context.Context) error {
	return nil
}
