package socialsearch

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
	minPageSize = 10
	maxPageSize = 100
	hiringTerms = `("hiring" OR "we're hiring" OR "join our team" OR "open role")`
)

// Config holds the recent search endpoint and credential
type Config struct {
	SearchURL   string
	BearerToken string
}

// SocialSearchScraper finds recruiters posting hiring announcements
type SocialSearchScraper struct {
	config Config
	base   *scraper.BaseScraper
	now    func() time.Time
}

func NewSocialSearchScraper(config Config, base *scraper.BaseScraper) *SocialSearchScraper {
	return &SocialSearchScraper{
		config: config,
		base:   base,
		now:    time.Now,
	}
}

var _ scraper.Scraper = (*SocialSearchScraper)(nil)

func (s *SocialSearchScraper) Name() string {
	return "Social Search"
}

func (s *SocialSearchScraper) Platform() models.Platform {
	return models.PlatformSocialSearch
}

// BuildQuery ANDs a term with hiring intent phrases and excludes reposts
func BuildQuery(term string) string {
	term = strings.ReplaceAll(term, `"`, "")
	return fmt.Sprintf(`"%s" %s -is:retweet lang:en`, term, hiringTerms)
}

func (s *SocialSearchScraper) Scrape(ctx context.Context, opts scraper.Options) (scraper.Result, error) {
	if s.config.BearerToken == "" {
		return scraper.Result{}, fmt.Errorf("%w: SOCIAL_SEARCH_BEARER_TOKEN is not set", scraper.ErrMissingCredential)
	}
	terms := utils.SplitQuery(opts.Query)
	if len(terms) == 0 {
		return scraper.Result{}, scraper.ErrEmptyQuery
	}
	limit := opts.Limit()

	seen := make(map[string]struct{})
	var result scraper.Result
	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		remaining := limit - len(result.Recruiters)
		if remaining <= 0 {
			break
		}

		page, err := s.search(ctx, term, remaining)
		if err != nil {
			log.Warn().Err(err).Str("term", term).Msg("Social search failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", term, err))
			continue
		}

		recruiters := s.toRecruiters(page, seen)
		result.Recruiters = append(result.Recruiters, lo.Slice(recruiters, 0, remaining)...)
		log.Debug().Str("term", term).Int("posts", len(page.Data)).Int("recruiters", len(recruiters)).Msg("Social search finished")
	}

	return result, nil
}

func (s *SocialSearchScraper) search(ctx context.Context, term string, want int) (searchResponse, error) {
	params := url.Values{}
	params.Set("query", BuildQuery(term))
	params.Set("max_results", strconv.Itoa(min(max(want, minPageSize), maxPageSize)))
	params.Set("expansions", "author_id")
	params.Set("user.fields", "description,location,name,username")
	params.Set("tweet.fields", "author_id,created_at")

	headers := map[string]string{
		"Authorization": "Bearer " + s.config.BearerToken,
		"Accept":        "application/json",
	}

	var page searchResponse
	err := s.base.GetJSON(ctx, s.config.SearchURL+"?"+params.Encode(), headers, &page)
	return page, err
}

// toRecruiters maps post authors to recruiters in post order, once per handle
func (s *SocialSearchScraper) toRecruiters(page searchResponse, seen map[string]struct{}) []models.Recruiter {
	users := lo.KeyBy(page.Includes.Users, func(u user) string { return u.ID })

	var recruiters []models.Recruiter
	for _, p := range page.Data {
		author, ok := users[p.AuthorID]
		if !ok || author.Username == "" {
			continue
		}
		handle := strings.ToLower(author.Username)
		if _, dup := seen[handle]; dup {
			continue
		}
		seen[handle] = struct{}{}

		recruiters = append(recruiters, models.Recruiter{
			FullName:      lo.Ternary(strings.TrimSpace(author.Name) != "", strings.TrimSpace(author.Name), author.Username),
			Role:          RoleFromBio(author.Description),
			Company:       CompanyFromBio(author.Description),
			TwitterHandle: mo.Some(author.Username),
			Location:      lo.Ternary(strings.TrimSpace(author.Location) != "", mo.Some(strings.TrimSpace(author.Location)), mo.None[string]()),
			JobTypes:      utils.InferJobTypes(author.Description),
			Source:        models.SourceSocialMedia,
			SourceURL:     fmt.Sprintf("https://twitter.com/%s/status/%s", author.Username, p.ID),
			ScrapedAt:     s.now(),
		})
	}
	return recruiters
}

func (s *SocialSearchScraper) Shutdown(ctx context.Context) error {
	return nil
}
