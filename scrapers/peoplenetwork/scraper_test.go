package peoplenetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/ratelimit"
	"github.com/LexiconIndonesia/recruiter-scraper/common/retry"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

type fakeSearchAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	perPage  int
	failFor  string
	pageSize []string
}

func (f *fakeSearchAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	company := q.Get("current_company_name")

	f.mu.Lock()
	f.calls[company]++
	call := f.calls[company]
	if q.Get("page_size") != "" {
		f.pageSize = append(f.pageSize, q.Get("page_size"))
	}
	f.mu.Unlock()

	if company == f.failFor {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	results := make([]map[string]any, 0, f.perPage)
	for i := 0; i < f.perPage; i++ {
		id := fmt.Sprintf("%s-%d-%d", company, call, i)
		results = append(results, map[string]any{
			"linkedin_profile_url": "https://www.linkedin.com/in/" + id,
			"profile": map[string]any{
				"full_name":         "Person " + id,
				"occupation":        "Technical Recruiter at " + company,
				"headline":          "Hiring!",
				"city":              "Austin",
				"state":             nil,
				"country_full_name": "United States",
			},
		})
	}

	next := "http://" + r.Host + "/search?current_company_name=" + company + "&page=" + strconv.Itoa(call+1)
	_ = json.NewEncoder(w).Encode(map[string]any{"results": results, "next_page": next})
}

func newTestScraper(t *testing.T, api *fakeSearchAPI, key string) *PeopleNetworkScraper {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	limiter, err := ratelimit.New(6000, ratelimit.WithSleep(noSleep))
	require.NoError(t, err)
	retrier := retry.New(retry.Config{MaxAttempts: 1}, retry.WithSleep(noSleep))
	base := scraper.NewBaseScraper(scraper.DefaultBaseScraperConfig(), limiter, retrier)
	return NewPeopleNetworkScraper(Config{SearchURL: srv.URL + "/search", APIKey: key}, base)
}

func TestScrapeSplitsBudgetAcrossCompanies(t *testing.T) {
	api := &fakeSearchAPI{calls: map[string]int{}, perPage: 1}
	s := newTestScraper(t, api, "key")

	result, err := s.Scrape(context.Background(), scraper.Options{Query: "Acme, Globex", MaxResults: 10})
	require.NoError(t, err)

	assert.Len(t, result.Recruiters, 10)
	assert.LessOrEqual(t, api.calls["Acme"], 5)
	assert.LessOrEqual(t, api.calls["Globex"], 5)
	assert.Equal(t, "5", api.pageSize[0])
}

func TestScrapeCapsPageSizeAndTotal(t *testing.T) {
	api := &fakeSearchAPI{calls: map[string]int{}, perPage: 10}
	s := newTestScraper(t, api, "key")

	result, err := s.Scrape(context.Background(), scraper.Options{Query: "Acme", MaxResults: 25})
	require.NoError(t, err)

	assert.Len(t, result.Recruiters, 25)
	assert.Equal(t, 3, api.calls["Acme"])
	assert.Equal(t, "10", api.pageSize[0])
}

func TestScrapeMapsProfiles(t *testing.T) {
	api := &fakeSearchAPI{calls: map[string]int{}, perPage: 1}
	s := newTestScraper(t, api, "key")

	result, err := s.Scrape(context.Background(), scraper.Options{Query: "Acme", MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, result.Recruiters, 1)

	r := result.Recruiters[0]
	assert.Equal(t, "Person Acme-1-0", r.FullName)
	assert.Equal(t, mo.Some("Technical Recruiter at Acme"), r.Role)
	assert.Equal(t, mo.Some("Acme"), r.Company)
	assert.Equal(t, mo.Some("Austin, United States"), r.Location)
	assert.Equal(t, mo.Some("https://www.linkedin.com/in/Acme-1-0"), r.LinkedInURL)
	assert.Equal(t, []string{"engineering"}, r.JobTypes)
	assert.Equal(t, models.SourceProfessionalNetwork, r.Source)
}

func TestScrapeIsolatesFailedCompany(t *testing.T) {
	api := &fakeSearchAPI{calls: map[string]int{}, perPage: 2, failFor: "Initech"}
	s := newTestScraper(t, api, "key")

	result, err := s.Scrape(context.Background(), scraper.Options{Query: "Initech,Acme", MaxResults: 4})
	require.NoError(t, err)

	assert.Len(t, result.Recruiters, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Initech")
}

func TestScrapeRequiresAPIKey(t *testing.T) {
	api := &fakeSearchAPI{calls: map[string]int{}}
	s := newTestScraper(t, api, "")

	_, err := s.Scrape(context.Background(), scraper.Options{Query: "Acme"})
	assert.ErrorIs(t, err, scraper.ErrMissingCredential)
	assert.Empty(t, api.calls)
}

func TestToRecruiter(t *testing.T) {
	s := NewPeopleNetworkScraper(Config{SearchURL: "https://api.example/search"}, nil)
	headline := "Talent Partner"
	blank := " "

	r, ok := s.toRecruiter(searchResult{Profile: &profile{FirstName: "Ada", LastName: "Lovelace", Occupation: &blank, Headline: &headline}}, "Acme")
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", r.FullName)
	assert.Equal(t, mo.Some("Talent Partner"), r.Role)
	assert.True(t, r.LinkedInURL.IsAbsent())
	assert.True(t, r.Location.IsAbsent())
	assert.Equal(t, "https://api.example/search", r.SourceURL)

	_, ok = s.toRecruiter(searchResult{Profile: &profile{}}, "Acme")
	assert.False(t, ok)
	_, ok = s.toRecruiter(searchResult{}, "Acme")
	assert.False(t, ok)
}
