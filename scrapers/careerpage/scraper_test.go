package careerpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
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

const greenhouseBoard = `<html><body><div id="grnhse_app">
<section class="level-0"><h3>Engineering</h3>
<div class="opening"><a href="/jobs/1">Senior Backend Engineer</a><span class="location">Remote</span></div>
<div class="opening"><a href="/jobs/2"></a></div>
<div class="opening"><a href="/jobs/3">Platform Engineer</a><span class="location">Berlin</span></div>
</section></div></body></html>`

func noSleep(context.Context, time.Duration) error { return nil }

func newTestScraper(t *testing.T) *CareerPageScraper {
	t.Helper()
	limiter, err := ratelimit.New(600, ratelimit.WithSleep(noSleep))
	require.NoError(t, err)
	retrier := retry.New(retry.Config{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, retry.WithSleep(noSleep))
	s := NewCareerPageScraper(scraper.NewBaseScraper(scraper.DefaultBaseScraperConfig(), limiter, retrier))
	s.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/careers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, greenhouseBoard)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeParsesAndClassifies(t *testing.T) {
	srv := newBoardServer(t)

	result, err := newTestScraper(t).Scrape(context.Background(), scraper.Options{Query: srv.URL + "/careers", MaxResults: 50})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 2)
	assert.Empty(t, result.Errors)

	first := result.Jobs[0]
	assert.Equal(t, "Senior Backend Engineer", first.Title)
	assert.Equal(t, srv.URL+"/jobs/1", first.SourceURL)
	assert.Equal(t, models.SourceCompanyPage, first.Source)
	assert.Equal(t, mo.Some(models.LocationTypeRemote), first.LocationType)
	assert.Equal(t, mo.Some("senior"), first.ExperienceLevel)
}

func TestScrapeIsolatesFailingURLs(t *testing.T) {
	srv := newBoardServer(t)
	query := fmt.Sprintf("not-a-url, %s/broken, %s/careers", srv.URL, srv.URL)

	result, err := newTestScraper(t).Scrape(context.Background(), scraper.Options{Query: query})
	require.NoError(t, err)

	assert.Len(t, result.Jobs, 2)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "not-a-url")
	assert.Contains(t, result.Errors[1], "500")
}

func TestScrapeCapsAtMax(t *testing.T) {
	srv := newBoardServer(t)

	result, err := newTestScraper(t).Scrape(context.Background(), scraper.Options{
		Query:      srv.URL + "/careers," + srv.URL + "/careers?page=2",
		MaxResults: 1,
	})
	require.NoError(t, err)
	assert.Len(t, result.Jobs, 1)
}

func TestScrapeEmptyQuery(t *testing.T) {
	_, err := newTestScraper(t).Scrape(context.Background(), scraper.Options{Query: " , "})
	assert.ErrorIs(t, err, scraper.ErrEmptyQuery)
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://boards.greenhouse.io/acme-robotics", "Acme Robotics"},
		{"https://jobs.lever.co/northwind_traders/", "Northwind Traders"},
		{"https://careers.globex.com/openings", "Globex"},
		{"https://www.initech.co.uk/jobs", "Initech"},
		{"https://jobs.lever.co/", "Lever"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, CompanyName(u))
		})
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, scraper.IsRegistered(models.PlatformCareerPage))

	_, err := scraper.New(models.PlatformCareerPage, scraper.Dependencies{})
	assert.Error(t, err)
}
