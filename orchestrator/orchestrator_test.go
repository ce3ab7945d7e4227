package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/messaging"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/LexiconIndonesia/recruiter-scraper/common/work"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuns struct {
	created []models.ScrapeRun
	updated []models.ScrapeRun
	err     error
}

func (f *fakeRuns) Create(_ context.Context, run models.ScrapeRun) (models.ScrapeRun, error) {
	if f.err != nil {
		return models.ScrapeRun{}, f.err
	}
	f.created = append(f.created, run)
	return run, nil
}

func (f *fakeRuns) Update(_ context.Context, run models.ScrapeRun) error {
	f.updated = append(f.updated, run)
	return nil
}

type fakeRecruiters struct {
	rows      []models.Recruiter
	inserts   int
	lookupErr error
}

func (f *fakeRecruiters) Create(_ context.Context, r models.Recruiter) (models.Recruiter, error) {
	f.inserts++
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeRecruiters) ExistsByLinkedInURL(_ context.Context, url string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	for _, r := range f.rows {
		if r.LinkedInURL.OrEmpty() == url {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecruiters) ExistsByNameAndCompany(_ context.Context, fullName, company string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	for _, r := range f.rows {
		if r.FullName == fullName && r.Company.OrEmpty() == company {
			return true, nil
		}
	}
	return false, nil
}

type fakeJobs struct {
	rows      []models.JobListing
	inserts   int
	insertErr error
}

func (f *fakeJobs) Create(_ context.Context, j models.JobListing) (models.JobListing, error) {
	if f.insertErr != nil {
		return models.JobListing{}, f.insertErr
	}
	f.inserts++
	f.rows = append(f.rows, j)
	return j, nil
}

func (f *fakeJobs) ExistsBySourceURL(_ context.Context, sourceURL string) (bool, error) {
	for _, j := range f.rows {
		if j.SourceURL == sourceURL {
			return true, nil
		}
	}
	return false, nil
}

type fakeScraper struct {
	result   scraper.Result
	err      error
	shutdown int
}

func (f *fakeScraper) Name() string              { return "fake" }
func (f *fakeScraper) Platform() models.Platform { return models.PlatformPeopleNetwork }
func (f *fakeScraper) Scrape(context.Context, scraper.Options) (scraper.Result, error) {
	return f.result, f.err
}
func (f *fakeScraper) Shutdown(context.Context) error {
	f.shutdown++
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) PublishSync(_ context.Context, subject string, _ []byte) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeLock struct {
	mu       sync.Mutex
	held     map[string]bool
	released []string
}

func (f *fakeLock) Acquire(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[name] {
		return work.ErrRunInProgress
	}
	f.held[name] = true
	return nil
}

func (f *fakeLock) Release(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, name)
	f.released = append(f.released, name)
	return nil
}

type fixture struct {
	runs       *fakeRuns
	recruiters *fakeRecruiters
	jobs       *fakeJobs
	publisher  *fakePublisher
	releases   int
	orch       *Orchestrator
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		runs:       &fakeRuns{},
		recruiters: &fakeRecruiters{},
		jobs:       &fakeJobs{},
		publisher:  &fakePublisher{},
	}
	clock := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	opts = append([]Option{
		WithPublisher(f.publisher),
		WithRelease(func() { f.releases++ }),
		WithClock(func() time.Time {
			clock = clock.Add(250 * time.Millisecond)
			return clock
		}),
	}, opts...)
	f.orch = New(f.runs, f.recruiters, f.jobs, opts...)
	return f
}

func recruiter(name, company, profile string) models.Recruiter {
	r := models.Recruiter{FullName: name, Source: models.SourceProfessionalNetwork}
	if company != "" {
		r.Company = mo.Some(company)
	}
	if profile != "" {
		r.LinkedInURL = mo.Some(profile)
	}
	return r
}

func job(url string) models.JobListing {
	return models.NewJobListing("Engineer", "Acme", url, time.Now())
}

func TestRunCompletesAndPersists(t *testing.T) {
	f := newFixture()
	s := &fakeScraper{result: scraper.Result{
		Recruiters: []models.Recruiter{recruiter("Jane Doe", "Acme", "https://www.linkedin.com/in/jane")},
		Jobs:       []models.JobListing{job("https://acme.example/jobs/1")},
	}}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme", MaxResults: 10})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.TotalFound)
	assert.Equal(t, 2, run.TotalSaved)
	assert.Equal(t, 0, run.TotalSkipped)
	assert.True(t, run.CompletedAt.IsPresent())
	assert.Equal(t, mo.Some(int64(250)), run.DurationMs)

	require.Len(t, f.runs.created, 1)
	assert.Equal(t, models.RunStatusRunning, f.runs.created[0].Status)
	require.Len(t, f.runs.updated, 1)
	assert.Equal(t, run, f.runs.updated[0])

	assert.Equal(t, 1, f.recruiters.inserts)
	assert.Equal(t, 1, f.jobs.inserts)
	assert.Equal(t, []string{messaging.RunSubject(models.RunStatusCompleted)}, f.publisher.subjects)
	assert.Equal(t, 1, s.shutdown)
	assert.Equal(t, 1, f.releases)
}

func TestRunDryRunCountsWithoutInserting(t *testing.T) {
	f := newFixture()
	f.recruiters.rows = []models.Recruiter{
		recruiter("Existing One", "Acme", "https://www.linkedin.com/in/one"),
		recruiter("Existing Two", "Globex", ""),
	}

	var candidates []models.Recruiter
	for i := 0; i < 5; i++ {
		candidates = append(candidates, recruiter(fmt.Sprintf("New %d", i), "Acme", fmt.Sprintf("https://www.linkedin.com/in/new-%d", i)))
	}
	candidates = append(candidates,
		recruiter("Someone Else", "Initech", "https://www.linkedin.com/in/one"),
		recruiter("Existing Two", "Globex", ""),
	)
	s := &fakeScraper{result: scraper.Result{Recruiters: candidates}}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 7, run.TotalFound)
	assert.Equal(t, 5, run.TotalSaved)
	assert.Equal(t, 2, run.TotalSkipped)
	assert.Equal(t, 0, f.recruiters.inserts)
	assert.True(t, run.DryRun)
	assert.Len(t, f.runs.updated, 1)
}

func TestRunSkipsSecondJobWithSameSourceURL(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		t.Run(fmt.Sprintf("dry run %v", dryRun), func(t *testing.T) {
			f := newFixture()
			s := &fakeScraper{result: scraper.Result{Jobs: []models.JobListing{
				job("https://acme.example/jobs/1"),
				job("https://acme.example/jobs/1"),
			}}}

			run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "https://acme.example", DryRun: dryRun})
			require.NoError(t, err)

			assert.Equal(t, 1, run.TotalSaved)
			assert.Equal(t, 1, run.TotalSkipped)
			assert.Equal(t, models.RunStatusCompleted, run.Status)
		})
	}
}

func TestRunNeverDedupsRecruiterWithoutKeys(t *testing.T) {
	f := newFixture()
	s := &fakeScraper{result: scraper.Result{Recruiters: []models.Recruiter{
		recruiter("Anon", "", ""),
		recruiter("Anon", "", ""),
	}}}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, run.TotalSaved)
}

func TestRunPartialOnIsolatedErrors(t *testing.T) {
	f := newFixture()
	f.jobs.insertErr = errors.New("constraint violation")
	s := &fakeScraper{result: scraper.Result{
		Jobs:   []models.JobListing{job("https://acme.example/jobs/1")},
		Errors: []string{"https://broken.example: unexpected status 500"},
	}}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusPartial, run.Status)
	assert.Equal(t, 2, run.TotalErrors)
	assert.Equal(t, 0, run.TotalSaved)
	assert.Len(t, run.ErrorMessages, 2)
	assert.Equal(t, []string{messaging.RunSubject(models.RunStatusPartial)}, f.publisher.subjects)
}

func TestRunLookupFailureIsIsolated(t *testing.T) {
	f := newFixture()
	f.recruiters.lookupErr = errors.New("connection reset")
	s := &fakeScraper{result: scraper.Result{
		Recruiters: []models.Recruiter{recruiter("Jane", "Acme", "")},
		Jobs:       []models.JobListing{job("https://acme.example/jobs/9")},
	}}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusPartial, run.Status)
	assert.Equal(t, 1, run.TotalErrors)
	assert.Equal(t, 1, run.TotalSaved)
}

func TestRunFailedScrapeRethrows(t *testing.T) {
	f := newFixture()
	s := &fakeScraper{err: scraper.ErrMissingCredential}

	run, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme"})
	require.ErrorIs(t, err, scraper.ErrMissingCredential)

	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Equal(t, []string{scraper.ErrMissingCredential.Error()}, run.ErrorMessages)
	require.Len(t, f.runs.updated, 1)
	assert.Equal(t, models.RunStatusFailed, f.runs.updated[0].Status)
	assert.Equal(t, 1, s.shutdown)
	assert.Equal(t, 1, f.releases)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func summaries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var found []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var event map[string]any
		require.NoError(t, json.Unmarshal(line, &event))
		if event["message"] == "Scrape run finished" {
			found = append(found, event)
		}
	}
	return found
}

func TestRunLogsSummaryWhenCompleted(t *testing.T) {
	buf := captureLogs(t)
	f := newFixture()

	_, err := f.orch.Run(context.Background(), &fakeScraper{}, scraper.Options{Query: "Acme"})
	require.NoError(t, err)

	events := summaries(t, buf)
	require.Len(t, events, 1)
	assert.Equal(t, "completed", events[0]["status"])
}

func TestRunLogsSummaryWhenCreateFails(t *testing.T) {
	buf := captureLogs(t)
	f := newFixture()
	f.runs.err = errors.New("store down")

	run, err := f.orch.Run(context.Background(), &fakeScraper{}, scraper.Options{Query: "Acme"})
	require.Error(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)

	events := summaries(t, buf)
	require.Len(t, events, 1)
	assert.Equal(t, "failed", events[0]["status"])
	assert.Equal(t, float64(1), events[0]["errors"])
}

func TestRunLogsSummaryWhenLockIsHeld(t *testing.T) {
	buf := captureLogs(t)
	lock := &fakeLock{held: map[string]bool{"people-network": true}}
	f := newFixture(WithRunLock(lock))

	_, err := f.orch.Run(context.Background(), &fakeScraper{}, scraper.Options{Query: "Acme"})
	require.ErrorIs(t, err, work.ErrRunInProgress)

	events := summaries(t, buf)
	require.Len(t, events, 1)
	assert.Equal(t, "failed", events[0]["status"])
	assert.Empty(t, f.runs.created)
	assert.Empty(t, lock.released)
}

func TestRunCreateFailureStillCleansUp(t *testing.T) {
	f := newFixture()
	f.runs.err = errors.New("store down")
	s := &fakeScraper{}

	_, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme"})
	require.Error(t, err)

	assert.Empty(t, f.runs.updated)
	assert.Equal(t, 1, s.shutdown)
	assert.Equal(t, 1, f.releases)
}

func TestRunLock(t *testing.T) {
	lock := &fakeLock{held: map[string]bool{}}
	f := newFixture(WithRunLock(lock))
	s := &fakeScraper{}

	_, err := f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"people-network"}, lock.released)

	lock.held["people-network"] = true
	_, err = f.orch.Run(context.Background(), s, scraper.Options{Query: "Acme"})
	assert.ErrorIs(t, err, work.ErrRunInProgress)
	assert.Len(t, f.runs.created, 1)
	assert.Equal(t, []string{"people-network"}, lock.released)
	assert.Equal(t, 2, s.shutdown)
}

func TestRunCancelledContextFailsTheRun(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	s := &fakeScraper{result: scraper.Result{Jobs: []models.JobListing{job("https://acme.example/jobs/1")}}}
	cancel()

	run, err := f.orch.Run(ctx, s, scraper.Options{Query: "q"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	require.Len(t, f.runs.updated, 1)
}
