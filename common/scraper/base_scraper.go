package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/ratelimit"
	"github.com/LexiconIndonesia/recruiter-scraper/common/retry"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	"github.com/rs/zerolog/log"
)

// maxBodySize bounds how much of a response body is read
const maxBodySize = 10 << 20

// BaseScraperConfig represents the base configuration for a scraper
type BaseScraperConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
}

// DefaultBaseScraperConfig returns the default configuration for a scraper
func DefaultBaseScraperConfig() BaseScraperConfig {
	return BaseScraperConfig{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		RequestTimeout: 30 * time.Second,
	}
}

// BaseScraper is the shared HTTP layer of every source. Each request goes
// through the retrier, and each attempt takes a limiter token.
type BaseScraper struct {
	Config   BaseScraperConfig
	Client   *http.Client
	Limiter  *ratelimit.Limiter
	Retrier  *retry.Retrier
	Archiver *PageArchiver
}

// BaseOption configures a BaseScraper
type BaseOption func(*BaseScraper)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) BaseOption {
	return func(s *BaseScraper) {
		s.Client = client
	}
}

// WithArchiver enables raw page archiving
func WithArchiver(archiver *PageArchiver) BaseOption {
	return func(s *BaseScraper) {
		s.Archiver = archiver
	}
}

// NewBaseScraper creates the shared HTTP layer
func NewBaseScraper(config BaseScraperConfig, limiter *ratelimit.Limiter, retrier *retry.Retrier, opts ...BaseOption) *BaseScraper {
	defaults := DefaultBaseScraperConfig()
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}

	s := &BaseScraper{
		Config:  config,
		Client:  &http.Client{Timeout: config.RequestTimeout},
		Limiter: limiter,
		Retrier: retrier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch GETs url and returns the body of a 2xx response
func (s *BaseScraper) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return retry.Do(ctx, s.Retrier, "GET "+url, func(ctx context.Context) ([]byte, error) {
		return ratelimit.Do(ctx, s.Limiter, func(ctx context.Context) ([]byte, error) {
			return s.get(ctx, url, headers)
		})
	})
}

// GetJSON fetches url and decodes the JSON body into out
func (s *BaseScraper) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := s.Fetch(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// Archive queues a raw page for upload. It does nothing when archiving is
// disabled or the run is a dry run.
func (s *BaseScraper) Archive(ctx context.Context, platform models.Platform, pageURL string, body []byte, dryRun bool) {
	if s.Archiver == nil || dryRun {
		return
	}
	if err := s.Archiver.Archive(ctx, platform, pageURL, body); err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("Failed to queue page archive")
	}
}

func (s *BaseScraper) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if err := utils.CheckStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("Fetched")
	return body, nil
}
