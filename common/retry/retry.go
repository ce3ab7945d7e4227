package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/ratelimit"
	"github.com/rs/zerolog/log"
)

// Config controls the exponential backoff
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxJitter   time.Duration
}

// DefaultConfig returns 3 attempts, 1s base, 30s ceiling and up to 500ms jitter
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Retrier retries fallible operations with exponential backoff and jitter
type Retrier struct {
	config Config
	sleep  ratelimit.SleepFunc
	jitter func(max time.Duration) time.Duration
}

// Option configures a Retrier
type Option func(*Retrier)

// WithSleep replaces the backoff sleep
func WithSleep(sleep ratelimit.SleepFunc) Option {
	return func(r *Retrier) {
		r.sleep = sleep
	}
}

// WithJitter replaces the jitter source
func WithJitter(jitter func(max time.Duration) time.Duration) Option {
	return func(r *Retrier) {
		r.jitter = jitter
	}
}

// New creates a Retrier, zero config fields fall back to DefaultConfig
func New(config Config, opts ...Option) *Retrier {
	defaults := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = defaults.BaseDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	if config.MaxJitter < 0 {
		config.MaxJitter = 0
	}

	r := &Retrier{
		config: config,
		sleep:  ratelimit.Sleep,
		jitter: randomJitter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective configuration
func (r *Retrier) Config() Config {
	return r.config
}

// Delay returns the backoff before the attempt following the given failed attempt (1-based)
func (r *Retrier) Delay(attempt int) time.Duration {
	backoff := r.config.MaxDelay
	// shifting past MaxDelay would overflow for large attempts
	if shift := attempt - 1; shift >= 0 && shift < 31 && r.config.BaseDelay <= r.config.MaxDelay>>shift {
		backoff = r.config.BaseDelay << shift
	}
	return min(backoff+r.jitter(r.config.MaxJitter), r.config.MaxDelay)
}

// Do runs fn until it succeeds or MaxAttempts is reached. The last error is returned unchanged.
func Do[T any](ctx context.Context, r *Retrier, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.Delay(attempt)
		log.Warn().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt).
			Int("maxAttempts", r.config.MaxAttempts).
			Dur("delay", delay).
			Msg("Attempt failed, retrying")

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			var zero T
			return zero, sleepErr
		}
	}
	return result, err
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}
