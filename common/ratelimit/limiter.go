package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrInvalidRate is returned for a rate that is not a positive finite number
var ErrInvalidRate = errors.New("requests per minute must be a positive finite number")

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Limiter is a token bucket whose burst and refill rate both derive from one
// requests-per-minute ceiling. The bucket starts full.
// A waiting caller holds mu while it sleeps so callers are served one at a time in arrival order.
type Limiter struct {
	mu  sync.Mutex
	lim *rate.Limiter

	now   func() time.Time
	sleep SleepFunc
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithSleep replaces the context-aware sleep
func WithSleep(sleep SleepFunc) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// ValidRate reports whether requestsPerMinute can drive a limiter
func ValidRate(requestsPerMinute float64) bool {
	return !math.IsNaN(requestsPerMinute) && !math.IsInf(requestsPerMinute, 0) && requestsPerMinute > 0
}

// New creates a limiter allowing requestsPerMinute calls per minute on average
// with bursts up to ceil(requestsPerMinute)
func New(requestsPerMinute float64, opts ...Option) (*Limiter, error) {
	if !ValidRate(requestsPerMinute) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, requestsPerMinute)
	}
	l := &Limiter{
		lim:   rate.NewLimiter(rate.Limit(requestsPerMinute/60), int(math.Ceil(requestsPerMinute))),
		now:   time.Now,
		sleep: Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Wait blocks until a token is available and takes it
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	r := l.lim.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("%w: reservation exceeds burst", ErrInvalidRate)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		if err := l.sleep(ctx, delay); err != nil {
			r.CancelAt(l.now())
			return err
		}
	}
	return nil
}

// Tokens returns the currently available tokens
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lim.TokensAt(l.now())
}

// Do runs fn once a token is available
func Do[T any](ctx context.Context, l *Limiter, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := l.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return fn(ctx)
}

// Sleep waits for d unless ctx is done first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
