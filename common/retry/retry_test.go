package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetrier(cfg Config) (*Retrier, *[]time.Duration) {
	var slept []time.Duration
	r := New(cfg,
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
		WithJitter(func(time.Duration) time.Duration { return 0 }),
	)
	return r, &slept
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	for n := 1; n <= 3; n++ {
		r, slept := newTestRetrier(DefaultConfig())
		calls := 0

		got, err := Do(context.Background(), r, "flaky", func(ctx context.Context) (string, error) {
			calls++
			if calls < n {
				return "", errors.New("temporary")
			}
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", got)
		assert.Equal(t, n, calls)
		assert.Len(t, *slept, n-1)
	}
}

func TestDoReturnsOriginalErrorAfterMaxAttempts(t *testing.T) {
	r, slept := newTestRetrier(DefaultConfig())
	original := errors.New("upstream unavailable")
	calls := 0

	_, err := Do(context.Background(), r, "always-fails", func(ctx context.Context) (int, error) {
		calls++
		return 0, original
	})

	assert.Same(t, original, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestDelayIsCappedAndJittered(t *testing.T) {
	r := New(Config{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 30 * time.Second, MaxJitter: 500 * time.Millisecond},
		WithJitter(func(max time.Duration) time.Duration { return max - time.Millisecond }))

	assert.Equal(t, time.Second+499*time.Millisecond, r.Delay(1))
	assert.Equal(t, 4*time.Second+499*time.Millisecond, r.Delay(3))
	assert.Equal(t, 30*time.Second, r.Delay(6))
	assert.Equal(t, 30*time.Second, r.Delay(70))
}

func TestDelayDoesNotOverflowForLargeAttempts(t *testing.T) {
	r := New(Config{MaxAttempts: 40, BaseDelay: 10 * time.Second, MaxDelay: 30 * time.Second},
		WithJitter(func(time.Duration) time.Duration { return 0 }))

	for attempt := 1; attempt <= 40; attempt++ {
		d := r.Delay(attempt)
		assert.Positivef(t, d, "attempt %d", attempt)
		assert.LessOrEqualf(t, d, 30*time.Second, "attempt %d", attempt)
	}
	assert.Equal(t, 10*time.Second, r.Delay(1))
	assert.Equal(t, 20*time.Second, r.Delay(2))
	assert.Equal(t, 30*time.Second, r.Delay(31))
}

func TestRandomJitterRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		j := randomJitter(500 * time.Millisecond)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, 500*time.Millisecond)
	}
	assert.Zero(t, randomJitter(0))
}

func TestDoStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(DefaultConfig(), WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))
	calls := 0

	_, err := Do(ctx, r, "cancelled", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("temporary")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNewFillsDefaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, 3, r.Config().MaxAttempts)
	assert.Equal(t, time.Second, r.Config().BaseDelay)
	assert.Equal(t, 30*time.Second, r.Config().MaxDelay)
}
