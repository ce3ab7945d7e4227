package work

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// lockTimeout bounds how long a crashed run can keep its platform locked
	lockTimeout = 2 * time.Hour
)

// ErrRunInProgress is returned when another process holds the platform lock
var ErrRunInProgress = errors.New("a scrape run for this platform is already in progress")

// LockStore is the subset of the redis client the run lock needs
type LockStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	DeleteIfEquals(ctx context.Context, key, value string) (bool, error)
}

// RunLock allows one scrape run per platform across processes.
type RunLock struct {
	store  LockStore
	ttl    time.Duration
	mu     sync.Mutex
	tokens map[string]string
}

// NewRunLock creates a RunLock backed by redis
func NewRunLock(store LockStore) *RunLock {
	return &RunLock{
		store:  store,
		ttl:    lockTimeout,
		tokens: make(map[string]string),
	}
}

func (l *RunLock) getLockKey(name string) string {
	return fmt.Sprintf("%s%s", common.RunLockKeyPrefix, name)
}

// Acquire takes the lock for name or returns ErrRunInProgress
func (l *RunLock) Acquire(ctx context.Context, name string) error {
	key := l.getLockKey(name)
	token := uuid.NewString()

	ok, err := l.store.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return fmt.Errorf("failed to acquire run lock %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunInProgress, name)
	}

	l.mu.Lock()
	l.tokens[name] = token
	l.mu.Unlock()

	log.Debug().Str("lock", key).Msg("Run lock acquired")
	return nil
}

// isHeld reports whether any process currently holds the lock for name
func (l *RunLock) isHeld(ctx context.Context, name string) (bool, error) {
	_, err := l.store.Get(ctx, l.getLockKey(name))
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read run lock %s: %w", name, err)
	}
	return true, nil
}

// Release frees a lock this process acquired. Releasing a lock taken by
// another process is a no-op.
func (l *RunLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	token, ok := l.tokens[name]
	delete(l.tokens, name)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	released, err := l.store.DeleteIfEquals(ctx, l.getLockKey(name), token)
	if err != nil {
		return fmt.Errorf("failed to release run lock %s: %w", name, err)
	}
	if !released {
		log.Warn().Str("lock", l.getLockKey(name)).Msg("Run lock expired before release")
	}
	return nil
}
