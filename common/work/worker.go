package work

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidQueueSize   = errors.New("invalid queue size")
	ErrPoolStopped        = errors.New("worker pool has been stopped")
	ErrTaskTimeout        = errors.New("task execution timeout")
)

// TaskResult is the outcome of one executed task
type TaskResult[T any] struct {
	TaskID   string
	Result   T
	Error    error
	Duration time.Duration
}

// IsSuccess returns true if the task completed successfully
func (tr TaskResult[T]) IsSuccess() bool {
	return tr.Error == nil
}

// Executor is a unit of work run by the pool
type Executor[T any] interface {
	ExecutorID() string
	Execute(ctx context.Context) (T, error)
	OnError(error)
	Timeout() time.Duration // 0 means the pool default
}

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	NumWorkers      int
	QueueSize       int
	TaskTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultPoolConfig returns the configuration used for background uploads
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:      2,
		QueueSize:       32,
		TaskTimeout:     time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// PoolStats holds counters about the pool
type PoolStats struct {
	TasksQueued    int64
	TasksCompleted int64
	TasksFailed    int64
}

// Pool runs queued executors on a fixed set of goroutines. Every result is
// delivered on Results, which is closed once Stop has drained the workers.
type Pool[T any] struct {
	config  PoolConfig
	tasks   chan Executor[T]
	results chan TaskResult[T]
	wg      sync.WaitGroup

	queued    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewWorkerPool creates a pool with numWorkers goroutines and a queue of queueSize tasks
func NewWorkerPool[T any](numWorkers int, queueSize int) (*Pool[T], error) {
	config := DefaultPoolConfig()
	config.NumWorkers = numWorkers
	config.QueueSize = queueSize
	return NewWorkerPoolWithConfig[T](config)
}

// NewWorkerPoolWithConfig creates a pool from an explicit configuration
func NewWorkerPoolWithConfig[T any](config PoolConfig) (*Pool[T], error) {
	if config.NumWorkers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if config.QueueSize < 0 {
		return nil, ErrInvalidQueueSize
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = DefaultPoolConfig().TaskTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultPoolConfig().ShutdownTimeout
	}

	return &Pool[T]{
		config:  config,
		tasks:   make(chan Executor[T], config.QueueSize),
		results: make(chan TaskResult[T], config.QueueSize+config.NumWorkers),
	}, nil
}

// Start launches the workers. Starting twice or after Stop does nothing.
func (p *Pool[T]) Start(ctx context.Context, poolID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.config.NumWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, poolID, i)
	}
	log.Debug().
		Str("workerPoolID", poolID).
		Int("numWorkers", p.config.NumWorkers).
		Msg("Worker pool started")
}

// Stop closes the queue and waits for queued tasks to finish, up to ShutdownTimeout
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	started := p.started
	p.mu.Unlock()

	if !started {
		close(p.results)
		return
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(p.results)
	case <-time.After(p.config.ShutdownTimeout):
		// workers still running own the results channel, it is left open
		log.Warn().Dur("timeout", p.config.ShutdownTimeout).Msg("Worker pool shutdown timeout exceeded")
	}
}

// AddTask queues a task, blocking while the queue is full
func (p *Pool[T]) AddTask(ctx context.Context, task Executor[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		p.queued.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the results channel
func (p *Pool[T]) Results() <-chan TaskResult[T] {
	return p.results
}

// Stats returns pool statistics
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		TasksQueued:    p.queued.Load(),
		TasksCompleted: p.completed.Load(),
		TasksFailed:    p.failed.Load(),
	}
}

func (p *Pool[T]) runWorker(ctx context.Context, poolID string, workerID int) {
	defer p.wg.Done()

	for task := range p.tasks {
		result := p.execute(ctx, task)
		if !result.IsSuccess() {
			log.Debug().
				Err(result.Error).
				Str("workerPoolID", poolID).
				Int("workerID", workerID).
				Str("taskID", result.TaskID).
				Msg("Task failed")
		}
		p.results <- result
	}
}

func (p *Pool[T]) execute(ctx context.Context, task Executor[T]) TaskResult[T] {
	timeout := p.config.TaskTimeout
	if t := task.Timeout(); t > 0 {
		timeout = t
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := task.Execute(taskCtx)
	if err != nil && errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
		err = ErrTaskTimeout
	}

	p.completed.Add(1)
	if err != nil {
		p.failed.Add(1)
		task.OnError(err)
	}

	return TaskResult[T]{
		TaskID:   task.ExecutorID(),
		Result:   result,
		Error:    err,
		Duration: time.Since(start),
	}
}
