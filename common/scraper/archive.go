package scraper

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/storage"
	"github.com/LexiconIndonesia/recruiter-scraper/common/work"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)

func sanitizeTitleForFileName(title string) string {
	sanitized := nonAlphanumericRegex.ReplaceAllString(title, "_")
	size := math.Min(float64(len(sanitized)), float64(100))
	sanitized = sanitized[:int(size)]
	return strings.ReplaceAll(sanitized, " ", "_")
}

// ArchiveObjectName builds the storage object name of a fetched page
func ArchiveObjectName(platform models.Platform, pageURL string, at time.Time, id string) string {
	name := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		name = u.Host + u.Path
	}
	return fmt.Sprintf("%s/%s/%s/%s_%s.html",
		common.ArchiveObjectPrefix, platform, at.UTC().Format("2006-01-02"), sanitizeTitleForFileName(name), id)
}

const archiveUploadTimeout = time.Minute

// PageArchiver uploads raw pages in the background on a worker pool
type PageArchiver struct {
	store  storage.StorageService
	bucket string
	pool   *work.Pool[string]
	done   chan struct{}
	now    func() time.Time
}

// NewPageArchiver starts workers uploading to bucket. Close must be called to flush the queue.
func NewPageArchiver(ctx context.Context, store storage.StorageService, bucket string, workers int) (*PageArchiver, error) {
	config := work.DefaultPoolConfig()
	if workers > 0 {
		config.NumWorkers = workers
	}
	pool, err := work.NewWorkerPoolWithConfig[string](config)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive pool: %w", err)
	}

	a := &PageArchiver{
		store:  store,
		bucket: bucket,
		pool:   pool,
		done:   make(chan struct{}),
		now:    time.Now,
	}
	pool.Start(ctx, "page-archiver")
	go a.drain()
	return a, nil
}

func (a *PageArchiver) drain() {
	defer close(a.done)
	for result := range a.pool.Results() {
		if !result.IsSuccess() {
			log.Warn().Err(result.Error).Str("taskID", result.TaskID).Msg("Page archive failed")
			continue
		}
		log.Debug().Str("object", result.Result).Dur("duration", result.Duration).Msg("Archived page")
	}
}

// Archive queues one page upload
func (a *PageArchiver) Archive(ctx context.Context, platform models.Platform, pageURL string, body []byte) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	objectName := ArchiveObjectName(platform, pageURL, a.now(), id.String())

	task, err := work.NewTask(func(ctx context.Context) (string, error) {
		return a.store.Upload(ctx, a.bucket, objectName, body, "text/html")
	}, work.WithID[string](id.String()), work.WithTimeout[string](archiveUploadTimeout))
	if err != nil {
		return err
	}
	return a.pool.AddTask(ctx, task)
}

// Stats returns the upload counters
func (a *PageArchiver) Stats() work.PoolStats {
	return a.pool.Stats()
}

// Close waits for queued uploads to finish
func (a *PageArchiver) Close() {
	a.pool.Stop()
	select {
	case <-a.done:
	case <-time.After(work.DefaultPoolConfig().ShutdownTimeout):
	}
}
