package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	subject string
	data    []byte
}

func (c *capturePublisher) PublishSync(_ context.Context, subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return nil
}

func TestPublishRunFinished(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	run := models.NewScrapeRun("run-1", models.PlatformPeopleNetwork, "Acme,Globex", true, start)
	run.AddFound(7)
	run.MarkSaved()
	run.RecordError("people search for Globex failed")
	require.NoError(t, run.Complete(start.Add(3*time.Second)))

	publisher := &capturePublisher{}
	require.NoError(t, PublishRunFinished(context.Background(), publisher, run))

	assert.Equal(t, "scrape.runs.partial", publisher.subject)

	var event RunFinishedEvent
	require.NoError(t, json.Unmarshal(publisher.data, &event))
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, models.RunStatusPartial, event.Status)
	assert.True(t, event.DryRun)
	assert.Equal(t, 7, event.TotalFound)
	assert.Equal(t, int64(3000), event.DurationMs)
	assert.True(t, event.FinishedAt.Equal(start.Add(3*time.Second)))
}

func TestRunStreamConfigCoversSubjects(t *testing.T) {
	cfg := RunStreamConfig()
	assert.Equal(t, "SCRAPE_RUNS", cfg.Name)
	assert.Equal(t, []string{"scrape.runs.>"}, cfg.Subjects)
}
