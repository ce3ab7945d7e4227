package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to RunStatus
		want     bool
	}{
		{RunStatusRunning, RunStatusCompleted, true},
		{RunStatusRunning, RunStatusPartial, true},
		{RunStatusRunning, RunStatusFailed, true},
		{RunStatusCompleted, RunStatusRunning, false},
		{RunStatusPartial, RunStatusCompleted, false},
		{RunStatusFailed, RunStatusPartial, false},
		{RunStatusRunning, RunStatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransitionAllowed(tt.from, tt.to))
		})
	}
}

func TestScrapeRunComplete(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("no errors completes", func(t *testing.T) {
		run := NewScrapeRun("r1", PlatformCareerPage, "https://example.com", false, start)
		run.AddFound(3)
		run.MarkSaved()
		run.MarkSkipped()

		require.NoError(t, run.Complete(start.Add(1500*time.Millisecond)))
		assert.Equal(t, RunStatusCompleted, run.Status)
		assert.Equal(t, int64(1500), run.DurationMs.MustGet())
		assert.Equal(t, 1500*time.Millisecond, run.Duration())
	})

	t.Run("skips do not make a run partial", func(t *testing.T) {
		run := NewScrapeRun("r2", PlatformCareerPage, "q", false, start)
		run.MarkSkipped()
		run.MarkSkipped()

		require.NoError(t, run.Complete(start))
		assert.Equal(t, RunStatusCompleted, run.Status)
	})

	t.Run("isolated errors make a run partial", func(t *testing.T) {
		run := NewScrapeRun("r3", PlatformSocialSearch, "q", false, start)
		run.RecordError("insert failed")

		require.NoError(t, run.Complete(start))
		assert.Equal(t, RunStatusPartial, run.Status)
		assert.Equal(t, []string{"insert failed"}, run.ErrorMessages)
	})

	t.Run("terminal runs cannot move again", func(t *testing.T) {
		run := NewScrapeRun("r4", PlatformPeopleNetwork, "q", false, start)
		require.NoError(t, run.Fail(errors.New("boom"), start))
		assert.Equal(t, RunStatusFailed, run.Status)
		assert.Equal(t, 1, run.TotalErrors)

		err := run.Complete(start)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, RunStatusFailed, run.Status)
	})
}

func TestRecruiterHasNameAndCompany(t *testing.T) {
	r := Recruiter{FullName: "Ada Lovelace"}
	assert.False(t, r.HasNameAndCompany())
}
