package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DryRunPrefix marks every orchestrator message of a rehearsal run
const DryRunPrefix = "[DRY RUN] "

// DryRunHook implements zerolog.Hook and stamps every event of a dry run
// so a rehearsal cannot be mistaken for a real write.
type DryRunHook struct{}

// Run implements zerolog.Hook.Run
func (h DryRunHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}
	e.Bool("dry_run", true)
}

// InitializeLogging sets up the global zerolog logger from configuration
func InitializeLogging(cfg config.Config) {
	InitializeLoggingTo(os.Stderr, cfg)
}

// InitializeLoggingTo is InitializeLogging with an explicit sink
func InitializeLoggingTo(w io.Writer, cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Log.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if strings.EqualFold(cfg.Log.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// EnableDryRun installs the dry-run hook on the global logger
func EnableDryRun() {
	log.Logger = log.Logger.Hook(DryRunHook{})
}

// Prefix returns the message prefix for a run
func Prefix(dryRun bool) string {
	if dryRun {
		return DryRunPrefix
	}
	return ""
}
