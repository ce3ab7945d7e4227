package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/LexiconIndonesia/recruiter-scraper/common/config"
	"github.com/LexiconIndonesia/recruiter-scraper/common/db"
	"github.com/LexiconIndonesia/recruiter-scraper/common/logger"
	"github.com/LexiconIndonesia/recruiter-scraper/common/messaging"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/ratelimit"
	"github.com/LexiconIndonesia/recruiter-scraper/common/redis"
	"github.com/LexiconIndonesia/recruiter-scraper/common/retry"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/LexiconIndonesia/recruiter-scraper/common/services"
	"github.com/LexiconIndonesia/recruiter-scraper/common/storage"
	"github.com/LexiconIndonesia/recruiter-scraper/common/work"
	"github.com/LexiconIndonesia/recruiter-scraper/orchestrator"
	_ "github.com/LexiconIndonesia/recruiter-scraper/scrapers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires one scrape run and returns the process exit code
func run(args []string) int {
	opts, code, ok := parseArgs(args, os.Stdout, os.Stderr)
	if !ok {
		return code
	}

	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	logger.InitializeLogging(cfg)
	if opts.DryRun {
		logger.EnableDryRun()
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// INITIATE DATABASE
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to setup database")
		return exitFailure
	}
	releaseStore := sync.OnceFunc(dbConn.Close)
	defer releaseStore()

	orchOpts := []orchestrator.Option{orchestrator.WithRelease(releaseStore)}

	// OPTIONAL INFRASTRUCTURE
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to setup Redis run lock")
			return exitFailure
		}
		defer redisClient.Close()
		orchOpts = append(orchOpts, orchestrator.WithRunLock(work.NewRunLock(redisClient)))
	}

	if cfg.Nats.Enabled() {
		broker, err := messaging.SetupNatsBroker(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, run events will not be published")
		} else {
			defer broker.Close()
			orchOpts = append(orchOpts, orchestrator.WithPublisher(broker))
		}
	}

	baseOpts := []scraper.BaseOption{}
	if cfg.GCS.Enabled() {
		gcsStorage, err := storage.NewGCSStorage(ctx, cfg.GCS)
		if err != nil {
			log.Warn().Err(err).Msg("GCS unavailable, fetched pages will not be archived")
		} else {
			defer gcsStorage.Close()
			archiver, err := scraper.NewPageArchiver(ctx, gcsStorage, cfg.GCS.Bucket, int(cfg.Scraper.ArchiveWorkers))
			if err != nil {
				log.Error().Err(err).Msg("Failed to start page archiver")
				return exitFailure
			}
			defer archiver.Close()
			baseOpts = append(baseOpts, scraper.WithArchiver(archiver))
		}
	}

	// INITIATE SCRAPER
	limiter, err := ratelimit.New(cfg.Scraper.RateLimitPerMinute)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create rate limiter")
		return exitFailure
	}
	retrier := retry.New(retry.Config{
		MaxAttempts: int(cfg.Retry.MaxAttempts),
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
		MaxJitter:   retry.DefaultConfig().MaxJitter,
	})
	base := scraper.NewBaseScraper(scraper.BaseScraperConfig{
		UserAgent:      cfg.Scraper.UserAgent,
		RequestTimeout: cfg.Scraper.RequestTimeout,
	}, limiter, retrier, baseOpts...)

	source, err := scraper.New(models.Platform(opts.Platform), scraper.Dependencies{Config: cfg, Base: base})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create scraper")
		return exitFailure
	}

	orch := orchestrator.New(
		services.NewScrapeRunRepository(dbConn.Pool),
		services.NewRecruiterRepository(dbConn.Pool),
		services.NewJobListingRepository(dbConn.Pool),
		orchOpts...,
	)

	if _, err := orch.Run(ctx, source, opts.scraperOptions()); err != nil {
		log.Error().Err(err).Str("platform", opts.Platform).Msg(logger.Prefix(opts.DryRun) + "Scrape run failed")
		return exitFailure
	}
	return exitOK
}
