package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
)

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func loadEnvString(key string, result *string) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s
}

func loadEnvUint(key string, result *uint) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return
	}
	*result = uint(n)
}

func loadEnvFloat(key string, result *float64) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return
	}
	*result = f
}

// loadEnvMillis reads an integer number of milliseconds into a duration
func loadEnvMillis(key string, result *time.Duration) {
	var ms uint
	if _, ok := os.LookupEnv(key); !ok {
		return
	}
	ms = uint(*result / time.Millisecond)
	loadEnvUint(key, &ms)
	*result = time.Duration(ms) * time.Millisecond
}

/* Configuration */

/* PgSQL Configuration */
type pgSqlConfig struct {
	URL      string `json:"-"`
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Database string `json:"database"`
	SslMode  string `json:"ssl_mode"`
	User     string `json:"user"`
	Password string `json:"-"`
	MaxConns uint   `json:"max_conns"`
}

// ConnStr prefers DATABASE_URL and falls back to the discrete POSTGRES_* settings
func (p pgSqlConfig) ConnStr() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.Database, p.SslMode)
}

func defaultPgSql() pgSqlConfig {
	return pgSqlConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "recruiters",
		User:     "",
		Password: "",
		SslMode:  "disable",
		MaxConns: 4,
	}
}

func (p *pgSqlConfig) loadFromEnv() {
	loadEnvString("DATABASE_URL", &p.URL)
	loadEnvString("POSTGRES_HOST", &p.Host)
	loadEnvUint("POSTGRES_PORT", &p.Port)
	loadEnvString("POSTGRES_DB_NAME", &p.Database)
	loadEnvString("POSTGRES_SSLMODE", &p.SslMode)
	loadEnvString("POSTGRES_USERNAME", &p.User)
	loadEnvString("POSTGRES_PASSWORD", &p.Password)
	loadEnvUint("POSTGRES_MAX_CONNS", &p.MaxConns)
}

func (p pgSqlConfig) validate() error {
	if p.URL == "" && p.User == "" {
		return errors.New("DATABASE_URL or POSTGRES_USERNAME must be set")
	}
	return nil
}

/* Scraper Configuration */

type scraperConfig struct {
	RateLimitPerMinute float64
	UserAgent          string
	RequestTimeout     time.Duration
	ArchiveWorkers     uint
}

func defaultScraperConfig() scraperConfig {
	return scraperConfig{
		RateLimitPerMinute: 30,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		RequestTimeout:     30 * time.Second,
		ArchiveWorkers:     2,
	}
}

func (s *scraperConfig) loadFromEnv() {
	loadEnvFloat("RATE_LIMIT_PER_MINUTE", &s.RateLimitPerMinute)
	loadEnvString("SCRAPER_USER_AGENT", &s.UserAgent)
	loadEnvUint("ARCHIVE_WORKERS", &s.ArchiveWorkers)

	timeout := uint(s.RequestTimeout / time.Second)
	loadEnvUint("SCRAPER_REQUEST_TIMEOUT_SECONDS", &timeout)
	s.RequestTimeout = time.Duration(timeout) * time.Second
}

func (s scraperConfig) validate() error {
	if r := s.RateLimitPerMinute; math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be a positive finite number")
	}
	if s.RequestTimeout <= 0 {
		return errors.New("SCRAPER_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

/* Upstream API Configuration */

type peopleSearchConfig struct {
	URL    string
	APIKey string
}

func (p *peopleSearchConfig) loadFromEnv() {
	loadEnvString("PEOPLE_SEARCH_API_URL", &p.URL)
	p.APIKey = getEnv("PEOPLE_SEARCH_API_KEY", "")
}

func defaultPeopleSearchConfig() peopleSearchConfig {
	return peopleSearchConfig{
		URL: "https://nubela.co/proxycurl/api/v2/search/person",
	}
}

type socialSearchConfig struct {
	URL         string
	BearerToken string
}

func (s *socialSearchConfig) loadFromEnv() {
	loadEnvString("SOCIAL_SEARCH_API_URL", &s.URL)
	s.BearerToken = getEnv("SOCIAL_SEARCH_BEARER_TOKEN", "")
}

func defaultSocialSearchConfig() socialSearchConfig {
	return socialSearchConfig{
		URL: "https://api.twitter.com/2/tweets/search/recent",
	}
}

/* Retry Configuration */

type retryConfig struct {
	MaxAttempts uint
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func (r *retryConfig) loadFromEnv() {
	loadEnvUint("RETRY_MAX_ATTEMPTS", &r.MaxAttempts)
	loadEnvMillis("RETRY_BASE_DELAY_MS", &r.BaseDelay)
	loadEnvMillis("RETRY_MAX_DELAY_MS", &r.MaxDelay)
}

func (r retryConfig) validate() error {
	if r.MaxAttempts == 0 {
		return errors.New("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

/* Log Configuration */

type logConfig struct {
	Level  string
	Format string
}

func defaultLogConfig() logConfig {
	return logConfig{
		Level:  "info",
		Format: "console",
	}
}

func (l *logConfig) loadFromEnv() {
	loadEnvString("LOG_LEVEL", &l.Level)
	loadEnvString("LOG_FORMAT", &l.Format)
}

/* Optional infrastructure */

type natsConfig struct {
	Host     string
	Port     uint
	Username string
	Password string
}

func (c *natsConfig) loadFromEnv() {
	loadEnvString("NATS_HOST", &c.Host)
	loadEnvUint("NATS_PORT", &c.Port)
	c.Username = getEnv("NATS_USER", "")
	c.Password = getEnv("NATS_PASSWORD", "")
}

func (c natsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

// Enabled reports whether run events should be published
func (c natsConfig) Enabled() bool {
	return c.Host != ""
}

func defaultNatsConfig() natsConfig {
	return natsConfig{
		Port: 4222,
	}
}

type redisConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

func (r *redisConfig) loadFromEnv() {
	loadEnvString("REDIS_HOST", &r.Host)
	loadEnvUint("REDIS_PORT", &r.Port)
	loadEnvString("REDIS_PASSWORD", &r.Password)

	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

// Enabled reports whether the redis run lock is configured
func (r redisConfig) Enabled() bool {
	return r.Host != ""
}

func (r redisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func defaultRedisConfig() redisConfig {
	return redisConfig{
		Port: 6379,
	}
}

type GCSConfig struct {
	ProjectID       string
	CredentialsFile string
	Bucket          string
}

func (g *GCSConfig) loadFromEnv() {
	g.ProjectID = getEnv("GCS_PROJECT_ID", "")
	g.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", "")
	g.Bucket = getEnv("GCS_STORAGE_BUCKET", "")
}

// Enabled reports whether fetched pages should be archived
func (g GCSConfig) Enabled() bool {
	return g.Bucket != ""
}

type Config struct {
	PgSql        pgSqlConfig
	Scraper      scraperConfig
	PeopleSearch peopleSearchConfig
	SocialSearch socialSearchConfig
	Retry        retryConfig
	Log          logConfig
	Nats         natsConfig
	Redis        redisConfig
	GCS          GCSConfig
}

func (c *Config) LoadFromEnv() {
	c.PgSql.loadFromEnv()
	c.Scraper.loadFromEnv()
	c.PeopleSearch.loadFromEnv()
	c.SocialSearch.loadFromEnv()
	c.Retry.loadFromEnv()
	c.Log.loadFromEnv()
	c.Nats.loadFromEnv()
	c.Redis.loadFromEnv()
	c.GCS.loadFromEnv()
}

// Validate checks the settings every run needs. Upstream credentials are checked
// by the sources that use them, at scrape time.
func (c Config) Validate() error {
	errs := []error{
		c.PgSql.validate(),
		c.Scraper.validate(),
		c.Retry.validate(),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		PgSql:        defaultPgSql(),
		Scraper:      defaultScraperConfig(),
		PeopleSearch: defaultPeopleSearchConfig(),
		SocialSearch: defaultSocialSearchConfig(),
		Retry:        defaultRetryConfig(),
		Log:          defaultLogConfig(),
		Nats:         defaultNatsConfig(),
		Redis:        defaultRedisConfig(),
		GCS:          GCSConfig{},
	}
}
