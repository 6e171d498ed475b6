package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
		Timezone  string `env:"APP_TIMEZONE" env-default:"Europe/Moscow"`
	}
	Postgres struct {
		Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		User     string `env:"POSTGRES_USER"`
		Pass     string `env:"POSTGRES_PASS"`
		Name     string `env:"POSTGRES_NAME"`
		SslMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	}
	Redis struct {
		Addr      string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password  string        `env:"REDIS_PASSWORD"`
		DB        int           `env:"REDIS_DB" env-default:"0"`
		ReportTTL time.Duration `env:"REDIS_REPORT_TTL" env-default:"24h"`
	}
	Telegram struct {
		Enabled bool   `env:"TELEGRAM_ENABLED" env-default:"false"`
		Token   string `env:"TELEGRAM_TOKEN"`
		Channel int64  `env:"TELEGRAM_CHANNEL"`
	}
	Collector struct {
		Cron             string        `env:"COLLECTOR_CRON" env-default:"0 */6 * * *"`
		VkPublics        []string      `env:"COLLECTOR_VK_PUBLICS" env-separator:"," env-default:"jumoreski,sciencemem,memasy"`
		TelegramChannels []string      `env:"COLLECTOR_TELEGRAM_CHANNELS" env-separator:"," env-default:"dvachannel,russiamemes"`
		Workers          int           `env:"COLLECTOR_WORKERS" env-default:"4"`
		RatePerSecond    float64       `env:"COLLECTOR_RATE_PER_SECOND" env-default:"1"`
		Burst            int           `env:"COLLECTOR_BURST" env-default:"2"`
		CleanupAfter     time.Duration `env:"COLLECTOR_CLEANUP_AFTER" env-default:"2160h"`
	}
	Analysis struct {
		Cron            string   `env:"ANALYSIS_CRON" env-default:"30 */6 * * *"`
		TrendWindowDays int      `env:"ANALYSIS_TREND_WINDOW_DAYS" env-default:"7"`
		TopN            int      `env:"ANALYSIS_TOP_N" env-default:"10"`
		Metrics         []string `env:"ANALYSIS_METRICS" env-separator:"," env-default:"likes,views,virality,recency_score"`
	}
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// New returns the process-wide configuration, reading the environment once.
func New() (*Config, error) {
	once.Do(func() {
		cfg, loadErr = Load()
	})
	return cfg, loadErr
}

// Load reads a fresh Config from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		help, _ := cleanenv.GetDescription(c, nil)
		log.Printf("Failed to read configuration: %v\n%v", err, help)
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if c.Analysis.TrendWindowDays <= 0 {
		return nil, fmt.Errorf("ANALYSIS_TREND_WINDOW_DAYS must be positive, got %d", c.Analysis.TrendWindowDays)
	}
	return c, nil
}

// GetDSN returns the lib/pq connection string used by goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetPgxURL returns the postgres URL used by pgxpool.
func (c *Config) GetPgxURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
		c.Postgres.MaxConns,
	)
}

// TrendWindow converts the configured window in days to a duration.
func (c *Config) TrendWindow() time.Duration {
	return time.Duration(c.Analysis.TrendWindowDays) * 24 * time.Hour
}

// Location resolves App.Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
