package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Analysis.TrendWindowDays)
	assert.Equal(t, 7*24*time.Hour, cfg.TrendWindow())
	assert.Equal(t, []string{"likes", "views", "virality", "recency_score"}, cfg.Analysis.Metrics)
	assert.Equal(t, []string{"jumoreski", "sciencemem", "memasy"}, cfg.Collector.VkPublics)
	assert.Equal(t, []string{"dvachannel", "russiamemes"}, cfg.Collector.TelegramChannels)
	assert.Equal(t, 90*24*time.Hour, cfg.Collector.CleanupAfter)
	assert.Equal(t, 24*time.Hour, cfg.Redis.ReportTTL)
	assert.False(t, cfg.Telegram.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "memes")
	t.Setenv("POSTGRES_PASS", "secret")
	t.Setenv("POSTGRES_NAME", "memesdb")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_MAX_CONNS", "4")
	t.Setenv("ANALYSIS_TREND_WINDOW_DAYS", "15")
	t.Setenv("ANALYSIS_METRICS", "likes,views")
	t.Setenv("TELEGRAM_ENABLED", "true")
	t.Setenv("TELEGRAM_CHANNEL", "-1001234")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*24*time.Hour, cfg.TrendWindow())
	assert.Equal(t, []string{"likes", "views"}, cfg.Analysis.Metrics)
	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, int64(-1001234), cfg.Telegram.Channel)
	assert.Equal(t, "postgres://memes:secret@db:5432/memesdb?sslmode=disable&pool_max_conns=4", cfg.GetPgxURL())
	assert.Equal(t, "dbname=memesdb user=memes password=secret host=db port=5432 sslmode=disable", cfg.GetDSN())
}

func TestLoad_RejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("ANALYSIS_TREND_WINDOW_DAYS", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "ANALYSIS_TREND_WINDOW_DAYS")
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	cfg.App.Timezone = "Europe/Moscow"
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())

	cfg.App.Timezone = "Nowhere/Atlantis"
	assert.Equal(t, time.Local, cfg.Location())
}
