package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	mock_analyzer "github.com/orgball2608/meme-trend-bot/internal/analyzer/mocks"
	"github.com/orgball2608/meme-trend-bot/internal/collector"
	mock_collector "github.com/orgball2608/meme-trend-bot/internal/collector/mocks"
	mock_meme "github.com/orgball2608/meme-trend-bot/internal/repositories/meme/mocks"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	collector *mock_collector.MockClient
	analyzer  *mock_analyzer.MockClient
	repo      *mock_meme.MockRepository
	scheduler *Scheduler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		collector: mock_collector.NewMockClient(ctrl),
		analyzer:  mock_analyzer.NewMockClient(ctrl),
		repo:      mock_meme.NewMockRepository(ctrl),
	}
	f.scheduler = &Scheduler{
		Collector:    f.collector,
		Analyzer:     f.analyzer,
		MemeRepo:     f.repo,
		Logger:       logger.NewNop(),
		CleanupAfter: 90 * 24 * time.Hour,
	}
	return f
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "Europe/Moscow"
	cfg.Collector.Cron = "0 */6 * * *"
	cfg.Collector.CleanupAfter = 90 * 24 * time.Hour
	cfg.Analysis.Cron = "30 */6 * * *"
	return cfg
}

func TestNew_RegistersJobs(t *testing.T) {
	f := newFixture(t)
	lc := fxtest.NewLifecycle(t)

	s, err := New(Opts{
		LC:        lc,
		Collector: f.collector,
		Analyzer:  f.analyzer,
		MemeRepo:  f.repo,
		Logger:    logger.NewNop(),
		Config:    testConfig(),
	})
	require.NoError(t, err)

	names := make([]string, 0, 4)
	for _, j := range s.scheduler.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"collect", "analyze", "cleanup", "initial"}, names)
	assert.Equal(t, 90*24*time.Hour, s.CleanupAfter)
}

func TestNew_InvalidCron(t *testing.T) {
	f := newFixture(t)
	cfg := testConfig()
	cfg.Analysis.Cron = "every now and then"

	_, err := New(Opts{
		LC:        fxtest.NewLifecycle(t),
		Collector: f.collector,
		Analyzer:  f.analyzer,
		MemeRepo:  f.repo,
		Logger:    logger.NewNop(),
		Config:    cfg,
	})
	assert.ErrorContains(t, err, "analyze")
}

func TestCollectAndAnalyze(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.collector.EXPECT().Collect(gomock.Any()).Return(collector.Stats{Inserted: 3}, nil),
		f.analyzer.EXPECT().RunAndPublish(gomock.Any()).Return(nil),
	)

	f.scheduler.CollectAndAnalyze(context.Background())
}

func TestCollectAndAnalyze_AnalyzesAfterFailedCollection(t *testing.T) {
	f := newFixture(t)
	f.collector.EXPECT().Collect(gomock.Any()).Return(collector.Stats{}, errors.New("all sources failed"))
	f.analyzer.EXPECT().RunAndPublish(gomock.Any()).Return(nil)

	f.scheduler.CollectAndAnalyze(context.Background())
}

func TestCollectAndAnalyze_StopsWhenCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.collector.EXPECT().Collect(gomock.Any()).DoAndReturn(func(context.Context) (collector.Stats, error) {
		cancel()
		return collector.Stats{}, context.Canceled
	})

	f.scheduler.CollectAndAnalyze(ctx)
}

func TestCleanup(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().CleanupOlderThan(gomock.Any(), 90*24*time.Hour).DoAndReturn(
		func(ctx context.Context, _ time.Duration) (int64, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return 4, nil
		})

	f.scheduler.Cleanup(context.Background())
}
