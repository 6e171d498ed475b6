package analyzerimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	mock_report "github.com/orgball2608/meme-trend-bot/internal/report/mocks"
	mock_meme "github.com/orgball2608/meme-trend-bot/internal/repositories/meme/mocks"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *mock_meme.MockRepository
	publisher *mock_report.MockPublisher
	analyzer  *AnalyzerImpl
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		repo:      mock_meme.NewMockRepository(ctrl),
		publisher: mock_report.NewMockPublisher(ctrl),
	}
	f.analyzer = &AnalyzerImpl{
		MemeRepo:  f.repo,
		Publisher: f.publisher,
		Logger:    logger.NewNop(),
		Window:    7 * 24 * time.Hour,
		Metrics:   analysis.DefaultMetrics,
		Now:       func() time.Time { return now },
	}
	return f
}

func stored() []domain.Meme {
	return []domain.Meme{
		{ID: 1, ImageURL: "a", Platform: domain.PlatformVK, PostedAt: now.Add(-24 * time.Hour), Likes: domain.Int64(100), Views: domain.Int64(1000)},
		{ID: 2, ImageURL: "b", Platform: domain.PlatformVK, PostedAt: now.Add(-10 * 24 * time.Hour), Likes: domain.Int64(300), Views: domain.Int64(600)},
	}
}

func TestAnalyze_UsesConfiguredWindow(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(stored(), nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(map[int64][]string{1: {"мем"}, 2: {"мем", "кот"}}, nil)

	r, err := f.analyzer.Analyze(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, 7*24*time.Hour, r.TrendWindow)
	assert.Equal(t, 2, r.Total)
	require.Len(t, r.Trending, 1)
	assert.Equal(t, int64(1), r.Trending[0].ID())
	assert.Equal(t, []analysis.TagCount{{Tag: "мем", Count: 2}, {Tag: "кот", Count: 1}}, r.Tags)
}

func TestAnalyze_ExplicitWindow(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(stored(), nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(nil, nil)

	r, err := f.analyzer.Analyze(context.Background(), 15*24*time.Hour)

	require.NoError(t, err)
	assert.Len(t, r.Trending, 2)
}

func TestAnalyze_RepositoryErrors(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := f.analyzer.Analyze(context.Background(), 0)
	assert.ErrorContains(t, err, "connection reset")

	f = newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(stored(), nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(nil, errors.New("tags gone"))

	_, err = f.analyzer.Analyze(context.Background(), 0)
	assert.ErrorContains(t, err, "tags gone")
}

func TestRunAndPublish(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(stored(), nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(nil, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *analysis.Report) error {
			assert.Equal(t, 2, r.Total)
			return nil
		})

	require.NoError(t, f.analyzer.RunAndPublish(context.Background()))
}

func TestRunAndPublish_EmptyStoreSkipsPublishing(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return([]domain.Meme{}, nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(map[int64][]string{}, nil)

	require.NoError(t, f.analyzer.RunAndPublish(context.Background()))
}

func TestRunAndPublish_PublishError(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FetchPosts(gomock.Any()).Return(stored(), nil)
	f.repo.EXPECT().FetchTags(gomock.Any()).Return(nil, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	err := f.analyzer.RunAndPublish(context.Background())
	assert.ErrorContains(t, err, "redis down")
}

func TestNew_RejectsUnknownMetric(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analysis.TrendWindowDays = 7
	cfg.Analysis.Metrics = []string{"likes", "shares"}

	_, err := New(Opts{Logger: logger.NewNop(), Config: cfg})
	assert.ErrorContains(t, err, "shares")

	cfg.Analysis.Metrics = []string{"likes", "virality"}
	a, err := New(Opts{Logger: logger.NewNop(), Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []analysis.Metric{analysis.MetricLikes, analysis.MetricVirality}, a.Metrics)
	assert.Equal(t, 7*24*time.Hour, a.Window)
}
