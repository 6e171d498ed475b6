package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	mock_reportcache "github.com/orgball2608/meme-trend-bot/internal/reportcache/mocks"
	mock_telegram "github.com/orgball2608/meme-trend-bot/internal/telegram/mocks"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleReport() *analysis.Report {
	memes := []domain.Meme{
		{ID: 1, ImageURL: "https://example.com/1.jpg", SourceURL: "https://vk.com/memasy", Platform: domain.PlatformVK,
			PostedAt: now.Add(-24 * time.Hour), Likes: domain.Int64(1500), Views: domain.Int64(3000), Caption: "Cat (v2).",
			Tags: []string{"мем", "cats"}},
		{ID: 2, ImageURL: "https://example.com/2.jpg", Platform: domain.PlatformTelegram,
			PostedAt: now.Add(-48 * time.Hour), Likes: domain.Int64(0), Views: domain.Int64(9000),
			Tags: []string{"мем"}},
		{ID: 3, ImageURL: "https://example.com/3.jpg", Platform: domain.PlatformVK,
			PostedAt: now.Add(-30 * 24 * time.Hour), Likes: domain.Int64(10), Views: domain.Int64(20)},
	}
	return analysis.Run(memes, nil, analysis.Options{Now: now, TrendWindow: 7 * 24 * time.Hour})
}

func TestNewSnapshot_TruncatesViews(t *testing.T) {
	r := sampleReport()

	s := NewSnapshot(r, 2)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 7.0, s.TrendWindowDays)
	require.Len(t, s.TopLiked, 2)
	assert.Equal(t, int64(1), s.TopLiked[0].ID)
	assert.Equal(t, int64(2), s.TopViewed[0].ID)
	require.Len(t, s.Trending, 2)
	require.NotNil(t, s.Trending[0].LikesPerDay)
	assert.InDelta(t, 1500.0, *s.Trending[0].LikesPerDay, 1e-9)
	assert.Equal(t, []analysis.TagCount{{Tag: "мем", Count: 2}, {Tag: "cats", Count: 1}}, s.Tags)
	assert.NotNil(t, s.Rejected)
}

func TestNewSnapshot_KeepsAllWhenTopNUnset(t *testing.T) {
	s := NewSnapshot(sampleReport(), 0)

	assert.Len(t, s.TopLiked, 3)
	assert.Len(t, s.Overall, 3)
}

func TestNewSnapshot_EmptyReport(t *testing.T) {
	s := NewSnapshot(analysis.Run(nil, nil, analysis.Options{Now: now}), 5)

	assert.Equal(t, 0, s.Total)
	assert.NotNil(t, s.TopLiked)
	assert.Empty(t, s.TopLiked)
	assert.NotNil(t, s.Tags)
}

func TestDigest(t *testing.T) {
	d := Digest(sampleReport(), 3)

	assert.Contains(t, d, `*Meme report 01\.05\.2024 12:00*`)
	assert.Contains(t, d, "*Top by likes*")
	assert.Contains(t, d, `1\. [Cat \(v2\)\.](https://vk.com/memasy) ❤️ 1,500`)
	assert.Contains(t, d, `[telegram \#2](https://example.com/2.jpg) 👁 9,000`)
	assert.Contains(t, d, `*Trending, last 7 days*`)
	assert.Contains(t, d, `1500\.00 likes/day`)
	assert.Contains(t, d, `score 0\.`)
	assert.Contains(t, d, `\#мем 2`)
}

func TestDigest_Empty(t *testing.T) {
	d := Digest(analysis.Run(nil, nil, analysis.Options{Now: now}), 3)

	assert.Contains(t, d, `No memes to analyse yet\.`)
	assert.NotContains(t, d, "Top by likes")
}

func TestSection(t *testing.T) {
	r := sampleReport()

	trending := Section(r, ViewTrending, 1)
	assert.Equal(t, "*Trending, last 7 days*\n"+`1\. [Cat \(v2\)\.](https://vk.com/memasy) 1500\.00 likes/day`+"\n", trending)

	tags := Section(r, ViewTags, 1)
	assert.Equal(t, "*Popular tags*\n"+`\#мем 2`+"\n", tags)

	empty := analysis.Run(nil, nil, analysis.Options{Now: now})
	for _, v := range Views {
		assert.Empty(t, Section(empty, v, 3))
	}
}

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock_reportcache.NewMockCache(ctrl)
	tg := mock_telegram.NewMockClient(ctrl)
	r := sampleReport()

	cache.EXPECT().Save(gomock.Any(), NewSnapshot(r, 2)).Return(nil)
	tg.EXPECT().Enabled().Return(true)
	tg.EXPECT().SendToChannel(gomock.Any(), Digest(r, 2)).Return(nil)

	p := &PublisherImpl{Cache: cache, Telegram: tg, Logger: logger.NewNop(), TopN: 2}
	require.NoError(t, p.Publish(context.Background(), r))
}

func TestPublish_TelegramDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock_reportcache.NewMockCache(ctrl)
	tg := mock_telegram.NewMockClient(ctrl)

	cache.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	tg.EXPECT().Enabled().Return(false)

	p := &PublisherImpl{Cache: cache, Telegram: tg, Logger: logger.NewNop(), TopN: 2}
	require.NoError(t, p.Publish(context.Background(), sampleReport()))
}

func TestPublish_CacheFailureStillSends(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock_reportcache.NewMockCache(ctrl)
	tg := mock_telegram.NewMockClient(ctrl)

	cache.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	tg.EXPECT().Enabled().Return(true)
	tg.EXPECT().SendToChannel(gomock.Any(), gomock.Any()).Return(nil)

	p := &PublisherImpl{Cache: cache, Telegram: tg, Logger: logger.NewNop(), TopN: 2}
	err := p.Publish(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}
