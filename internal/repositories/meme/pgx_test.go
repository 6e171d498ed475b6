package meme

import (
	"context"
	"testing"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/domain"
	apperrors "github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_FiltersAndOrdering(t *testing.T) {
	query, args, err := listQuery(domain.MemeFilter{
		Platform: "vk",
		Tag:      "мем",
		SortBy:   "views",
		Limit:    5,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM memes m LEFT JOIN tags t ON t.meme_id = m.id")
	assert.Contains(t, query, "WHERE m.source_platform = $1 AND EXISTS (SELECT 1 FROM tags tf WHERE tf.meme_id = m.id AND tf.tag = $2)")
	assert.Contains(t, query, "GROUP BY m.id ORDER BY m.views ASC NULLS FIRST, m.id ASC LIMIT 5")
	assert.Equal(t, []any{"vk", "мем"}, args)
}

func TestListQuery_Defaults(t *testing.T) {
	query, args, err := listQuery(domain.MemeFilter{SortBy: "likes; DROP TABLE memes"}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "DROP")
	assert.Contains(t, query, "ORDER BY m.likes DESC NULLS LAST, m.id ASC LIMIT 50")
	assert.Empty(t, args)
}

func TestListQuery_ClampsLimit(t *testing.T) {
	query, _, err := listQuery(domain.MemeFilter{SortBy: "likes", Desc: true, Limit: 100000000}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "LIMIT 100")
	assert.NotContains(t, query, "LIMIT 100000000")
}

func TestUpsertQuery(t *testing.T) {
	posted := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	collected := posted.Add(time.Hour)
	m := domain.Meme{
		ImageURL: "https://example.com/vk/memasy/meme0.jpg",
		Platform: domain.PlatformVK,
		PostedAt: posted,
		Likes:    domain.Int64(120),
	}

	query, args, err := upsertQuery(m, collected).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO memes (image_url,local_path,source_url,source_platform,post_date,collected_at,likes,views,comments,shares,text_content,image_hash)")
	assert.Contains(t, query, "ON CONFLICT (image_url) DO UPDATE SET")
	assert.Contains(t, query, "collected_at = EXCLUDED.collected_at")
	assert.Contains(t, query, "RETURNING id, (xmax = 0) AS inserted")
	require.Len(t, args, 12)
	assert.Equal(t, m.ImageURL, args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, domain.PlatformVK, args[3])
	assert.Equal(t, posted, args[4])
	assert.Equal(t, collected, args[5])
	assert.Equal(t, m.Likes, args[6])
	assert.Nil(t, args[7])
}

func TestUpsert_RequiresImageURL(t *testing.T) {
	repo := NewPgx(nil, logger.NewNop())

	_, err := repo.Upsert(context.Background(), domain.Meme{
		LocalPath: "static/memes/vk_memasy_0.jpg",
		Platform:  domain.PlatformVK,
		PostedAt:  time.Now(),
	})

	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, apperrors.CodeMissingImage, apperrors.GetCode(err))
}

func TestAddTagsQuery(t *testing.T) {
	query, args, err := addTagsQuery(7, []string{"мем", "юмор"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO tags (meme_id,tag) VALUES ($1,$2),($3,$4) ON CONFLICT (meme_id, tag) DO NOTHING", query)
	assert.Equal(t, []any{int64(7), "мем", int64(7), "юмор"}, args)
}

func TestGetByIDQuery(t *testing.T) {
	query, args, err := getByIDQuery(42).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE m.id = $1 GROUP BY m.id")
	assert.Equal(t, []any{int64(42)}, args)
}

func TestDistinctQueries(t *testing.T) {
	query, _, err := platformsQuery().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT source_platform FROM memes WHERE source_platform IS NOT NULL AND source_platform <> '' ORDER BY source_platform", query)

	query, _, err = distinctTagsQuery().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT tag FROM tags WHERE tag <> '' ORDER BY tag", query)
}

func TestCleanupQuery(t *testing.T) {
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := cleanupQuery(cutoff).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM memes WHERE collected_at < $1", query)
	assert.Equal(t, []any{cutoff}, args)
}
