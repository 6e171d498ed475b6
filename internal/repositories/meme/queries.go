package meme

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"github.com/orgball2608/meme-trend-bot/internal/repositories"
)

func fetchPostsQuery() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(memeColumns...).
		From("memes m").
		OrderBy("m.id ASC")
}

func fetchTagsQuery() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select("meme_id", "tag").
		From("tags").
		OrderBy("id ASC")
}

func upsertQuery(m domain.Meme, collectedAt time.Time) sq.InsertBuilder {
	return repositories.SqBuilder.
		Insert("memes").
		Columns(
			"image_url", "local_path", "source_url", "source_platform", "post_date", "collected_at",
			"likes", "views", "comments", "shares", "text_content", "image_hash",
		).
		Values(
			m.ImageURL, nullString(m.LocalPath), nullString(m.SourceURL), m.Platform, m.PostedAt, collectedAt,
			m.Likes, m.Views, m.Comments, m.Shares, nullString(m.Caption), nullString(m.ImageHash),
		).
		Suffix(`ON CONFLICT (image_url) DO UPDATE SET
			likes = EXCLUDED.likes,
			views = EXCLUDED.views,
			comments = EXCLUDED.comments,
			shares = EXCLUDED.shares,
			collected_at = EXCLUDED.collected_at
			RETURNING id, (xmax = 0) AS inserted`)
}

func addTagsQuery(memeID int64, tags []string) sq.InsertBuilder {
	builder := repositories.SqBuilder.
		Insert("tags").
		Columns("meme_id", "tag")
	for _, tag := range tags {
		builder = builder.Values(memeID, tag)
	}
	return builder.Suffix("ON CONFLICT (meme_id, tag) DO NOTHING")
}

func selectWithTags() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(append(append([]string{}, memeColumns...), tagsAggregate)...).
		From("memes m").
		LeftJoin("tags t ON t.meme_id = m.id").
		GroupBy("m.id")
}

func getByIDQuery(id int64) sq.SelectBuilder {
	return selectWithTags().Where(sq.Eq{"m.id": id})
}

// listQuery filters by platform and tag and orders by a whitelisted column.
// Missing counters sort last in descending order and first in ascending
// order; ties fall back to id.
func listQuery(filter domain.MemeFilter) sq.SelectBuilder {
	filter = filter.Normalize()

	builder := selectWithTags()
	if filter.Platform != "" {
		builder = builder.Where(sq.Eq{"m.source_platform": filter.Platform})
	}
	if filter.Tag != "" {
		builder = builder.Where("EXISTS (SELECT 1 FROM tags tf WHERE tf.meme_id = m.id AND tf.tag = ?)", filter.Tag)
	}

	direction := "ASC NULLS FIRST"
	if filter.Desc {
		direction = "DESC NULLS LAST"
	}
	column := domain.SortableColumns[filter.SortBy]

	return builder.
		OrderBy(fmt.Sprintf("m.%s %s", column, direction), "m.id ASC").
		Limit(filter.Limit)
}

func platformsQuery() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select("source_platform").
		Distinct().
		From("memes").
		Where("source_platform IS NOT NULL AND source_platform <> ''").
		OrderBy("source_platform")
}

func distinctTagsQuery() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select("tag").
		Distinct().
		From("tags").
		Where("tag <> ''").
		OrderBy("tag")
}

func cleanupQuery(cutoff time.Time) sq.DeleteBuilder {
	return repositories.SqBuilder.
		Delete("memes").
		Where(sq.Lt{"collected_at": cutoff})
}
