package meme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"github.com/orgball2608/meme-trend-bot/internal/repositories"
	apperrors "github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("MemeRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

var memeColumns = []string{
	"m.id", "m.image_url", "m.local_path", "m.source_url", "m.source_platform",
	"m.post_date", "m.collected_at", "m.likes", "m.views", "m.comments", "m.shares",
	"m.text_content", "m.image_hash",
}

const tagsAggregate = "COALESCE(array_agg(t.tag ORDER BY t.id) FILTER (WHERE t.tag IS NOT NULL), '{}') AS tags"

// memeRow mirrors the nullable columns of the memes table.
type memeRow struct {
	id          int64
	imageURL    *string
	localPath   *string
	sourceURL   *string
	platform    *string
	postDate    *time.Time
	collectedAt *time.Time
	likes       *int64
	views       *int64
	comments    *int64
	shares      *int64
	text        *string
	imageHash   *string
	tags        []string
}

func (r *memeRow) dest(withTags bool) []any {
	d := []any{
		&r.id, &r.imageURL, &r.localPath, &r.sourceURL, &r.platform,
		&r.postDate, &r.collectedAt, &r.likes, &r.views, &r.comments, &r.shares,
		&r.text, &r.imageHash,
	}
	if withTags {
		d = append(d, &r.tags)
	}
	return d
}

func (r *memeRow) toDomain() domain.Meme {
	m := domain.Meme{
		ID:        r.id,
		ImageURL:  deref(r.imageURL),
		LocalPath: deref(r.localPath),
		SourceURL: deref(r.sourceURL),
		Platform:  deref(r.platform),
		Likes:     r.likes,
		Views:     r.views,
		Comments:  r.comments,
		Shares:    r.shares,
		Caption:   deref(r.text),
		ImageHash: deref(r.imageHash),
		Tags:      r.tags,
	}
	if r.postDate != nil {
		m.PostedAt = *r.postDate
	}
	if r.collectedAt != nil {
		m.CollectedAt = *r.collectedAt
	}
	return m
}

// FetchPosts loads the analysis snapshot. Rows without a post date are
// skipped and logged; they cannot be placed on the time axis.
func (p *Pgx) FetchPosts(ctx context.Context) ([]domain.Meme, error) {
	query, args, err := fetchPostsQuery().ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memes: %w", err)
	}
	defer rows.Close()

	memes := make([]domain.Meme, 0)
	var skipped []int64
	for rows.Next() {
		var row memeRow
		if err := rows.Scan(row.dest(false)...); err != nil {
			return nil, fmt.Errorf("failed to scan meme row: %w", err)
		}
		if row.postDate == nil || row.postDate.IsZero() {
			skipped = append(skipped, row.id)
			continue
		}
		memes = append(memes, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meme rows: %w", err)
	}

	if len(skipped) > 0 {
		p.logger.Warn("Skipping memes without post date", "count", len(skipped), "ids", skipped)
	}

	return memes, nil
}

func (p *Pgx) FetchTags(ctx context.Context) (map[int64][]string, error) {
	query, args, err := fetchTagsQuery().ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]string)
	for rows.Next() {
		var memeID int64
		var tag string
		if err := rows.Scan(&memeID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags[memeID] = append(tags[memeID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}

// Upsert keys memes by image url. An existing row only gets fresh counters
// and a new collection time.
func (p *Pgx) Upsert(ctx context.Context, m domain.Meme) (UpsertResult, error) {
	if strings.TrimSpace(m.ImageURL) == "" {
		return UpsertResult{}, apperrors.Invalid(apperrors.CodeMissingImage, "meme %q has no image url to key on", m.LocalPath)
	}

	collectedAt := m.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}

	query, args, err := upsertQuery(m, collectedAt).ToSql()
	if err != nil {
		return UpsertResult{}, repositories.ErrBadQuery
	}

	var res UpsertResult
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&res.ID, &res.Inserted); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to upsert meme: %w", err)
	}

	return res, nil
}

func (p *Pgx) AddTags(ctx context.Context, memeID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	query, args, err := addTagsQuery(memeID, tags).ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add tags to meme %d: %w", memeID, err)
	}
	return nil
}

func (p *Pgx) GetByID(ctx context.Context, id int64) (*domain.Meme, error) {
	query, args, err := getByIDQuery(id).ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var row memeRow
	if err := p.pg.QueryRow(ctx, query, args...).Scan(row.dest(true)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meme by id: %w", err)
	}

	m := row.toDomain()
	return &m, nil
}

func (p *Pgx) List(ctx context.Context, filter domain.MemeFilter) ([]domain.Meme, error) {
	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memes: %w", err)
	}
	defer rows.Close()

	memes := make([]domain.Meme, 0)
	for rows.Next() {
		var row memeRow
		if err := rows.Scan(row.dest(true)...); err != nil {
			return nil, fmt.Errorf("failed to scan meme row: %w", err)
		}
		memes = append(memes, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meme rows: %w", err)
	}

	return memes, nil
}

func (p *Pgx) Platforms(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, platformsQuery())
}

func (p *Pgx) DistinctTags(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, distinctTagsQuery())
}

func (p *Pgx) distinct(ctx context.Context, builder sq.SelectBuilder) ([]string, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// CleanupOlderThan removes memes collected before now-olderThan. Their tags
// go with them through the foreign key cascade.
func (p *Pgx) CleanupOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := cleanupQuery(time.Now().Add(-olderThan)).ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up memes: %w", err)
	}

	return result.RowsAffected(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
