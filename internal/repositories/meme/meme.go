package meme

import (
	"context"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"github.com/orgball2608/meme-trend-bot/pkg/errors"
)

var ErrNotFound = errors.Wrap(errors.ErrNotFound, "meme")

// UpsertResult tells whether Upsert created the row or refreshed its counters.
type UpsertResult struct {
	ID       int64
	Inserted bool
}

//go:generate go run go.uber.org/mock/mockgen -source=meme.go -destination=mocks/mock.go
type Repository interface {
	// FetchPosts returns every stored meme with a valid post timestamp.
	FetchPosts(ctx context.Context) ([]domain.Meme, error)

	// FetchTags returns the tags of every meme keyed by meme id.
	FetchTags(ctx context.Context) (map[int64][]string, error)

	// Upsert inserts a meme by image url or refreshes the counters of the
	// existing row. Memes without an image url are refused as invalid input.
	Upsert(ctx context.Context, meme domain.Meme) (UpsertResult, error)

	// AddTags attaches tags to a meme, ignoring ones it already has.
	AddTags(ctx context.Context, memeID int64, tags []string) error

	// GetByID returns one meme with its tags.
	GetByID(ctx context.Context, id int64) (*domain.Meme, error)

	// List returns memes matching the filter, tags included.
	List(ctx context.Context, filter domain.MemeFilter) ([]domain.Meme, error)

	// Platforms returns the distinct source platforms.
	Platforms(ctx context.Context) ([]string, error)

	// DistinctTags returns every tag in use.
	DistinctTags(ctx context.Context) ([]string, error)

	// CleanupOlderThan deletes memes collected before now-olderThan.
	CleanupOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
}
