package collector

import (
	"context"

	"github.com/orgball2608/meme-trend-bot/internal/domain"
)

// Source yields memes from one public, channel or feed.
type Source interface {
	Platform() string
	Name() string
	Fetch(ctx context.Context) ([]domain.Meme, error)
}

// Stats summarizes one collection run.
type Stats struct {
	Sources  int
	Failed   int
	Fetched  int
	Inserted int
	Updated  int
	Rejected int
	Errors   int
}

//go:generate go run go.uber.org/mock/mockgen -source=collector.go -destination=mocks/mock.go
type Client interface {
	// Collect fetches every source, merges the results into one snapshot and
	// stores it. A failing source does not stop the others.
	Collect(ctx context.Context) (Stats, error)
}
