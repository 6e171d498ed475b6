package report

import (
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
)

// Entry is one post as it appears in a published view.
type Entry struct {
	ID           int64     `json:"id"`
	Platform     string    `json:"platform"`
	ImageURL     string    `json:"image_url"`
	SourceURL    string    `json:"source_url,omitempty"`
	PostedAt     time.Time `json:"posted_at"`
	Likes        int64     `json:"likes"`
	Views        int64     `json:"views"`
	Virality     float64   `json:"virality"`
	RecencyScore float64   `json:"recency_score"`
	LikesPerDay  *float64  `json:"likes_per_day,omitempty"`
	ViewsPerDay  *float64  `json:"views_per_day,omitempty"`
	Score        float64   `json:"score"`
	Tags         []string  `json:"tags"`
}

// Snapshot is the JSON form of a report, cut to the top entries of each view.
type Snapshot struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	TrendWindowDays float64             `json:"trend_window_days"`
	Total           int                 `json:"total"`
	Rejected        []int64             `json:"rejected"`
	Metrics         []analysis.Metric   `json:"metrics"`
	TopLiked        []Entry             `json:"top_liked"`
	TopViewed       []Entry             `json:"top_viewed"`
	Trending        []Entry             `json:"trending"`
	Overall         []Entry             `json:"overall"`
	Tags            []analysis.TagCount `json:"tags"`
}

// NewSnapshot copies the first topN entries of every view. topN <= 0 keeps all.
func NewSnapshot(r *analysis.Report, topN int) Snapshot {
	return Snapshot{
		GeneratedAt:     r.GeneratedAt,
		TrendWindowDays: r.TrendWindow.Hours() / 24,
		Total:           r.Total,
		Rejected:        nonNil(r.Rejected),
		Metrics:         nonNil(r.Metrics),
		TopLiked:        entries(top(r.ByLikes, topN)),
		TopViewed:       entries(top(r.ByViews, topN)),
		Trending:        entries(top(r.Trending, topN)),
		Overall:         entries(top(r.Overall, topN)),
		Tags:            nonNil(top(r.Tags, topN)),
	}
}

func entries(posts []analysis.Post) []Entry {
	out := make([]Entry, 0, len(posts))
	for _, p := range posts {
		e := Entry{
			ID:           p.ID(),
			Platform:     p.Meme.Platform,
			ImageURL:     p.Meme.ImageRef(),
			SourceURL:    p.Meme.SourceURL,
			PostedAt:     p.Meme.PostedAt,
			Likes:        p.Likes,
			Views:        p.Views,
			Virality:     p.Virality,
			RecencyScore: p.RecencyScore,
			Score:        p.Score,
			Tags:         nonNil(p.Tags),
		}
		if p.Velocity != nil {
			likes, views := p.Velocity.Likes, p.Velocity.Views
			e.LikesPerDay, e.ViewsPerDay = &likes, &views
		}
		out = append(out, e)
	}
	return out
}

func top[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
