// Package analysis ranks a snapshot of collected memes.
//
// A run is synchronous and owns its data: memes are cleaned into Posts,
// derived metrics are attached, the metric vectors are min-max normalized
// across the whole snapshot, and five views are built from the result.
// Nothing is cached between runs.
package analysis

import (
	"fmt"
	"strings"

	"github.com/orgball2608/meme-trend-bot/internal/domain"
)

// Metric names a per-post value that takes part in composite scoring.
type Metric string

const (
	MetricLikes        Metric = "likes"
	MetricViews        Metric = "views"
	MetricVirality     Metric = "virality"
	MetricRecencyScore Metric = "recency_score"
)

// DefaultMetrics is the full set of scored metrics in weight order.
var DefaultMetrics = []Metric{MetricLikes, MetricViews, MetricVirality, MetricRecencyScore}

// Weights of the composite score. They sum to 1.
var Weights = map[Metric]float64{
	MetricLikes:        0.3,
	MetricViews:        0.3,
	MetricVirality:     0.2,
	MetricRecencyScore: 0.2,
}

// ParseMetrics converts configured names into metrics.
func ParseMetrics(names []string) ([]Metric, error) {
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		m := Metric(strings.TrimSpace(name))
		if _, ok := Weights[m]; !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		out = append(out, m)
	}
	return out, nil
}

// Velocity is only set for posts inside the trend window.
type Velocity struct {
	DaysActive float64
	Likes      float64
	Views      float64
}

// Post is a cleaned meme together with everything derived from it in
// the current run.
type Post struct {
	Meme domain.Meme

	Likes    int64
	Views    int64
	Comments int64
	Shares   int64
	Tags     []string

	Virality     float64
	Recency      float64
	RecencyScore float64
	Velocity     *Velocity

	Normalized map[Metric]float64
	Score      float64
}

// ID is the meme id.
func (p *Post) ID() int64 {
	return p.Meme.ID
}

// Value returns the raw value of m for this post.
func (p *Post) Value(m Metric) (float64, bool) {
	switch m {
	case MetricLikes:
		return float64(p.Likes), true
	case MetricViews:
		return float64(p.Views), true
	case MetricVirality:
		return p.Virality, true
	case MetricRecencyScore:
		return p.RecencyScore, true
	}
	return 0, false
}

// Clean turns stored memes into posts. Missing or negative counters become
// zero, tags from the join are merged into the meme's own tags with
// duplicates collapsed. Memes without a post timestamp cannot be placed in
// time; they are dropped and their ids returned.
func Clean(memes []domain.Meme, tags map[int64][]string) (posts []Post, rejected []int64) {
	posts = make([]Post, 0, len(memes))
	for _, m := range memes {
		if m.PostedAt.IsZero() {
			rejected = append(rejected, m.ID)
			continue
		}
		posts = append(posts, Post{
			Meme:     m,
			Likes:    domain.Count(m.Likes),
			Views:    domain.Count(m.Views),
			Comments: domain.Count(m.Comments),
			Shares:   domain.Count(m.Shares),
			Tags:     collapseTags(m.Tags, tags[m.ID]),
		})
	}
	return posts, rejected
}

func collapseTags(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
