package analysis

import (
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultTrendWindow applies when Options.TrendWindow is not set.
const DefaultTrendWindow = 15 * 24 * time.Hour

type Options struct {
	// Now is captured once by the caller; zero means time.Now().
	Now         time.Time
	TrendWindow time.Duration
	// Metrics to normalize. nil selects DefaultMetrics; a non-nil empty
	// slice normalizes nothing and every composite score is 0.
	Metrics []Metric
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.TrendWindow <= 0 {
		o.TrendWindow = DefaultTrendWindow
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics
	}
	return o
}

// Report is the result of one run. Every view is ready to render as is.
type Report struct {
	GeneratedAt time.Time
	TrendWindow time.Duration
	Total       int
	Rejected    []int64
	Metrics     []Metric

	ByLikes  []Post
	ByViews  []Post
	Trending []Post
	Overall  []Post
	Tags     []TagCount
}

// Empty reports whether the run had no usable posts. All views are empty then.
func (r *Report) Empty() bool {
	return r == nil || r.Total == 0
}

// Run executes the whole pipeline over one immutable snapshot.
func Run(memes []domain.Meme, tags map[int64][]string, opts Options) *Report {
	opts = opts.withDefaults()

	posts, rejected := Clean(memes, tags)
	report := &Report{
		GeneratedAt: opts.Now,
		TrendWindow: opts.TrendWindow,
		Total:       len(posts),
		Rejected:    rejected,
		ByLikes:     []Post{},
		ByViews:     []Post{},
		Trending:    []Post{},
		Overall:     []Post{},
		Tags:        []TagCount{},
	}
	if len(posts) == 0 {
		return report
	}

	Derive(posts, opts.Now, opts.TrendWindow)

	cols := Normalize(Vectors(posts, opts.Metrics), len(posts))
	attachColumns(posts, cols)
	for _, m := range DefaultMetrics {
		if cols.Has(m) {
			report.Metrics = append(report.Metrics, m)
		}
	}

	scores := Composite(cols, len(posts))
	for i := range posts {
		posts[i].Score = scores[i]
	}

	// posts is read-only from here; each view sorts its own copy.
	var g errgroup.Group
	g.Go(func() error {
		report.ByLikes = RankByLikes(posts)
		return nil
	})
	g.Go(func() error {
		report.ByViews = RankByViews(posts)
		return nil
	})
	g.Go(func() error {
		report.Trending = Trending(posts)
		return nil
	})
	g.Go(func() error {
		report.Overall = RankComposite(posts)
		return nil
	})
	g.Go(func() error {
		report.Tags = TagFrequency(posts)
		return nil
	})
	_ = g.Wait()

	return report
}
