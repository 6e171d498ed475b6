package analyzerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
	"github.com/orgball2608/meme-trend-bot/internal/analyzer"
	"github.com/orgball2608/meme-trend-bot/internal/report"
	"github.com/orgball2608/meme-trend-bot/internal/repositories/meme"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	MemeRepo  meme.Repository
	Publisher report.Publisher
	Logger    logger.Logger
	Config    *config.Config
}

type AnalyzerImpl struct {
	MemeRepo  meme.Repository
	Publisher report.Publisher
	Logger    logger.Logger
	Window    time.Duration
	Metrics   []analysis.Metric
	Now       func() time.Time
}

func New(opts Opts) (*AnalyzerImpl, error) {
	metrics, err := analysis.ParseMetrics(opts.Config.Analysis.Metrics)
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYSIS_METRICS: %w", err)
	}

	return &AnalyzerImpl{
		MemeRepo:  opts.MemeRepo,
		Publisher: opts.Publisher,
		Logger:    opts.Logger.WithComponent("Analyzer"),
		Window:    opts.Config.TrendWindow(),
		Metrics:   metrics,
		Now:       time.Now,
	}, nil
}

var _ analyzer.Client = (*AnalyzerImpl)(nil)

func (a *AnalyzerImpl) Analyze(ctx context.Context, window time.Duration) (*analysis.Report, error) {
	if window <= 0 {
		window = a.Window
	}

	memes, err := a.MemeRepo.FetchPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	tags, err := a.MemeRepo.FetchTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	started := time.Now()
	r := analysis.Run(memes, tags, analysis.Options{
		Now:         a.Now(),
		TrendWindow: window,
		Metrics:     a.Metrics,
	})

	if r.Empty() {
		a.Logger.Info("No memes to analyse")
		return r, nil
	}
	if len(r.Rejected) > 0 {
		a.Logger.Warn("Memes without post date dropped", "count", len(r.Rejected), "ids", r.Rejected)
	}

	a.Logger.Info("Analysis completed",
		"total", r.Total,
		"trending", len(r.Trending),
		"tags", len(r.Tags),
		"metrics", r.Metrics,
		"duration", time.Since(started).String(),
	)
	return r, nil
}

func (a *AnalyzerImpl) RunAndPublish(ctx context.Context) error {
	r, err := a.Analyze(ctx, 0)
	if err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}

	if err := a.Publisher.Publish(ctx, r); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}
