package collectorimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/orgball2608/meme-trend-bot/internal/collector"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"github.com/orgball2608/meme-trend-bot/internal/ratelimit"
	"github.com/orgball2608/meme-trend-bot/internal/repositories/meme"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	apperrors "github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/orgball2608/meme-trend-bot/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	MemeRepo meme.Repository
	Logger   logger.Logger
	Config   *config.Config
}

type CollectorImpl struct {
	MemeRepo meme.Repository
	Logger   logger.Logger
	Limiter  ratelimit.Limiter
	Sources  []collector.Source
	Workers  int
	Retry    retry.Config
}

func New(opts Opts) *CollectorImpl {
	cfg := opts.Config.Collector
	return &CollectorImpl{
		MemeRepo: opts.MemeRepo,
		Logger:   opts.Logger.WithComponent("Collector"),
		Limiter:  ratelimit.NewInMemoryLimiter(cfg.RatePerSecond, cfg.Burst),
		Sources:  DefaultSources(cfg.VkPublics, cfg.TelegramChannels),
		Workers:  cfg.Workers,
		Retry:    retry.DefaultConfig(),
	}
}

var _ collector.Client = (*CollectorImpl)(nil)

type fetchResult struct {
	memes []domain.Meme
	err   error
}

func (c *CollectorImpl) Collect(ctx context.Context) (collector.Stats, error) {
	stats := collector.Stats{Sources: len(c.Sources)}
	if len(c.Sources) == 0 {
		c.Logger.Warn("No sources configured, nothing to collect")
		return stats, nil
	}

	results, err := c.fetchAll(ctx)
	if err != nil {
		return stats, err
	}

	var snapshot []domain.Meme
	var errs []error
	for i, res := range results {
		if res.err != nil {
			stats.Failed++
			errs = append(errs, fmt.Errorf("%s/%s: %w", c.Sources[i].Platform(), c.Sources[i].Name(), res.err))
			continue
		}
		snapshot = append(snapshot, res.memes...)
	}
	stats.Fetched = len(snapshot)

	c.Logger.Info("Fetched memes", "sources", stats.Sources, "failed", stats.Failed, "memes", stats.Fetched)

	for _, m := range snapshot {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		c.store(ctx, m, &stats)
	}

	c.Logger.Info("Collection completed",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"rejected", stats.Rejected,
		"errors", stats.Errors,
		"failed_sources", stats.Failed,
	)

	if stats.Failed == stats.Sources {
		return stats, fmt.Errorf("all %d sources failed: %w", stats.Sources, errors.Join(errs...))
	}
	for _, err := range errs {
		c.Logger.Error("Source failed", "error", err)
	}
	return stats, nil
}

// fetchAll runs every source on the worker pool. results[i] belongs to
// Sources[i], so the merged snapshot keeps the configured source order.
func (c *CollectorImpl) fetchAll(ctx context.Context) ([]fetchResult, error) {
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]fetchResult, len(c.Sources))
	var wg sync.WaitGroup

	for i, src := range c.Sources {
		wg.Add(1)
		idx, source := i, src

		err := pool.Submit(func() {
			defer wg.Done()
			results[idx] = c.fetchOne(ctx, source)
		})
		if err != nil {
			wg.Done()
			results[idx] = fetchResult{err: fmt.Errorf("failed to submit job: %w", err)}
		}
	}

	wg.Wait()
	return results, nil
}

func (c *CollectorImpl) fetchOne(ctx context.Context, source collector.Source) fetchResult {
	name := source.Platform() + "/" + source.Name()

	if err := c.Limiter.Wait(ctx, source.Platform()); err != nil {
		return fetchResult{err: fmt.Errorf("rate limiter: %w", err)}
	}

	var memes []domain.Meme
	op := func() error {
		var err error
		memes, err = source.Fetch(ctx)
		return err
	}
	if err := retry.Do(ctx, c.Logger, "fetch "+name, op, c.Retry); err != nil {
		return fetchResult{err: err}
	}

	c.Logger.Debug("Source fetched", "source", name, "count", len(memes))
	return fetchResult{memes: memes}
}

func (c *CollectorImpl) store(ctx context.Context, m domain.Meme, stats *collector.Stats) {
	if err := m.Validate(); err != nil {
		stats.Rejected++
		c.Logger.Warn("Rejecting meme", "image_url", m.ImageURL, "source", m.SourceURL, "error", err)
		return
	}

	res, err := c.MemeRepo.Upsert(ctx, m)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			stats.Rejected++
			c.Logger.Warn("Rejecting meme", "local_path", m.LocalPath, "source", m.SourceURL, "error", err)
			return
		}
		stats.Errors++
		c.Logger.Error("Failed to save meme", "image_url", m.ImageURL, "error", err)
		return
	}

	if !res.Inserted {
		stats.Updated++
		return
	}
	stats.Inserted++

	if err := c.MemeRepo.AddTags(ctx, res.ID, domain.NormalizeTags(m.Tags)); err != nil {
		c.Logger.Error("Failed to save meme tags", "meme_id", res.ID, "error", err)
	}
}
