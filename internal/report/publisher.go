package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
	"github.com/orgball2608/meme-trend-bot/internal/reportcache"
	"github.com/orgball2608/meme-trend-bot/internal/telegram"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock.go
type Publisher interface {
	// Publish caches the snapshot and posts the digest. Both are attempted
	// even when one of them fails.
	Publish(ctx context.Context, r *analysis.Report) error
}

type Opts struct {
	fx.In

	Cache    reportcache.Cache
	Telegram telegram.Client
	Logger   logger.Logger
	Config   *config.Config
}

type PublisherImpl struct {
	Cache    reportcache.Cache
	Telegram telegram.Client
	Logger   logger.Logger
	TopN     int
}

func NewPublisher(opts Opts) *PublisherImpl {
	return &PublisherImpl{
		Cache:    opts.Cache,
		Telegram: opts.Telegram,
		Logger:   opts.Logger.WithComponent("Publisher"),
		TopN:     opts.Config.Analysis.TopN,
	}
}

var _ Publisher = (*PublisherImpl)(nil)

func (p *PublisherImpl) Publish(ctx context.Context, r *analysis.Report) error {
	var errs []error

	if err := p.Cache.Save(ctx, NewSnapshot(r, p.TopN)); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	if p.Telegram.Enabled() {
		if err := p.Telegram.SendToChannel(ctx, Digest(r, p.TopN)); err != nil {
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		}
	} else {
		p.Logger.Debug("Telegram disabled, digest not sent")
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.Logger.Info("Report published", "total", r.Total, "top_n", p.TopN)
	return nil
}
