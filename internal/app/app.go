package app

import (
	"context"
	"net/http"

	"github.com/orgball2608/meme-trend-bot/internal/analyzer"
	"github.com/orgball2608/meme-trend-bot/internal/analyzer/analyzerimpl"
	"github.com/orgball2608/meme-trend-bot/internal/collector"
	"github.com/orgball2608/meme-trend-bot/internal/collector/collectorimpl"
	"github.com/orgball2608/meme-trend-bot/internal/command"
	"github.com/orgball2608/meme-trend-bot/internal/command/commandimpl"
	"github.com/orgball2608/meme-trend-bot/internal/migrations"
	"github.com/orgball2608/meme-trend-bot/internal/report"
	"github.com/orgball2608/meme-trend-bot/internal/reportcache"
	repositories "github.com/orgball2608/meme-trend-bot/internal/repositories/fx"
	"github.com/orgball2608/meme-trend-bot/internal/scheduler"
	"github.com/orgball2608/meme-trend-bot/internal/telegram"
	"github.com/orgball2608/meme-trend-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/orgball2608/meme-trend-bot/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	repositories.Module,
	reportcache.Module,
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			collectorimpl.New,
			fx.As(new(collector.Client)),
		),
		fx.Annotate(
			report.NewPublisher,
			fx.As(new(report.Publisher)),
		),
		fx.Annotate(
			analyzerimpl.New,
			fx.As(new(analyzer.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		scheduler.New,
		NewHttpServer,
	),
	fx.Invoke(migrate),
	fx.Invoke(startCommands),
	fx.Invoke(func(*scheduler.Scheduler, *http.Server) {}),
)

// migrate applies pending migrations before anything else starts.
func migrate(lc fx.Lifecycle, log logger.Logger, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migrations.Up(ctx, cfg.GetDSN()); err != nil {
				return err
			}
			log.Info("Migrations applied")
			return nil
		},
	})
}
