package reportcache

import (
	"context"

	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// NewClient opens the redis client and checks it on start.
func NewClient(opts Opts) *redis.Client {
	cfg := opts.Config.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return err
			}
			opts.Logger.Info("Connected to redis", "addr", cfg.Addr, "db", cfg.DB)
			return nil
		},
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})

	return rdb
}

var Module = fx.Module("report_cache",
	fx.Provide(
		NewClient,
		fx.Annotate(
			func(rdb *redis.Client, cfg *config.Config, log logger.Logger) *Redis {
				return NewRedis(rdb, cfg.Redis.ReportTTL, log)
			},
			fx.As(new(Cache)),
		),
	),
)
