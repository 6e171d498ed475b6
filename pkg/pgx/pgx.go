package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

// Opts holds dependencies for creating a pgx pool.
type Opts struct {
	fx.In
	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// New parses the pool config and ties the pool to the fx lifecycle:
// pinged on start, closed on stop.
func New(opts Opts) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.Config.GetPgxURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	log := opts.Logger.WithComponent("Postgres")
	opts.LC.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := pool.Ping(ctx); err != nil {
					return fmt.Errorf("failed to ping postgres: %w", err)
				}
				log.Info("Connected to postgres",
					"host", opts.Config.Postgres.Host,
					"database", opts.Config.Postgres.Name,
					"max_conns", poolCfg.MaxConns,
				)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				pool.Close()
				log.Info("Postgres pool closed")
				return nil
			},
		},
	)

	return pool, nil
}
