package app

import (
	"context"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/command"
	"github.com/orgball2608/meme-trend-bot/internal/telegram"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

const commandRestartDelay = 5 * time.Second

// startCommands answers bot commands for the lifetime of the app when
// Telegram is enabled.
func startCommands(lc fx.Lifecycle, tg telegram.Client, cmd command.Client, log logger.Logger) {
	if !tg.Enabled() {
		return
	}

	log = log.WithComponent("Command")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				runCommands(ctx, cmd, log, commandRestartDelay)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// runCommands restarts the handler after delay whenever it fails, until
// ctx is done.
func runCommands(ctx context.Context, cmd command.Client, log logger.Logger, delay time.Duration) {
	for {
		err := cmd.HandleCommand(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Error("Command handler stopped, restarting", "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
