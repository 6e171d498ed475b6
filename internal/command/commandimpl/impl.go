package commandimpl

import (
	"github.com/orgball2608/meme-trend-bot/internal/analyzer"
	"github.com/orgball2608/meme-trend-bot/internal/command"
	"github.com/orgball2608/meme-trend-bot/internal/telegram"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Analyzer analyzer.Client
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Analyzer analyzer.Client
	Logger   logger.Logger
	TopN     int
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Analyzer: opts.Analyzer,
		Logger:   opts.Logger.WithComponent("Command"),
		TopN:     opts.Config.Analysis.TopN,
	}
}

var _ command.Client = (*CommandImpl)(nil)
