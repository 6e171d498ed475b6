package telegramimpl

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/meme-trend-bot/internal/telegram"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"github.com/orgball2608/meme-trend-bot/pkg/retry"
	"go.uber.org/fx"
)

var ErrDisabled = errors.New("telegram delivery is disabled")

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// sender is the part of tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type TelegramImpl struct {
	TgBot   sender
	Logger  logger.Logger
	Channel int64
	Retry   retry.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	log := opts.Logger.WithComponent("Telegram")
	impl := &TelegramImpl{
		Logger:  log,
		Channel: opts.Config.Telegram.Channel,
		Retry:   retry.DefaultConfig(),
	}

	if !opts.Config.Telegram.Enabled {
		log.Info("Telegram delivery disabled")
		return impl, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		log.Error("Error creating bot", "error", err)
		return nil, err
	}
	log.Info("Authorized on account", "username", tgBot.Self.UserName)

	impl.TgBot = tgBot
	return impl, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) Enabled() bool {
	return tg.TgBot != nil
}

// SendMessage sends a MarkdownV2 message to a specific chat ID.
func (tg *TelegramImpl) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	if !tg.Enabled() {
		return 0, ErrDisabled
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	var sent tgbotapi.Message
	err := retry.Do(ctx, tg.Logger, "send message", func() error {
		var err error
		sent, err = tg.TgBot.Send(msg)
		return err
	}, tg.Retry)
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Info("Message sent", "chatID", chatID, "messageID", sent.MessageID)
	return sent.MessageID, nil
}

func (tg *TelegramImpl) SendToChannel(ctx context.Context, text string) error {
	if tg.Channel == 0 {
		return fmt.Errorf("telegram channel is not configured")
	}
	_, err := tg.SendMessage(ctx, tg.Channel, text)
	return err
}

// GetUpdatesChan starts long polling. A disabled client returns a closed
// channel.
func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	if !tg.Enabled() {
		ch := make(chan tgbotapi.Update)
		close(ch)
		return ch
	}
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	if tg.Enabled() {
		tg.TgBot.StopReceivingUpdates()
	}
}
