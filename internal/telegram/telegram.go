package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	// SendMessage sends MarkdownV2 text to chatID and returns the message id.
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	// SendToChannel posts MarkdownV2 text to the configured channel.
	SendToChannel(ctx context.Context, text string) error
	Enabled() bool
}
