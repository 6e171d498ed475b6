package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/meme-trend-bot/internal/report"
	"github.com/orgball2608/meme-trend-bot/pkg/formatter"
)

const (
	maxTopN         = 50
	maxTrendingDays = 365
)

const helpMessage = `Meme trend bot

/top [n] - best memes by overall score
/trending [days] - fastest growing memes of the last days
/tags - most used tags
/report - the full digest
/help - this message`

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly")
				return errors.New("telegram updates channel closed")
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			go func(msg *tgbotapi.Message) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()

				from := ""
				if msg.From != nil {
					from = msg.From.UserName
				}
				c.Logger.Info("Command received", "from", from, "text", msg.Text)

				if err := c.processCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments()); err != nil {
					c.Logger.Error("Error processing command", "command", msg.Command(), "error", err)
				}
			}(update.Message)
		}
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, chatID int64, command, args string) error {
	args = strings.TrimSpace(args)

	switch command {
	case "start", "help":
		return c.reply(ctx, chatID, formatter.EscapeMarkdownV2(helpMessage))
	case "top":
		n, err := parseCount(args, c.TopN, maxTopN)
		if err != nil {
			return c.reply(ctx, chatID, formatter.EscapeMarkdownV2("Usage: /top [n], n between 1 and 50"))
		}
		return c.replyWithView(ctx, chatID, 0, report.ViewOverall, n)
	case "trending":
		days, err := parseCount(args, 0, maxTrendingDays)
		if err != nil {
			return c.reply(ctx, chatID, formatter.EscapeMarkdownV2("Usage: /trending [days], days between 1 and 365"))
		}
		return c.replyWithView(ctx, chatID, time.Duration(days)*24*time.Hour, report.ViewTrending, c.TopN)
	case "tags":
		return c.replyWithView(ctx, chatID, 0, report.ViewTags, c.TopN)
	case "report":
		r, err := c.Analyzer.Analyze(ctx, 0)
		if err != nil {
			return c.analysisFailed(ctx, chatID, err)
		}
		return c.reply(ctx, chatID, report.Digest(r, c.TopN))
	default:
		return c.reply(ctx, chatID, formatter.EscapeMarkdownV2("Unknown command. Type /help to see the list of available commands."))
	}
}

// replyWithView analyzes with window and sends one ranking of the result.
func (c *CommandImpl) replyWithView(ctx context.Context, chatID int64, window time.Duration, view report.View, topN int) error {
	r, err := c.Analyzer.Analyze(ctx, window)
	if err != nil {
		return c.analysisFailed(ctx, chatID, err)
	}

	text := strings.TrimRight(report.Section(r, view, topN), "\n")
	if text == "" {
		text = formatter.EscapeMarkdownV2("No memes to show yet.")
	}
	return c.reply(ctx, chatID, text)
}

func (c *CommandImpl) analysisFailed(ctx context.Context, chatID int64, err error) error {
	if replyErr := c.reply(ctx, chatID, formatter.EscapeMarkdownV2("Analysis failed, try again later.")); replyErr != nil {
		c.Logger.Error("Failed to report analysis error", "error", replyErr)
	}
	return fmt.Errorf("failed to analyze: %w", err)
}

func (c *CommandImpl) reply(ctx context.Context, chatID int64, text string) error {
	_, err := c.Telegram.SendMessage(ctx, chatID, text)
	return err
}

// parseCount reads an optional positive count no larger than limit. An empty
// argument yields def.
func parseCount(arg string, def, limit int) (int, error) {
	if arg == "" {
		return def, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > limit {
		return 0, fmt.Errorf("%d is out of range [1, %d]", n, limit)
	}
	return n, nil
}
