package app

import (
	"context"
	"errors"
	"testing"
	"time"

	mock_command "github.com/orgball2608/meme-trend-bot/internal/command/mocks"
	mock_telegram "github.com/orgball2608/meme-trend-bot/internal/telegram/mocks"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestRunCommands_RestartsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	cmd := mock_command.NewMockClient(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		cmd.EXPECT().HandleCommand(gomock.Any()).Return(errors.New("telegram updates channel closed")),
		cmd.EXPECT().HandleCommand(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		}),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runCommands(ctx, cmd, logger.NewNop(), time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("command loop did not stop")
	}
}

func TestStartCommands_StopsWithApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	tg := mock_telegram.NewMockClient(ctrl)
	cmd := mock_command.NewMockClient(ctrl)
	lc := fxtest.NewLifecycle(t)

	started := make(chan struct{})
	tg.EXPECT().Enabled().Return(true)
	cmd.EXPECT().HandleCommand(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	startCommands(lc, tg, cmd, logger.NewNop())
	lc.RequireStart()
	<-started
	lc.RequireStop()
}

func TestStartCommands_SkippedWhenTelegramDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	tg := mock_telegram.NewMockClient(ctrl)
	lc := fxtest.NewLifecycle(t)

	tg.EXPECT().Enabled().Return(false)

	startCommands(lc, tg, mock_command.NewMockClient(ctrl), logger.NewNop())
	lc.RequireStart().RequireStop()
}
