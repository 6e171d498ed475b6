package command

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=command.go -destination=mocks/mock.go
type Client interface {
	// HandleCommand answers bot commands until ctx is done or the update
	// channel closes.
	HandleCommand(ctx context.Context) error
}
