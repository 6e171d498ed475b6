package analyzer

import (
	"context"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
)

//go:generate go run go.uber.org/mock/mockgen -source=analyzer.go -destination=mocks/mock.go
type Client interface {
	// Analyze ranks the current contents of the store. A zero window uses
	// the configured trend window.
	Analyze(ctx context.Context, window time.Duration) (*analysis.Report, error)
	// RunAndPublish analyzes with the configured window and publishes a
	// non-empty report.
	RunAndPublish(ctx context.Context) error
}
