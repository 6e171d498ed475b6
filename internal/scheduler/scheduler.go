package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/meme-trend-bot/internal/analyzer"
	"github.com/orgball2608/meme-trend-bot/internal/collector"
	"github.com/orgball2608/meme-trend-bot/internal/repositories/meme"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	collectTimeout = 10 * time.Minute
	analyzeTimeout = 5 * time.Minute
	cleanupTimeout = 5 * time.Minute
)

type Opts struct {
	fx.In

	LC        fx.Lifecycle
	Collector collector.Client
	Analyzer  analyzer.Client
	MemeRepo  meme.Repository
	Logger    logger.Logger
	Config    *config.Config
}

type Scheduler struct {
	Collector    collector.Client
	Analyzer     analyzer.Client
	MemeRepo     meme.Repository
	Logger       logger.Logger
	CleanupAfter time.Duration

	scheduler gocron.Scheduler
}

// New registers the collection, analysis and cleanup jobs plus one initial
// collect-then-analyze pass. The jobs start with the fx application.
func New(opts Opts) (*Scheduler, error) {
	log := opts.Logger.WithComponent("Scheduler")

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(opts.Config.Location()))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		Collector:    opts.Collector,
		Analyzer:     opts.Analyzer,
		MemeRepo:     opts.MemeRepo,
		Logger:       log,
		CleanupAfter: opts.Config.Collector.CleanupAfter,
		scheduler:    scheduler,
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := s.register(ctx, opts.Config); err != nil {
		cancel()
		return nil, err
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			log.Info("Scheduler started", "jobs", len(scheduler.Jobs()))
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			log.Info("Stopping scheduler")
			return scheduler.Shutdown()
		},
	})

	return s, nil
}

func (s *Scheduler) register(ctx context.Context, cfg *config.Config) error {
	singleton := gocron.WithSingletonMode(gocron.LimitModeReschedule)

	jobs := []struct {
		name       string
		definition gocron.JobDefinition
		task       func(context.Context)
	}{
		{"collect", gocron.CronJob(cfg.Collector.Cron, false), s.Collect},
		{"analyze", gocron.CronJob(cfg.Analysis.Cron, false), s.Analyze},
		{"cleanup", gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))), s.Cleanup},
		{"initial", gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()), s.CollectAndAnalyze},
	}

	for _, j := range jobs {
		task := j.task
		_, err := s.scheduler.NewJob(
			j.definition,
			gocron.NewTask(func() {
				if ctx.Err() != nil {
					return
				}
				task(ctx)
			}),
			gocron.WithName(j.name),
			singleton,
		)
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", j.name, err)
		}
	}
	return nil
}

func (s *Scheduler) Collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	s.Logger.Info("Starting scheduled collection")
	stats, err := s.Collector.Collect(ctx)
	if err != nil {
		s.Logger.Error("Collection failed", "error", err)
		return
	}
	s.Logger.Info("Scheduled collection finished", "inserted", stats.Inserted, "updated", stats.Updated)
}

func (s *Scheduler) Analyze(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	s.Logger.Info("Starting scheduled analysis")
	if err := s.Analyzer.RunAndPublish(ctx); err != nil {
		s.Logger.Error("Analysis failed", "error", err)
	}
}

// CollectAndAnalyze runs one collection followed by one analysis.
func (s *Scheduler) CollectAndAnalyze(ctx context.Context) {
	s.Collect(ctx)
	if ctx.Err() != nil {
		return
	}
	s.Analyze(ctx)
}

func (s *Scheduler) Cleanup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	s.Logger.Info("Starting scheduled database cleanup", "older_than", s.CleanupAfter.String())
	rowsDeleted, err := s.MemeRepo.CleanupOlderThan(ctx, s.CleanupAfter)
	if err != nil {
		s.Logger.Error("Failed to clean up old memes", "error", err)
		return
	}
	s.Logger.Info("Database cleanup completed", "rows_deleted", rowsDeleted)
}
