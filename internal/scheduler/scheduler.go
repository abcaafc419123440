package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/matlens/backend/config"
	"github.com/matlens/backend/internal/infrastructure/catalog"
	"github.com/matlens/backend/internal/usecase"
)

// Scheduler manages recurring background jobs: reloading the supplier
// catalog feed and warming the match statistics cache.
type Scheduler struct {
	cron     *cron.Cron
	catalog  *catalog.Store
	matching *usecase.MatchingService
	cfg      *config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg *config.Config, catalogStore *catalog.Store, matching *usecase.MatchingService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:     c,
		catalog:  catalogStore,
		matching: matching,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the configured jobs and starts the cron loop. Jobs
// with an empty cron expression are skipped.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if expr := s.cfg.Catalog.ReloadCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, s.reloadCatalog); err != nil {
			s.logger.Error("failed to schedule catalog reload", zap.String("cron", expr), zap.Error(err))
		}
	}

	if expr := s.cfg.Matching.StatsWarmupCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, s.warmupStats); err != nil {
			s.logger.Error("failed to schedule stats warmup", zap.String("cron", expr), zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) reloadCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.catalog.Reload(ctx); err != nil {
		s.logger.Error("catalog reload failed", zap.Error(err))
		return
	}
	s.logger.Info("catalog reloaded")
}

func (s *Scheduler) warmupStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stats, err := s.matching.Stats(ctx)
	if err != nil {
		s.logger.Error("stats warmup failed", zap.Error(err))
		return
	}
	s.logger.Info("match stats warmed",
		zap.Int("total", stats.TotalCandidates),
		zap.Int("exact", stats.ExactMatches),
		zap.Int("unmatched", stats.Unmatched))
}
