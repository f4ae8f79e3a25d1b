package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/config"
	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/service/summary"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	summarySvc *summary.Service
	cfg        config.SummaryConfig
	logger     *zap.Logger
	location   *time.Location
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone. An unknown timezone falls back to local time.
func NewScheduler(cfg config.SummaryConfig, summarySvc *summary.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		summarySvc: summarySvc,
		cfg:        cfg,
		logger:     logger,
		location:   location,
	}
}

// Start registers the nightly rollup job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.snapshotPreviousDay); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// snapshotPreviousDay rolls up the day that just closed. The job runs shortly
// after midnight, so "yesterday" in the configured timezone is the target.
func (s *Scheduler) snapshotPreviousDay() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := time.Now().In(s.location).AddDate(0, 0, -1).Format(models.DateLayout)
	s.logger.Info("generating daily summary", zap.String("date", date))

	if _, err := s.summarySvc.SnapshotDay(ctx, date); err != nil {
		s.logger.Error("failed to generate daily summary", zap.String("date", date), zap.Error(err))
	}
}
