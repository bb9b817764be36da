package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/config"
	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/repository/mongodb"
	"github.com/mamadbah2/eventdash/pkg/clients/whatsapp"
)

// Refresher rebuilds the cached dataset.
type Refresher interface {
	Refresh(ctx context.Context) (*etl.Dataset, error)
}

// Summarizer builds the monthly snapshot.
type Summarizer interface {
	MonthlySummary(ctx context.Context, monthsBack int) (models.MonthlyReport, error)
}

// Deps are the collaborators of the scheduled jobs. Notifier and Archive
// are optional.
type Deps struct {
	Refresher  Refresher
	Summarizer Summarizer
	Notifier   whatsapp.Client
	Archive    mongodb.Repository
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	deps      Deps
	cfg       config.ReportingConfig
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.Config, deps Deps, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		deps:      deps,
		cfg:       cfg.Reporting,
		recipient: cfg.WhatsApp.Recipient,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("refresh", s.cfg.RefreshSchedule),
		zap.String("summary", s.cfg.SummarySchedule))

	if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.RefreshDataset); err != nil {
		return fmt.Errorf("schedule dataset refresh: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SummarySchedule, s.SendMonthlySummary); err != nil {
		return fmt.Errorf("schedule monthly summary: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RefreshDataset rebuilds the dataset ahead of the next request.
func (s *Scheduler) RefreshDataset() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.deps.Refresher.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
	}
}

// SendMonthlySummary archives the monthly snapshot and sends its text.
func (s *Scheduler) SendMonthlySummary() {
	s.logger.Info("generating monthly summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.deps.Summarizer.MonthlySummary(ctx, s.cfg.SummaryMonthsBack)
	if err != nil {
		s.logger.Error("failed to generate monthly summary", zap.Error(err))
		return
	}

	if s.deps.Archive != nil {
		if err := s.deps.Archive.SaveMonthlyReport(ctx, report); err != nil {
			s.logger.Error("failed to archive monthly summary", zap.Error(err))
		} else {
			s.logger.Info("monthly summary archived", zap.Int("year", report.Year), zap.Int("month", report.Month))
		}
	}

	if s.deps.Notifier == nil || s.recipient == "" {
		return
	}

	if err := whatsapp.SendLongText(ctx, s.deps.Notifier, s.recipient, report.Summary); err != nil {
		s.logger.Error("failed to send monthly summary", zap.Error(err))
	} else {
		s.logger.Info("monthly summary sent successfully")
	}
}
