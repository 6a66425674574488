package scheduler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mhashir/textrack/internal/config"
	"github.com/mhashir/textrack/internal/ledger"
	"github.com/mhashir/textrack/internal/report"
	"github.com/mhashir/textrack/internal/view"
)

// Scheduler writes a full-ledger PDF snapshot to the configured directory on
// a cron schedule. It is an optional convenience on top of the on-demand
// report endpoint and never mutates the store.
type Scheduler struct {
	cron     *cron.Cron
	store    *ledger.Store
	exporter *report.Exporter
	cfg      config.ReportingConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, store *ledger.Store, exporter *report.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the snapshot job and starts the cron loop. A bad schedule
// expression is logged, not fatal; the rest of the service keeps running.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.writeSnapshot); err != nil {
		s.logger.Error("failed to schedule report snapshot", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) writeSnapshot() {
	s.logger.Info("generating scheduled report snapshot")

	visible := view.Visible(s.store.All(), "")
	pdfBytes, err := s.exporter.Export(visible, s.store.Identity())
	if err != nil {
		s.logger.Error("failed to render report snapshot", zap.Error(err))
		return
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		s.logger.Error("failed to create report output dir", zap.Error(err))
		return
	}

	path := filepath.Join(s.cfg.OutputDir, report.Filename(time.Now()))
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		s.logger.Error("failed to write report snapshot", zap.Error(err))
		return
	}

	s.logger.Info("report snapshot written", zap.String("path", path), zap.Int("records", len(visible)))
}
