package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jesus-guti/tqr-rpe/internal/config"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the nightly full spreadsheet rebuild. It is disabled by
// default and only active when ENABLE_SCHEDULER is set; per-submission
// incremental sync covers the common case without it.
type Scheduler struct {
	cfg  *config.Config
	sync *sheets.SyncService
	cron *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, sync *sheets.SyncService) *Scheduler {
	return &Scheduler{
		cfg:  cfg,
		sync: sync,
		cron: cron.New(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlySyncCron, func() {
		log.Info().Msg("Running nightly spreadsheet sync...")
		if err := s.runNightlySync(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly spreadsheet sync failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly sync: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlySyncCron).
		Msg("Nightly spreadsheet sync scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	log.Info().Msg("Scheduler stopped")
}

// runNightlySync rebuilds the whole season view so the spreadsheet catches up
// with any edits or entries the incremental path missed
func (s *Scheduler) runNightlySync(ctx context.Context) error {
	start := time.Now()

	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.SheetsSyncTimeout)
	defer cancel()

	result, err := s.sync.SyncAll(syncCtx, s.cfg.GoogleSpreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to rebuild spreadsheet: %w", err)
	}

	log.Info().
		Int("players", result.PlayersSynced).
		Int("entries", result.EntriesSynced).
		Dur("duration", time.Since(start)).
		Msg("Nightly spreadsheet sync complete")

	return nil
}
