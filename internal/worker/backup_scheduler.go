package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/services"
)

// BackupRunner writes a backup for a span of days.
type BackupRunner interface {
	Generate(ctx context.Context, rng core.DateRange) (services.BackupResult, error)
}

// BackupScheduler writes the day's backup on a cron schedule.
type BackupScheduler struct {
	cron   *cron.Cron
	runner BackupRunner
	loc    *time.Location
	now    func() time.Time
	logger *applog.Logger
	ctx    context.Context
}

// NewBackupScheduler parses spec as a standard five-field cron expression
// evaluated in loc.
func NewBackupScheduler(runner BackupRunner, spec string, loc *time.Location, logger *applog.Logger) (*BackupScheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &BackupScheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		runner: runner,
		loc:    loc,
		now:    time.Now,
		logger: logger.WithComponent(applog.ComponentWorker),
		ctx:    context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(s.ctx) }); err != nil {
		return nil, fmt.Errorf("schedule backup %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// backup in progress to finish.
func (s *BackupScheduler) Run(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.logger.InfoContext(ctx, "Backup scheduler started", "next_run", s.Next().Format(time.RFC3339))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Backup scheduler stopped")
}

// Next is the next scheduled run, zero before Run.
func (s *BackupScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce writes the backup for the current day.
func (s *BackupScheduler) RunOnce(ctx context.Context) (services.BackupResult, error) {
	today := core.DateOf(s.now().In(s.loc))
	res, err := s.runner.Generate(ctx, core.SingleDay(today))
	if err != nil {
		s.logger.ErrorContext(ctx, "Scheduled backup failed", applog.FieldError, err)
		return res, err
	}
	s.logger.InfoContext(ctx, "Scheduled backup written", applog.FieldFile, res.Path, applog.FieldCount, res.Summary.Count)
	return res, nil
}
