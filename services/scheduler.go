package services

import (
	"context"
	"fmt"
	"time"

	"survivor-league/logging"

	"github.com/go-co-op/gocron/v2"
)

// SchedulerConfig holds the background job settings
type SchedulerConfig struct {
	BackupEnabled       bool
	BackupHour          uint
	BackupMinute        uint
	BackupRetentionDays int
	CurrentSeason       int
}

// Scheduler runs the nightly backup and the weekly lock sweep
type Scheduler struct {
	scheduler gocron.Scheduler
	backups   *BackupService
	badges    *BadgeService
	lock      *LockCalculator
	config    SchedulerConfig
	logger    *logging.Logger
}

// NewScheduler registers jobs on a gocron scheduler in Pacific time. backups
// may be nil when backups are disabled.
func NewScheduler(backups *BackupService, badges *BadgeService, lock *LockCalculator, config SchedulerConfig) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(lock.pacific))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: sched,
		backups:   backups,
		badges:    badges,
		lock:      lock,
		config:    config,
		logger:    logging.WithPrefix("Scheduler"),
	}

	if config.BackupEnabled && backups != nil {
		_, err = sched.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(config.BackupHour, config.BackupMinute, 0))),
			gocron.NewTask(s.runBackup),
			gocron.WithName("nightly-backup"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule backup: %w", err)
		}
	}

	// Runs a minute after the weekly lock so the just-locked week is swept
	_, err = sched.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(LockHourPT, 1, 0))),
		gocron.NewTask(s.runLockSweep),
		gocron.WithName("weekly-lock-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule lock sweep: %w", err)
	}

	return s, nil
}

// Start begins running jobs
func (s *Scheduler) Start() {
	for _, job := range s.scheduler.Jobs() {
		next, _ := job.NextRun()
		s.logger.Infof("Job %s next runs at %s", job.Name(), next.Format(time.RFC3339))
	}
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := s.backups.CreateBackup(ctx); err != nil {
		s.logger.Errorf("Scheduled backup failed: %v", err)
		return
	}
	if err := s.backups.CleanupOldBackups(s.config.BackupRetentionDays); err != nil {
		s.logger.Errorf("Backup cleanup failed: %v", err)
	}
}

func (s *Scheduler) runLockSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	season := s.config.CurrentSeason
	if week := s.lock.WeekAt(season, time.Now()); week > 1 {
		s.logger.Infof("Season %d week %d picks are locked", season, week-1)
	}

	awarded, err := s.badges.SweepSeason(ctx, season)
	if err != nil {
		s.logger.Errorf("Badge sweep for season %d failed: %v", season, err)
		return
	}
	s.logger.Infof("Weekly badge sweep for season %d awarded %d badges", season, awarded)
}
