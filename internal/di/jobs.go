// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/aristath/alpha/internal/config"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the background jobs and registers those with a
// schedule. An empty schedule disables the job on the scheduler but the
// instance is still returned for manual runs.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	sched.SetObserver(container.Metrics)
	container.Scheduler = sched

	instances := &JobInstances{
		PriceRefresh: scheduler.NewPriceRefreshJob(container.PortfolioService, cfg.DefaultExchange, log),
		Backup:       reliability.NewBackupJob(container.BackupService, container.RemoteBackups, cfg.Backup.RetentionDays, log),
		Maintenance:  reliability.NewMaintenanceJob(container.DB, log),
	}

	schedules := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.RefreshSchedule, instances.PriceRefresh},
		{cfg.Backup.Schedule, instances.Backup},
		{cfg.MaintenanceSchedule, instances.Maintenance},
	}

	for _, s := range schedules {
		if s.schedule == "" {
			log.Info().Str("job", s.job.Name()).Msg("Job disabled (no schedule)")
			continue
		}
		if err := sched.AddJob(s.schedule, s.job); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", s.job.Name(), err)
		}
	}

	return instances, nil
}
