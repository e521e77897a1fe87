// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/alpha/internal/clients/exchanges"
	"github.com/aristath/alpha/internal/clients/yahoo"
	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/metrics"
	"github.com/aristath/alpha/internal/modules/finance"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/aristath/alpha/internal/modules/trading"
	"github.com/aristath/alpha/internal/pricing"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/reports"
	"github.com/aristath/alpha/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire and is the single source of truth for service instances.
type Container struct {
	// Storage
	DB *database.DB

	// Clients
	YahooClient *yahoo.Client
	Exchanges   *exchanges.Registry
	Prices      *pricing.Adapter

	// Services
	FinanceService   *finance.Service
	JournalService   *trading.JournalService
	PortfolioService *portfolio.Service
	Exporter         *reports.Exporter

	// Reliability (RemoteBackups is nil unless S3 is configured)
	BackupService *reliability.BackupService
	RemoteBackups *reliability.S3BackupService

	Metrics   *metrics.Metrics
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the scheduled jobs so they can be triggered manually
type JobInstances struct {
	PriceRefresh *scheduler.PriceRefreshJob
	Backup       *reliability.BackupJob
	Maintenance  *reliability.MaintenanceJob
}

// Close releases the database
func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
