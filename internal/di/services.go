// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"

	"github.com/aristath/alpha/internal/clients/exchanges"
	"github.com/aristath/alpha/internal/clients/yahoo"
	"github.com/aristath/alpha/internal/config"
	"github.com/aristath/alpha/internal/metrics"
	"github.com/aristath/alpha/internal/modules/finance"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/aristath/alpha/internal/modules/trading"
	"github.com/aristath/alpha/internal/pricing"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/reports"
	"github.com/rs/zerolog"
)

// InitializeServices creates clients, services and the backup layer.
// The container must already hold an open database.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.DB == nil {
		return fmt.Errorf("container has no database")
	}
	conn := container.DB.Conn()

	container.Metrics = metrics.New()

	// Price sources
	container.YahooClient = yahoo.NewClient(cfg.HTTPTimeout, log)
	container.Exchanges = exchanges.NewRegistry(exchanges.Options{Timeout: cfg.HTTPTimeout}, log)
	container.Prices = pricing.NewAdapter(container.YahooClient, container.Exchanges, pricing.Config{
		DefaultExchange: cfg.DefaultExchange,
		DefaultQuote:    cfg.DefaultQuote,
	}, log)
	container.Prices.SetObserver(container.Metrics)

	// Domain services
	container.FinanceService = finance.NewService(
		finance.NewExpenseRepository(conn, log),
		finance.NewSavingsRepository(conn, log),
		log,
	)
	container.JournalService = trading.NewJournalService(trading.NewTradeRepository(conn, log), log)
	container.PortfolioService = portfolio.NewService(
		portfolio.NewPositionRepository(conn, log),
		container.Prices,
		cfg.DefaultExchange,
		log,
	)
	container.Exporter = reports.NewExporter(
		container.FinanceService,
		container.JournalService,
		container.PortfolioService,
		log,
	)

	// Backups
	container.BackupService = reliability.NewBackupService(conn, cfg.Backup.Dir, log)
	if cfg.S3.Enabled() {
		client, err := reliability.NewS3Client(ctx, cfg.S3, log)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		container.RemoteBackups = reliability.NewS3BackupService(client, cfg.S3.Prefix, log)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Remote backups enabled")
	}

	return nil
}
