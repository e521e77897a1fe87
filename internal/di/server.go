package di

import (
	"github.com/aristath/alpha/internal/config"
	financehandlers "github.com/aristath/alpha/internal/modules/finance/handlers"
	portfoliohandlers "github.com/aristath/alpha/internal/modules/portfolio/handlers"
	simulationhandlers "github.com/aristath/alpha/internal/modules/simulation/handlers"
	tradinghandlers "github.com/aristath/alpha/internal/modules/trading/handlers"
	"github.com/aristath/alpha/internal/server"
	"github.com/rs/zerolog"
)

// NewServer builds the HTTP server on top of a wired container. When the
// price refresh job has no schedule the latest-summary endpoint reports
// the refresh as disabled.
func NewServer(container *Container, jobs *JobInstances, cfg *config.Config, log zerolog.Logger) *server.Server {
	var latest portfoliohandlers.LatestSummaryProvider
	if jobs != nil && jobs.PriceRefresh != nil && cfg.RefreshSchedule != "" {
		latest = jobs.PriceRefresh
	}

	system := server.NewSystemHandlers(server.SystemDeps{
		DB:       container.DB,
		Backups:  container.BackupService,
		Remote:   container.RemoteBackups,
		Prober:   container.Prices,
		Exporter: container.Exporter,
	}, log)

	return server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Metrics: container.Metrics,
		System:  system,
		Modules: []server.RouteRegistrar{
			financehandlers.NewHandler(container.FinanceService, log),
			tradinghandlers.NewHandler(container.JournalService, log),
			portfoliohandlers.NewHandler(container.PortfolioService, latest, log),
			simulationhandlers.NewHandler(log),
		},
	})
}
