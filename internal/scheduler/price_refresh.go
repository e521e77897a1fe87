package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/aristath/alpha/internal/utils"
	"github.com/rs/zerolog"
)

// SummaryGenerator produces a positions summary valued at live prices
type SummaryGenerator interface {
	Summary(ctx context.Context, exchange string) (*portfolio.Summary, error)
}

// PriceRefreshJob recomputes the positions summary and keeps the latest
// result in memory. Overlapping runs are skipped.
type PriceRefreshJob struct {
	generator SummaryGenerator
	exchange  string
	running   atomic.Bool

	mu     sync.RWMutex
	latest *portfolio.Summary

	log zerolog.Logger
}

// NewPriceRefreshJob creates a new price refresh job. An empty exchange
// means the service default.
func NewPriceRefreshJob(generator SummaryGenerator, exchange string, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		generator: generator,
		exchange:  exchange,
		log:       log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run executes one refresh unless another is still in progress
func (j *PriceRefreshJob) Run() error {
	if !j.running.CompareAndSwap(false, true) {
		j.log.Debug().Msg("Previous refresh still running, skipping")
		return nil
	}
	defer j.running.Store(false)
	defer utils.OperationTimer("price_refresh", j.log)()

	// No deadline on the pass. Each fetch is bounded by the HTTP client timeout,
	// so a slow provider costs one position, not the rest of the batch.
	summary, err := j.generator.Summary(context.Background(), j.exchange)
	if err != nil {
		return fmt.Errorf("failed to refresh positions summary: %w", err)
	}

	j.mu.Lock()
	j.latest = summary
	j.mu.Unlock()

	j.log.Info().
		Int("positions", summary.Portfolio.TotalPositions).
		Int("errors", summary.Portfolio.PositionsWithErrors).
		Float64("unrealized_pnl", summary.Portfolio.TotalUnrealizedPnL).
		Msg("Positions summary refreshed")
	return nil
}

// Latest returns the most recent summary, if any refresh has succeeded
func (j *PriceRefreshJob) Latest() (*portfolio.Summary, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.latest, j.latest != nil
}
