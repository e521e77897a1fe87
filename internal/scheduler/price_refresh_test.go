package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/alpha/internal/modules/portfolio"
	testingpkg "github.com/aristath/alpha/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRefreshJob_Run(t *testing.T) {
	ctx := context.Background()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	prices := testingpkg.NewMockPriceSource()
	prices.SetPrice("AAPL", 190)
	prices.SetPrice("VOO", 450)
	prices.SetError("BTC/USDT", errors.New("exchange unavailable"))

	service := portfolio.NewService(portfolio.NewPositionRepository(testingpkg.NewMemoryDB(t), log), prices, "binance", log)
	for _, p := range testingpkg.NewPositionFixtures() {
		_, err := service.AddPosition(ctx, p)
		require.NoError(t, err)
	}

	job := NewPriceRefreshJob(service, "kraken", log)
	assert.Equal(t, "price_refresh", job.Name())

	_, ok := job.Latest()
	assert.False(t, ok)

	require.NoError(t, job.Run())

	summary, ok := job.Latest()
	require.True(t, ok)
	assert.Equal(t, "kraken", summary.Exchange)
	assert.Equal(t, 3, summary.Portfolio.TotalPositions)
	assert.Equal(t, 1, summary.Portfolio.PositionsWithErrors)

	for _, call := range prices.Calls() {
		assert.Equal(t, "kraken", call.Exchange)
	}
}

type stubGenerator struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
	entered     chan struct{}
	release     chan struct{}
	err         error
}

func (g *stubGenerator) Summary(ctx context.Context, exchange string) (*portfolio.Summary, error) {
	g.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		g.hadDeadline.Store(true)
	}
	if g.entered != nil {
		close(g.entered)
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return &portfolio.Summary{Exchange: exchange}, nil
}

func TestPriceRefreshJob_KeepsLastGoodSummary(t *testing.T) {
	gen := &stubGenerator{}
	job := NewPriceRefreshJob(gen, "binance", zerolog.Nop())

	require.NoError(t, job.Run())
	first, ok := job.Latest()
	require.True(t, ok)

	gen.err = errors.New("database locked")
	assert.Error(t, job.Run())

	latest, ok := job.Latest()
	require.True(t, ok)
	assert.Same(t, first, latest)
}

func TestPriceRefreshJob_SkipsOverlappingRun(t *testing.T) {
	gen := &stubGenerator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	job := NewPriceRefreshJob(gen, "", zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = job.Run()
	}()

	select {
	case <-gen.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never started")
	}

	assert.NoError(t, job.Run(), "overlapping run is skipped, not failed")
	assert.Equal(t, int32(1), gen.calls.Load())

	close(gen.release)
	wg.Wait()

	_, ok := job.Latest()
	assert.True(t, ok)
}

func TestPriceRefreshJob_PassHasNoDeadline(t *testing.T) {
	gen := &stubGenerator{}
	job := NewPriceRefreshJob(gen, "binance", zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, int32(1), gen.calls.Load())
	assert.False(t, gen.hadDeadline.Load(), "enrichment must not be cut off part way")
}
