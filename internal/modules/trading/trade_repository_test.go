package trading

import (
	"context"
	"testing"

	"github.com/aristath/alpha/internal/domain"
	testingpkg "github.com/aristath/alpha/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededRepo(t *testing.T) *TradeRepository {
	t.Helper()
	repo := NewTradeRepository(testingpkg.NewMemoryDB(t), zerolog.Nop())
	for _, tr := range testingpkg.NewTradeFixtures() {
		_, err := repo.Create(context.Background(), tr)
		require.NoError(t, err)
	}
	return repo
}

func symbolsOf(trades []domain.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.Symbol + "@" + t.EntryDate
	}
	return out
}

func TestTradeRepository_RoundTrip(t *testing.T) {
	repo := NewTradeRepository(testingpkg.NewMemoryDB(t), zerolog.Nop())
	ctx := context.Background()

	in := testingpkg.NewTradeFixtures()[0]
	id, err := repo.Create(ctx, in)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	in.ID = id
	assert.Equal(t, in, *got)

	missing, err := repo.GetByID(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTradeRepository_Find(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		page   domain.Page
		want   []string
	}{
		{
			name:   "all newest first",
			filter: Filter{},
			want: []string{
				"AAPL@2024-03-01", "TSLA@2024-02-20", "BTC/USDT@2024-02-10",
				"AAPL@2024-02-01", "AAPL@2024-01-15",
			},
		},
		{
			name:   "paged",
			filter: Filter{},
			page:   domain.Page{Limit: 2, Offset: 1},
			want:   []string{"TSLA@2024-02-20", "BTC/USDT@2024-02-10"},
		},
		{
			name:   "by symbol",
			filter: Filter{Symbol: "AAPL"},
			want:   []string{"AAPL@2024-03-01", "AAPL@2024-02-01", "AAPL@2024-01-15"},
		},
		{
			name:   "by asset type",
			filter: Filter{AssetType: domain.AssetCrypto},
			want:   []string{"BTC/USDT@2024-02-10"},
		},
		{
			name:   "by trade type",
			filter: Filter{TradeType: domain.TradeShort},
			want:   []string{"TSLA@2024-02-20"},
		},
		{
			name:   "inclusive date range",
			filter: Filter{Range: domain.DateRange{Start: "2024-02-01", End: "2024-02-20"}},
			want:   []string{"TSLA@2024-02-20", "BTC/USDT@2024-02-10", "AAPL@2024-02-01"},
		},
		{
			name:   "tag ignores case",
			filter: Filter{Tag: "TECH"},
			want:   []string{"AAPL@2024-03-01", "AAPL@2024-02-01", "AAPL@2024-01-15"},
		},
		{
			name:   "combined filters",
			filter: Filter{Symbol: "AAPL", TradeType: domain.TradeBuy, Tag: "swing"},
			want:   []string{"AAPL@2024-01-15"},
		},
		{
			name:   "no match",
			filter: Filter{Symbol: "MSFT"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(ctx, tt.filter, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbolsOf(got))
		})
	}
}

func TestTradeRepository_UpdateAndDelete(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	err := repo.Update(ctx, 1, TradePatch{
		Quantity: domain.Set(12.0),
		Tags:     domain.Set("swing"),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Quantity)
	assert.Equal(t, "swing", got.Tags)
	assert.Equal(t, 180.0, got.EntryPrice)
	assert.Equal(t, "earnings run-up", got.Notes)

	assert.True(t, domain.IsNotFound(repo.Update(ctx, 999, TradePatch{Notes: domain.Set("x")})))

	require.NoError(t, repo.Delete(ctx, 1))
	assert.True(t, domain.IsNotFound(repo.Delete(ctx, 1)))
}
