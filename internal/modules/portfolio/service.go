package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/pricing"
	"github.com/aristath/alpha/internal/utils"
	"github.com/aristath/alpha/pkg/logger"
	"github.com/rs/zerolog"
)

// PositionRepositoryInterface defines the interface for position persistence
type PositionRepositoryInterface interface {
	Create(ctx context.Context, p domain.Position) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Position, error)
	GetBySymbol(ctx context.Context, symbol string) (*domain.Position, error)
	GetAll(ctx context.Context) ([]domain.Position, error)
	GetByAssetType(ctx context.Context, assetType domain.AssetType) ([]domain.Position, error)
	Update(ctx context.Context, id int64, patch PositionPatch) error
	Delete(ctx context.Context, id int64) error
}

// Compile-time check that PositionRepository implements PositionRepositoryInterface
var _ PositionRepositoryInterface = (*PositionRepository)(nil)

// DefaultTopPerformers is used when TopPerformers is called without a limit
const DefaultTopPerformers = 5

// summaryTopPerformers is the number of performers included in Summary
const summaryTopPerformers = 3

// Service tracks open positions and values them against live prices.
//
// Enrichment fetches one price per position, sequentially, and never caches.
// A failed fetch only marks that position as lacking data.
type Service struct {
	repo            PositionRepositoryInterface
	prices          pricing.Source
	defaultExchange string
	now             func() time.Time
	log             zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(repo PositionRepositoryInterface, prices pricing.Source, defaultExchange string, log zerolog.Logger) *Service {
	return &Service{
		repo:            repo,
		prices:          prices,
		defaultExchange: defaultExchange,
		now:             time.Now,
		log:             log.With().Str("service", "portfolio").Logger(),
	}
}

// DefaultExchange returns the exchange used when callers pass none
func (s *Service) DefaultExchange() string {
	return s.defaultExchange
}

func (s *Service) resolveExchange(exchange string) string {
	if exchange == "" {
		return s.defaultExchange
	}
	return exchange
}

func normalizePosition(p domain.Position) (domain.Position, error) {
	symbol, err := domain.NormalizeSymbol(p.Symbol)
	if err != nil {
		return p, err
	}
	assetType, err := domain.ParseAssetType(string(p.AssetType))
	if err != nil {
		return p, err
	}
	if err := domain.ValidateDate("entry_date", p.EntryDate); err != nil {
		return p, err
	}
	if err := domain.ValidatePositive("entry_price", p.EntryPrice); err != nil {
		return p, err
	}
	if err := domain.ValidatePositive("quantity", p.Quantity); err != nil {
		return p, err
	}

	p.Symbol = symbol
	p.AssetType = assetType
	return p, nil
}

// AddPosition validates and stores a position, returning its id
func (s *Service) AddPosition(ctx context.Context, p domain.Position) (int64, error) {
	p, err := normalizePosition(p)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int64("id", id).
		Str("symbol", p.Symbol).
		Float64("quantity", p.Quantity).
		Float64("entry_price", p.EntryPrice).
		Msg("Added position")
	return id, nil
}

// UpdatePosition applies the supplied fields of patch to an existing position
func (s *Service) UpdatePosition(ctx context.Context, id int64, patch PositionPatch) error {
	if v, ok := patch.Symbol.Get(); ok {
		symbol, err := domain.NormalizeSymbol(v)
		if err != nil {
			return err
		}
		patch.Symbol = domain.Set(symbol)
	}
	if v, ok := patch.AssetType.Get(); ok {
		at, err := domain.ParseAssetType(v)
		if err != nil {
			return err
		}
		patch.AssetType = domain.Set(string(at))
	}
	if v, ok := patch.EntryDate.Get(); ok {
		if err := domain.ValidateDate("entry_date", v); err != nil {
			return err
		}
	}
	if v, ok := patch.EntryPrice.Get(); ok {
		if err := domain.ValidatePositive("entry_price", v); err != nil {
			return err
		}
	}
	if v, ok := patch.Quantity.Get(); ok {
		if err := domain.ValidatePositive("quantity", v); err != nil {
			return err
		}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("position", id)
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Updated position")
	return nil
}

// DeletePosition removes an existing position
func (s *Service) DeletePosition(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("position", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Str("symbol", existing.Symbol).Msg("Deleted position")
	return nil
}

// GetPosition returns one position or a not-found error
func (s *Service) GetPosition(ctx context.Context, id int64) (*domain.Position, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("position", id)
	}
	return p, nil
}

// GetPositionBySymbol returns the oldest lot of symbol, or nil when there is none
func (s *Service) GetPositionBySymbol(ctx context.Context, symbol string) (*domain.Position, error) {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBySymbol(ctx, normalized)
}

// PositionsByAssetType returns the positions of one asset type
func (s *Service) PositionsByAssetType(ctx context.Context, assetType string) ([]domain.Position, error) {
	at, err := domain.ParseAssetType(assetType)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByAssetType(ctx, at)
}

// AllPositions returns every stored position ordered by symbol
func (s *Service) AllPositions(ctx context.Context) ([]domain.Position, error) {
	return s.repo.GetAll(ctx)
}

// Enrich values one position at its live price. It calls the price source
// exactly once and never fails: a fetch error is recorded on the result.
func (s *Service) Enrich(ctx context.Context, p domain.Position, exchange string) EnrichedPosition {
	exchange = s.resolveExchange(exchange)
	entryValue := p.EntryValue()
	out := EnrichedPosition{
		Position:    p,
		EntryValue:  entryValue,
		LastUpdated: logger.Timestamp(s.now()),
	}

	price, err := s.prices.Price(ctx, p.Symbol, string(p.AssetType), exchange)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", p.Symbol).Msg("Failed to fetch live price")
		out.Error = err.Error()
		return out
	}

	currentValue := price * p.Quantity
	pnl := currentValue - entryValue
	pnlPercent := 0.0
	if entryValue > 0 {
		pnlPercent = pnl / entryValue * 100
	}
	change := price - p.EntryPrice
	changePercent := 0.0
	if p.EntryPrice > 0 {
		changePercent = change / p.EntryPrice * 100
	}

	out.LivePrice = &price
	out.CurrentValue = &currentValue
	out.UnrealizedPnL = &pnl
	out.UnrealizedPnLPercent = &pnlPercent
	out.PriceChange = &change
	out.PriceChangePercent = &changePercent

	s.log.Debug().
		Str("symbol", p.Symbol).
		Float64("live_price", price).
		Float64("unrealized_pnl", pnl).
		Msg("Enriched position")
	return out
}

// EnrichByID loads and enriches one position
func (s *Service) EnrichByID(ctx context.Context, id int64, exchange string) (*EnrichedPosition, error) {
	p, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	enriched := s.Enrich(ctx, *p, exchange)
	return &enriched, nil
}

// EnrichAll enriches every stored position in order, one at a time
func (s *Service) EnrichAll(ctx context.Context, exchange string) ([]EnrichedPosition, error) {
	timer := utils.NewTimer("enrich_positions", s.log)
	defer timer.Stop()

	positions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions with live prices: %w", err)
	}

	enriched := make([]EnrichedPosition, 0, len(positions))
	for _, p := range positions {
		enriched = append(enriched, s.Enrich(ctx, p, exchange))
	}

	s.log.Info().Int("positions", len(enriched)).Msg("Enriched positions with live data")
	return enriched, nil
}

// CalculatePnL enriches every position and aggregates the result
func (s *Service) CalculatePnL(ctx context.Context, exchange string) (*PortfolioSummary, error) {
	enriched, err := s.EnrichAll(ctx, exchange)
	if err != nil {
		return nil, err
	}
	summary := Aggregate(enriched)
	summary.LastUpdated = logger.Timestamp(s.now())
	return &summary, nil
}

// TopPerformers enriches every position and returns up to limit of those
// with data, best percentage first. A non-positive limit means DefaultTopPerformers.
func (s *Service) TopPerformers(ctx context.Context, limit int, exchange string) ([]EnrichedPosition, error) {
	enriched, err := s.EnrichAll(ctx, exchange)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopPerformers
	}
	return RankPerformers(enriched, limit), nil
}

// Summary enriches once and derives both the aggregate and the top
// performers from that batch
func (s *Service) Summary(ctx context.Context, exchange string) (*Summary, error) {
	exchange = s.resolveExchange(exchange)
	enriched, err := s.EnrichAll(ctx, exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to generate positions summary: %w", err)
	}

	now := logger.Timestamp(s.now())
	portfolio := Aggregate(enriched)
	portfolio.LastUpdated = now

	return &Summary{
		Portfolio:     portfolio,
		TopPerformers: RankPerformers(enriched, summaryTopPerformers),
		Exchange:      exchange,
		GeneratedAt:   now,
	}, nil
}
