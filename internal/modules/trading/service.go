package trading

import (
	"context"
	"strings"

	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
)

// TradeRepositoryInterface defines the interface for trade persistence
type TradeRepositoryInterface interface {
	// Create inserts a new trade record and returns its id
	Create(ctx context.Context, t domain.Trade) (int64, error)

	// GetByID retrieves a trade, or nil when it does not exist
	GetByID(ctx context.Context, id int64) (*domain.Trade, error)

	// Find retrieves trades matching a filter, newest first
	Find(ctx context.Context, f Filter, page domain.Page) ([]domain.Trade, error)

	// Update applies a partial update
	Update(ctx context.Context, id int64, patch TradePatch) error

	// Delete removes a trade
	Delete(ctx context.Context, id int64) error
}

// Compile-time check that TradeRepository implements TradeRepositoryInterface
var _ TradeRepositoryInterface = (*TradeRepository)(nil)

// JournalService handles the trading journal.
//
// Responsibilities:
//   - Validate and normalise trades before they are stored
//   - Check existence before updates and deletes
//   - Serve filtered queries and journal statistics
type JournalService struct {
	log  zerolog.Logger
	repo TradeRepositoryInterface
}

// NewJournalService creates a new journal service
func NewJournalService(repo TradeRepositoryInterface, log zerolog.Logger) *JournalService {
	return &JournalService{
		log:  log.With().Str("service", "trading").Logger(),
		repo: repo,
	}
}

// normalizeTrade validates every field and returns the trade in stored form
func normalizeTrade(t domain.Trade) (domain.Trade, error) {
	symbol, err := domain.NormalizeSymbol(t.Symbol)
	if err != nil {
		return t, err
	}
	assetType, err := domain.ParseAssetType(string(t.AssetType))
	if err != nil {
		return t, err
	}
	if err := domain.ValidateDate("entry_date", t.EntryDate); err != nil {
		return t, err
	}
	if err := domain.ValidatePositive("entry_price", t.EntryPrice); err != nil {
		return t, err
	}
	if err := domain.ValidatePositive("quantity", t.Quantity); err != nil {
		return t, err
	}
	tradeType, err := domain.ParseTradeType(string(t.TradeType))
	if err != nil {
		return t, err
	}

	t.Symbol = symbol
	t.AssetType = assetType
	t.TradeType = tradeType
	return t, nil
}

// normalizePatch validates the supplied fields of patch and normalises them
func normalizePatch(patch TradePatch) (TradePatch, error) {
	if v, ok := patch.Symbol.Get(); ok {
		symbol, err := domain.NormalizeSymbol(v)
		if err != nil {
			return patch, err
		}
		patch.Symbol = domain.Set(symbol)
	}
	if v, ok := patch.AssetType.Get(); ok {
		at, err := domain.ParseAssetType(v)
		if err != nil {
			return patch, err
		}
		patch.AssetType = domain.Set(string(at))
	}
	if v, ok := patch.EntryDate.Get(); ok {
		if err := domain.ValidateDate("entry_date", v); err != nil {
			return patch, err
		}
	}
	if v, ok := patch.EntryPrice.Get(); ok {
		if err := domain.ValidatePositive("entry_price", v); err != nil {
			return patch, err
		}
	}
	if v, ok := patch.Quantity.Get(); ok {
		if err := domain.ValidatePositive("quantity", v); err != nil {
			return patch, err
		}
	}
	if v, ok := patch.TradeType.Get(); ok {
		tt, err := domain.ParseTradeType(v)
		if err != nil {
			return patch, err
		}
		patch.TradeType = domain.Set(string(tt))
	}
	return patch, nil
}

// AddTrade validates and stores a trade, returning its id
func (s *JournalService) AddTrade(ctx context.Context, t domain.Trade) (int64, error) {
	t, err := normalizeTrade(t)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int64("id", id).
		Str("symbol", t.Symbol).
		Str("trade_type", string(t.TradeType)).
		Float64("quantity", t.Quantity).
		Float64("price", t.EntryPrice).
		Msg("Added trade")
	return id, nil
}

// UpdateTrade applies the supplied fields of patch to an existing trade
func (s *JournalService) UpdateTrade(ctx context.Context, id int64, patch TradePatch) error {
	patch, err := normalizePatch(patch)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("trade", id)
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Updated trade")
	return nil
}

// DeleteTrade removes an existing trade
func (s *JournalService) DeleteTrade(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("trade", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Str("symbol", existing.Symbol).Msg("Deleted trade")
	return nil
}

// GetTrade returns one trade or a not-found error
func (s *JournalService) GetTrade(ctx context.Context, id int64) (*domain.Trade, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("trade", id)
	}
	return t, nil
}

// ListTrades returns trades newest first
func (s *JournalService) ListTrades(ctx context.Context, page domain.Page) ([]domain.Trade, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{}, page)
}

// Search validates a combined filter and runs it
func (s *JournalService) Search(ctx context.Context, f Filter, page domain.Page) ([]domain.Trade, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if f.Symbol != "" {
		symbol, err := domain.NormalizeSymbol(f.Symbol)
		if err != nil {
			return nil, err
		}
		f.Symbol = symbol
	}
	if f.AssetType != "" {
		at, err := domain.ParseAssetType(string(f.AssetType))
		if err != nil {
			return nil, err
		}
		f.AssetType = at
	}
	if f.TradeType != "" {
		tt, err := domain.ParseTradeType(string(f.TradeType))
		if err != nil {
			return nil, err
		}
		f.TradeType = tt
	}
	if err := f.Range.Validate(); err != nil {
		return nil, err
	}
	f.Tag = strings.TrimSpace(f.Tag)

	return s.repo.Find(ctx, f, page)
}

// TradesBySymbol returns the trades of one symbol
func (s *JournalService) TradesBySymbol(ctx context.Context, symbol string) ([]domain.Trade, error) {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{Symbol: normalized}, domain.Page{})
}

// TradesByAssetType returns the trades of one asset type
func (s *JournalService) TradesByAssetType(ctx context.Context, assetType string) ([]domain.Trade, error) {
	at, err := domain.ParseAssetType(assetType)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{AssetType: at}, domain.Page{})
}

// TradesByTradeType returns the trades of one direction
func (s *JournalService) TradesByTradeType(ctx context.Context, tradeType string) ([]domain.Trade, error) {
	tt, err := domain.ParseTradeType(tradeType)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{TradeType: tt}, domain.Page{})
}

// TradesByDateRange returns trades entered within the inclusive range
func (s *JournalService) TradesByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Trade, error) {
	if dr.IsZero() {
		return nil, domain.Invalid("start_date", "start_date and end_date are required")
	}
	if err := dr.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{Range: dr}, domain.Page{})
}

// TradesByTag returns trades whose tag list contains tag, ignoring case
func (s *JournalService) TradesByTag(ctx context.Context, tag string) ([]domain.Trade, error) {
	if err := domain.ValidateNonEmpty("tag", tag); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Filter{Tag: strings.TrimSpace(tag)}, domain.Page{})
}
