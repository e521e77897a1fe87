package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// LedgerSource lists every expense and savings record
type LedgerSource interface {
	ListExpenses(ctx context.Context, page domain.Page) ([]domain.Expense, error)
	ListSavings(ctx context.Context, page domain.Page) ([]domain.Savings, error)
}

// JournalSource lists every trade
type JournalSource interface {
	ListTrades(ctx context.Context, page domain.Page) ([]domain.Trade, error)
}

// PositionSource lists positions and values them at live prices
type PositionSource interface {
	AllPositions(ctx context.Context) ([]domain.Position, error)
	EnrichAll(ctx context.Context, exchange string) ([]portfolio.EnrichedPosition, error)
}

// ExportOptions controls what an export contains
type ExportOptions struct {
	Live     bool
	Exchange string
}

// Exporter collects records from the services and writes workbooks
type Exporter struct {
	ledger    LedgerSource
	journal   JournalSource
	positions PositionSource
	log       zerolog.Logger
}

// NewExporter creates a new workbook exporter
func NewExporter(ledger LedgerSource, journal JournalSource, positions PositionSource, log zerolog.Logger) *Exporter {
	return &Exporter{
		ledger:    ledger,
		journal:   journal,
		positions: positions,
		log:       log.With().Str("service", "export").Logger(),
	}
}

// Collect gathers the dataset for one export
func (e *Exporter) Collect(ctx context.Context, opts ExportOptions) (*Dataset, error) {
	all := domain.Page{}

	expenses, err := e.ledger.ListExpenses(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to collect expenses: %w", err)
	}
	savings, err := e.ledger.ListSavings(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to collect savings: %w", err)
	}
	trades, err := e.journal.ListTrades(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to collect trades: %w", err)
	}
	positions, err := e.positions.AllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect positions: %w", err)
	}

	data := &Dataset{
		Expenses:  expenses,
		Savings:   savings,
		Trades:    trades,
		Positions: positions,
	}

	if opts.Live {
		enriched, err := e.positions.EnrichAll(ctx, opts.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to value positions: %w", err)
		}
		data.Live = &LiveValuation{
			Positions: enriched,
			Totals:    portfolio.Aggregate(enriched),
		}
	}

	return data, nil
}

// Export writes an xlsx workbook to w
func (e *Exporter) Export(ctx context.Context, w io.Writer, opts ExportOptions) error {
	e.log.Debug().Bool("live", opts.Live).Msg("Export start")

	data, err := e.Collect(ctx, opts)
	if err != nil {
		return err
	}

	if err := WriteWorkbook(w, *data); err != nil {
		return err
	}

	e.log.Info().
		Int("expenses", len(data.Expenses)).
		Int("savings", len(data.Savings)).
		Int("trades", len(data.Trades)).
		Int("positions", len(data.Positions)).
		Bool("live", opts.Live).
		Msg("Exported workbook")
	return nil
}
