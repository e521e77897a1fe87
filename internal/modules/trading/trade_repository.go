package trading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
)

// TradeRepository handles trade database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// tradesColumns is the list of columns for the trades table
// Column order must match scanTrade
const tradesColumns = `id, symbol, asset_type, entry_date, entry_price, quantity, trade_type, notes, tags`

// findQuery is a fixed statement; every filter is an "empty or match" pair
const findQuery = `SELECT ` + tradesColumns + ` FROM trades
	WHERE (? = '' OR symbol = ?)
	  AND (? = '' OR asset_type = ?)
	  AND (? = '' OR trade_type = ?)
	  AND (? = '' OR entry_date >= ?)
	  AND (? = '' OR entry_date <= ?)
	  AND (? = '' OR instr(LOWER(tags), LOWER(?)) > 0)
	ORDER BY entry_date DESC, id ASC
	LIMIT ? OFFSET ?`

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trade").Logger(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (domain.Trade, error) {
	var (
		t         domain.Trade
		assetType string
		tradeType string
	)
	err := row.Scan(&t.ID, &t.Symbol, &assetType, &t.EntryDate, &t.EntryPrice,
		&t.Quantity, &tradeType, &t.Notes, &t.Tags)
	t.AssetType = domain.AssetType(assetType)
	t.TradeType = domain.TradeType(tradeType)
	return t, err
}

// Create inserts a trade and returns its id
func (r *TradeRepository) Create(ctx context.Context, t domain.Trade) (int64, error) {
	var id int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			INSERT INTO trades
			(symbol, asset_type, entry_date, entry_price, quantity, trade_type, notes, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Symbol, string(t.AssetType), t.EntryDate, t.EntryPrice,
			t.Quantity, string(t.TradeType), t.Notes, t.Tags,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Debug().Int64("id", id).Str("symbol", t.Symbol).Msg("Trade created")
	return id, nil
}

// GetByID returns the trade or nil when it does not exist
func (r *TradeRepository) GetByID(ctx context.Context, id int64) (*domain.Trade, error) {
	var t domain.Trade
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		t, err = scanTrade(conn.QueryRowContext(ctx,
			"SELECT "+tradesColumns+" FROM trades WHERE id = ?", id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return &t, nil
}

// Find returns trades matching every set field of filter, newest first
func (r *TradeRepository) Find(ctx context.Context, f Filter, page domain.Page) ([]domain.Trade, error) {
	args := []interface{}{
		f.Symbol, f.Symbol,
		string(f.AssetType), string(f.AssetType),
		string(f.TradeType), string(f.TradeType),
		f.Range.Start, f.Range.Start,
		f.Range.End, f.Range.End,
		f.Tag, f.Tag,
		page.SQLLimit(), page.Offset,
	}

	trades := make([]domain.Trade, 0)
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, findQuery, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTrade(rows)
			if err != nil {
				return err
			}
			trades = append(trades, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find trades: %w", err)
	}
	return trades, nil
}

// List returns all trades newest first
func (r *TradeRepository) List(ctx context.Context, page domain.Page) ([]domain.Trade, error) {
	return r.Find(ctx, Filter{}, page)
}

// Update applies the set fields of patch. Symbol, asset type and trade type
// are expected to be normalised already.
func (r *TradeRepository) Update(ctx context.Context, id int64, patch TradePatch) error {
	args := database.PatchArgs([][]interface{}{
		database.SetIf(patch.Symbol),
		database.SetIf(patch.AssetType),
		database.SetIf(patch.EntryDate),
		database.SetIf(patch.EntryPrice),
		database.SetIf(patch.Quantity),
		database.SetIf(patch.TradeType),
		database.SetIf(patch.Notes),
		database.SetIf(patch.Tags),
	}, id)

	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			UPDATE trades SET
				symbol = CASE WHEN ? THEN ? ELSE symbol END,
				asset_type = CASE WHEN ? THEN ? ELSE asset_type END,
				entry_date = CASE WHEN ? THEN ? ELSE entry_date END,
				entry_price = CASE WHEN ? THEN ? ELSE entry_price END,
				quantity = CASE WHEN ? THEN ? ELSE quantity END,
				trade_type = CASE WHEN ? THEN ? ELSE trade_type END,
				notes = CASE WHEN ? THEN ? ELSE notes END,
				tags = CASE WHEN ? THEN ? ELSE tags END
			WHERE id = ?`, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("trade", id)
	}
	return nil
}

// Delete removes a trade
func (r *TradeRepository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("trade", id)
	}
	return nil
}
