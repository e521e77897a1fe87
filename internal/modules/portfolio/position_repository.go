package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
)

// PositionRepository handles position database operations
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// positionsColumns must match scanPosition
const positionsColumns = `id, symbol, asset_type, entry_date, entry_price, quantity`

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(row rowScanner) (domain.Position, error) {
	var (
		p         domain.Position
		assetType string
	)
	err := row.Scan(&p.ID, &p.Symbol, &assetType, &p.EntryDate, &p.EntryPrice, &p.Quantity)
	p.AssetType = domain.AssetType(assetType)
	return p, err
}

// Create inserts a position and returns its id
func (r *PositionRepository) Create(ctx context.Context, p domain.Position) (int64, error) {
	var id int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			INSERT INTO positions (symbol, asset_type, entry_date, entry_price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			p.Symbol, string(p.AssetType), p.EntryDate, p.EntryPrice, p.Quantity,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create position: %w", err)
	}

	r.log.Debug().Int64("id", id).Str("symbol", p.Symbol).Msg("Position created")
	return id, nil
}

func (r *PositionRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Position, error) {
	var p domain.Position
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		p, err = scanPosition(conn.QueryRowContext(ctx, query, arg))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return &p, nil
}

// GetByID returns the position or nil when it does not exist
func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*domain.Position, error) {
	return r.getOne(ctx, "SELECT "+positionsColumns+" FROM positions WHERE id = ?", id)
}

// GetBySymbol returns the oldest lot of symbol or nil
func (r *PositionRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Position, error) {
	return r.getOne(ctx,
		"SELECT "+positionsColumns+" FROM positions WHERE symbol = ? ORDER BY id ASC LIMIT 1", symbol)
}

// GetAll returns every position ordered by symbol
func (r *PositionRepository) GetAll(ctx context.Context) ([]domain.Position, error) {
	return r.query(ctx, "list positions",
		"SELECT "+positionsColumns+" FROM positions ORDER BY symbol ASC, id ASC")
}

// GetByAssetType returns the positions of one asset type ordered by symbol
func (r *PositionRepository) GetByAssetType(ctx context.Context, assetType domain.AssetType) ([]domain.Position, error) {
	return r.query(ctx, "list positions by asset type",
		"SELECT "+positionsColumns+" FROM positions WHERE asset_type = ? ORDER BY symbol ASC, id ASC",
		string(assetType))
}

func (r *PositionRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]domain.Position, error) {
	positions := make([]domain.Position, 0)
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPosition(rows)
			if err != nil {
				return err
			}
			positions = append(positions, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return positions, nil
}

// Update applies the set fields of patch
func (r *PositionRepository) Update(ctx context.Context, id int64, patch PositionPatch) error {
	args := database.PatchArgs([][]interface{}{
		database.SetIf(patch.Symbol),
		database.SetIf(patch.AssetType),
		database.SetIf(patch.EntryDate),
		database.SetIf(patch.EntryPrice),
		database.SetIf(patch.Quantity),
	}, id)

	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			UPDATE positions SET
				symbol = CASE WHEN ? THEN ? ELSE symbol END,
				asset_type = CASE WHEN ? THEN ? ELSE asset_type END,
				entry_date = CASE WHEN ? THEN ? ELSE entry_date END,
				entry_price = CASE WHEN ? THEN ? ELSE entry_price END,
				quantity = CASE WHEN ? THEN ? ELSE quantity END
			WHERE id = ?`, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("position", id)
	}
	return nil
}

// Delete removes a position
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM positions WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("position", id)
	}
	return nil
}
