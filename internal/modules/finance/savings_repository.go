package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
)

// SavingsRepository handles savings database operations
type SavingsRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// savingsColumns must match scanSavings
const savingsColumns = `id, date, source, amount, note`

// NewSavingsRepository creates a new savings repository
func NewSavingsRepository(db *sql.DB, log zerolog.Logger) *SavingsRepository {
	return &SavingsRepository{
		db:  db,
		log: log.With().Str("repo", "savings").Logger(),
	}
}

func scanSavings(row rowScanner) (domain.Savings, error) {
	var s domain.Savings
	err := row.Scan(&s.ID, &s.Date, &s.Source, &s.Amount, &s.Note)
	return s, err
}

// Create inserts a savings record and returns its id
func (r *SavingsRepository) Create(ctx context.Context, s domain.Savings) (int64, error) {
	var id int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO savings (date, source, amount, note) VALUES (?, ?, ?, ?)`,
			s.Date, s.Source, s.Amount, s.Note,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create savings: %w", err)
	}

	r.log.Debug().Int64("id", id).Str("source", s.Source).Msg("Savings created")
	return id, nil
}

// GetByID returns the savings record or nil when it does not exist
func (r *SavingsRepository) GetByID(ctx context.Context, id int64) (*domain.Savings, error) {
	var e domain.Savings
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		e, err = scanSavings(conn.QueryRowContext(ctx,
			"SELECT "+savingsColumns+" FROM savings WHERE id = ?", id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings: %w", err)
	}
	return &e, nil
}

// List returns savings newest first
func (r *SavingsRepository) List(ctx context.Context, page domain.Page) ([]domain.Savings, error) {
	return r.query(ctx, "list savings",
		"SELECT "+savingsColumns+" FROM savings ORDER BY date DESC, id ASC LIMIT ? OFFSET ?",
		page.SQLLimit(), page.Offset)
}

// ListBySource returns the savings records of one source, newest first
func (r *SavingsRepository) ListBySource(ctx context.Context, source string) ([]domain.Savings, error) {
	return r.query(ctx, "list savings by source",
		"SELECT "+savingsColumns+" FROM savings WHERE source = ? ORDER BY date DESC, id ASC",
		source)
}

// ListByDateRange returns savings dated within the inclusive range, newest first
func (r *SavingsRepository) ListByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Savings, error) {
	return r.query(ctx, "list savings by date range",
		"SELECT "+savingsColumns+" FROM savings WHERE date BETWEEN ? AND ? ORDER BY date DESC, id ASC",
		dr.Start, dr.End)
}

func (r *SavingsRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]domain.Savings, error) {
	savings := make([]domain.Savings, 0)
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanSavings(rows)
			if err != nil {
				return err
			}
			savings = append(savings, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return savings, nil
}

// Update applies the set fields of patch
func (r *SavingsRepository) Update(ctx context.Context, id int64, patch SavingsPatch) error {
	args := database.PatchArgs([][]interface{}{
		database.SetIf(patch.Date),
		database.SetIf(patch.Source),
		database.SetIf(patch.Amount),
		database.SetIf(patch.Note),
	}, id)

	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			UPDATE savings SET
				date = CASE WHEN ? THEN ? ELSE date END,
				source = CASE WHEN ? THEN ? ELSE source END,
				amount = CASE WHEN ? THEN ? ELSE amount END,
				note = CASE WHEN ? THEN ? ELSE note END
			WHERE id = ?`, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update savings: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("savings", id)
	}
	return nil
}

// Delete removes a savings record
func (r *SavingsRepository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM savings WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete savings: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("savings", id)
	}
	return nil
}
