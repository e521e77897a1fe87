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

// ExpenseRepository handles expense database operations
type ExpenseRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// expenseColumns must match scanExpense
const expenseColumns = `id, date, category, amount, note`

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, log zerolog.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:  db,
		log: log.With().Str("repo", "expense").Logger(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.Note)
	return e, err
}

// Create inserts an expense and returns its id
func (r *ExpenseRepository) Create(ctx context.Context, e domain.Expense) (int64, error) {
	var id int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO expenses (date, category, amount, note) VALUES (?, ?, ?, ?)`,
			e.Date, e.Category, e.Amount, e.Note,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create expense: %w", err)
	}

	r.log.Debug().Int64("id", id).Str("category", e.Category).Msg("Expense created")
	return id, nil
}

// GetByID returns the expense or nil when it does not exist
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var e domain.Expense
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		e, err = scanExpense(conn.QueryRowContext(ctx,
			"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &e, nil
}

// List returns expenses newest first
func (r *ExpenseRepository) List(ctx context.Context, page domain.Page) ([]domain.Expense, error) {
	return r.query(ctx, "list expenses",
		"SELECT "+expenseColumns+" FROM expenses ORDER BY date DESC, id ASC LIMIT ? OFFSET ?",
		page.SQLLimit(), page.Offset)
}

// ListByCategory returns the expenses of one category, newest first
func (r *ExpenseRepository) ListByCategory(ctx context.Context, category string) ([]domain.Expense, error) {
	return r.query(ctx, "list expenses by category",
		"SELECT "+expenseColumns+" FROM expenses WHERE category = ? ORDER BY date DESC, id ASC",
		category)
}

// ListByDateRange returns expenses dated within the inclusive range, newest first
func (r *ExpenseRepository) ListByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Expense, error) {
	return r.query(ctx, "list expenses by date range",
		"SELECT "+expenseColumns+" FROM expenses WHERE date BETWEEN ? AND ? ORDER BY date DESC, id ASC",
		dr.Start, dr.End)
}

func (r *ExpenseRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0)
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanExpense(rows)
			if err != nil {
				return err
			}
			expenses = append(expenses, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return expenses, nil
}

// Update applies the set fields of patch
func (r *ExpenseRepository) Update(ctx context.Context, id int64, patch ExpensePatch) error {
	args := database.PatchArgs([][]interface{}{
		database.SetIf(patch.Date),
		database.SetIf(patch.Category),
		database.SetIf(patch.Amount),
		database.SetIf(patch.Note),
	}, id)

	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			UPDATE expenses SET
				date = CASE WHEN ? THEN ? ELSE date END,
				category = CASE WHEN ? THEN ? ELSE category END,
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
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("expense", id)
	}
	return nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("expense", id)
	}
	return nil
}
