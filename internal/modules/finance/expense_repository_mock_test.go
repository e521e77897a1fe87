package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockExpenseRepository(t *testing.T) (*ExpenseRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewExpenseRepository(sqlDB, zerolog.Nop()), mock
}

func TestExpenseRepository_DriverErrors(t *testing.T) {
	errDisk := errors.New("disk I/O error")

	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		call    func(repo *ExpenseRepository) error
		wantMsg string
	}{
		{
			name: "create",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO expenses").WillReturnError(errDisk)
			},
			call: func(repo *ExpenseRepository) error {
				_, err := repo.Create(context.Background(), domain.Expense{Date: "2024-01-05", Category: "Food", Amount: 12})
				return err
			},
			wantMsg: "failed to create expense",
		},
		{
			name: "get",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id").WithArgs(int64(7)).WillReturnError(errDisk)
			},
			call: func(repo *ExpenseRepository) error {
				_, err := repo.GetByID(context.Background(), 7)
				return err
			},
			wantMsg: "failed to get expense",
		},
		{
			name: "list",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM expenses ORDER BY").WillReturnError(errDisk)
			},
			call: func(repo *ExpenseRepository) error {
				_, err := repo.List(context.Background(), domain.Page{})
				return err
			},
			wantMsg: "failed to list expenses",
		},
		{
			name: "update",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE expenses SET").WillReturnError(errDisk)
			},
			call: func(repo *ExpenseRepository) error {
				return repo.Update(context.Background(), 3, ExpensePatch{Amount: domain.Set(20.0)})
			},
			wantMsg: "failed to update expense",
		},
		{
			name: "delete",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM expenses").WithArgs(int64(3)).WillReturnError(errDisk)
			},
			call: func(repo *ExpenseRepository) error {
				return repo.Delete(context.Background(), 3)
			},
			wantMsg: "failed to delete expense",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockExpenseRepository(t)
			tt.expect(mock)

			err := tt.call(repo)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.ErrorIs(t, err, errDisk)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestExpenseRepository_ScanFailure(t *testing.T) {
	repo, mock := newMockExpenseRepository(t)

	rows := sqlmock.NewRows([]string{"id", "date", "category", "amount", "note"}).
		AddRow(1, "2024-01-05", "Food", "not-a-number", "")
	mock.ExpectQuery("SELECT (.+) FROM expenses WHERE category").WithArgs("Food").WillReturnRows(rows)

	_, err := repo.ListByCategory(context.Background(), "Food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list expenses by category")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_DeleteNoRowsAffected(t *testing.T) {
	repo, mock := newMockExpenseRepository(t)
	mock.ExpectExec("DELETE FROM expenses").WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
