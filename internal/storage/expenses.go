package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/service"
)

// Amounts are stored as decimal strings, never floats, so values round-trip
// exactly through the database.

// SaveExpenses persists expenses, skipping duplicates by hash. Returns the
// number of rows actually inserted.
func (s *SQLiteStorage) SaveExpenses(ctx context.Context, expenses []model.Expense) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateExpenses(expenses); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, hash, date, amount, merchant, note, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range expenses {
		res, err := stmt.ExecContext(ctx,
			e.ID, e.Hash, e.Date, e.Amount.String(), e.Merchant, e.Note, e.Category)
		if err != nil {
			return 0, fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit expenses: %w", err)
	}

	slog.Debug("saved expenses", "given", len(expenses), "inserted", inserted)
	return inserted, nil
}

// GetExpenses returns expenses ordered by date descending, optionally
// filtered by category and limited in count.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, hash, date, amount, merchant, note, category
		FROM expenses`
	var args []any
	if filter.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetExpenseByID returns a single expense, or common.ErrNotFound.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, date, amount, merchant, note, category
		FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return e, nil
}

// UpdateExpenseCategory re-labels a single expense.
func (s *SQLiteStorage) UpdateExpenseCategory(ctx context.Context, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("failed to update expense category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	slog.Debug("updated expense category", "id", id, "category", category)
	return nil
}

// GetUncategorizedExpenses returns expenses still carrying the sentinel
// category, oldest first.
func (s *SQLiteStorage) GetUncategorizedExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, amount, merchant, note, category
		FROM expenses
		WHERE category = ? OR category IS NULL OR category = ''
		ORDER BY date ASC`, model.Uncategorized)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var e model.Expense
	var amount string
	var note, category sql.NullString
	var date time.Time

	if err := row.Scan(&e.ID, &e.Hash, &date, &amount, &e.Merchant, &note, &category); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
	}

	e.Date = date
	e.Amount = dec
	e.Note = note.String
	e.Category = category.String
	return &e, nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
