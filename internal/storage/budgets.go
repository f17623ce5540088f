package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/model"
)

// SetBudget upserts the monthly limit for a category.
func (s *SQLiteStorage) SetBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category, limit_amount, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			limit_amount = excluded.limit_amount,
			updated_at = excluded.updated_at`,
		budget.Category, budget.Limit.String(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}
	return nil
}

// GetBudget returns the budget for a category, or nil when no limit is set.
// An unknown category is not an error.
func (s *SQLiteStorage) GetBudget(ctx context.Context, category string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT category, limit_amount, updated_at
		FROM budgets WHERE category = ?`, category)

	budget, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return budget, nil
}

// GetBudgets returns all budgets ordered by category.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, limit_amount, updated_at
		FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var out []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return out, nil
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var b model.Budget
	var limit string
	if err := row.Scan(&b.Category, &limit, &b.UpdatedAt); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(limit)
	if err != nil {
		return nil, fmt.Errorf("corrupt budget limit %q: %w", limit, err)
	}
	b.Limit = dec
	return &b, nil
}
