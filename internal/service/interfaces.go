// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/pocketpilot/ppp/internal/model"
)

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	Category string
	Limit    int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Expense operations
	SaveExpenses(ctx context.Context, expenses []model.Expense) (int, error)
	GetExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	UpdateExpenseCategory(ctx context.Context, id, category string) error
	GetUncategorizedExpenses(ctx context.Context) ([]model.Expense, error)

	// Rule operations
	SaveRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, pattern string) error
	GetRules(ctx context.Context) ([]model.Rule, error)

	// Budget operations
	SetBudget(ctx context.Context, budget *model.Budget) error
	GetBudget(ctx context.Context, category string) (*model.Budget, error)
	GetBudgets(ctx context.Context) ([]model.Budget, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
