package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketpilot/ppp/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidExpense = errors.New("invalid expense")
	ErrInvalidRule    = errors.New("invalid rule")
	ErrInvalidBudget  = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpenses validates a slice of expenses.
func validateExpenses(expenses []model.Expense) error {
	if expenses == nil {
		return fmt.Errorf("%w: expenses", ErrNilParameter)
	}
	if len(expenses) == 0 {
		return fmt.Errorf("%w: expenses", ErrEmptySlice)
	}

	for i, e := range expenses {
		if err := validateExpense(&e); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
	}
	return nil
}

// validateExpense validates a single expense.
func validateExpense(e *model.Expense) error {
	if e == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if strings.TrimSpace(e.Merchant) == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidExpense)
	}
	return nil
}

// validateRule validates a rule.
func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	return nil
}

// validateBudget validates a budget.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if strings.TrimSpace(budget.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.Limit.IsNegative() {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidBudget)
	}
	return nil
}
