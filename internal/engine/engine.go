// Package engine implements the categorization engine and feedback corrector.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/rules"
	"github.com/pocketpilot/ppp/internal/service"
)

// Engine categorizes expenses against the rule store and persists the
// results. It is the single mutation point for rule state: corrections go
// through Correct, which updates both the store and the database.
type Engine struct {
	storage service.Storage
	rules   *rules.Store
}

// New creates an engine backed by the given storage and rule store.
func New(storage service.Storage, ruleStore *rules.Store) *Engine {
	return &Engine{
		storage: storage,
		rules:   ruleStore,
	}
}

// LoadRules builds an engine whose rule store is hydrated from storage.
func LoadRules(ctx context.Context, storage service.Storage) (*Engine, error) {
	dbRules, err := storage.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return New(storage, rules.NewStore(dbRules)), nil
}

// Rules exposes the engine's rule store.
func (e *Engine) Rules() *rules.Store {
	return e.rules
}

// Categorize assigns a category to a single expense. An unmatched
// description gets the Uncategorized sentinel; this never fails.
func (e *Engine) Categorize(expense model.Expense) string {
	rule, ok := e.rules.Lookup(expense.Description())
	if !ok {
		return model.Uncategorized
	}
	return rule.Category
}

// Ingest categorizes and persists a batch of expenses, returning the number
// actually stored (duplicates are dropped by hash).
func (e *Engine) Ingest(ctx context.Context, expenses []model.Expense) (int, error) {
	if len(expenses) == 0 {
		return 0, nil
	}

	for i := range expenses {
		if expenses[i].Category == "" {
			expenses[i].Category = e.Categorize(expenses[i])
		}
	}

	inserted, err := e.storage.SaveExpenses(ctx, expenses)
	if err != nil {
		return 0, fmt.Errorf("failed to save expenses: %w", err)
	}

	slog.Info("ingested expenses",
		"given", len(expenses),
		"inserted", inserted,
		"duplicates", len(expenses)-inserted)
	return inserted, nil
}

// AddRule installs a rule in the store and persists it.
func (e *Engine) AddRule(ctx context.Context, pattern, category string, source model.RuleSource) (model.Rule, error) {
	rule, err := e.rules.AddRule(pattern, category, source)
	if err != nil {
		return model.Rule{}, err
	}
	if err := e.storage.SaveRule(ctx, &rule); err != nil {
		return model.Rule{}, fmt.Errorf("failed to persist rule: %w", err)
	}
	return rule, nil
}

// RemoveRule deletes a rule from the store and from storage.
func (e *Engine) RemoveRule(ctx context.Context, pattern string) error {
	if err := e.rules.RemoveRule(pattern); err != nil {
		return err
	}
	if err := e.storage.DeleteRule(ctx, pattern); err != nil {
		return fmt.Errorf("failed to delete persisted rule: %w", err)
	}
	return nil
}
