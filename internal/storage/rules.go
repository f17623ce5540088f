package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

// SaveRule upserts a rule keyed by pattern.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	createdAt := rule.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (pattern, category, source, weight, use_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pattern) DO UPDATE SET
			category = excluded.category,
			source = excluded.source,
			weight = excluded.weight`,
		strings.ToLower(strings.TrimSpace(rule.Pattern)),
		rule.Category, string(rule.Source), rule.Weight, rule.UseCount, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	slog.Debug("saved rule", "pattern", rule.Pattern, "category", rule.Category)
	return nil
}

// DeleteRule removes a rule by pattern.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, pattern string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM rules WHERE pattern = ?`, strings.ToLower(strings.TrimSpace(pattern)))
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rule %q: %w", pattern, common.ErrNotFound)
	}
	return nil
}

// GetRules returns all rules ordered by creation time.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, category, source, weight, use_count, created_at
		FROM rules
		ORDER BY created_at, pattern`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var out []model.Rule
	for rows.Next() {
		var r model.Rule
		var source string
		if err := rows.Scan(&r.Pattern, &r.Category, &source, &r.Weight, &r.UseCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		r.Source = model.RuleSource(source)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return out, nil
}
