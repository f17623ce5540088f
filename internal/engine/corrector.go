package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

var tokenPattern = regexp.MustCompile(`[a-z][a-z0-9]+`)

// stopwords are tokens too generic to identify a merchant.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "from": {}, "with": {},
	"payment": {}, "purchase": {}, "order": {}, "online": {},
	"card": {}, "debit": {}, "credit": {}, "pos": {}, "inc": {},
	"llc": {}, "ltd": {}, "com": {}, "www": {},
}

// Correct re-labels an expense and teaches the rule store a pattern derived
// from its description, so an identical description categorizes as
// newCategory from now on. Repeating the same correction is a no-op.
func (e *Engine) Correct(ctx context.Context, expenseID, newCategory string) (model.Rule, error) {
	if strings.TrimSpace(newCategory) == "" {
		return model.Rule{}, fmt.Errorf("category cannot be empty")
	}

	expense, err := e.storage.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return model.Rule{}, err
	}

	keyword, err := DistinctiveKeyword(expense.Description())
	if err != nil {
		return model.Rule{}, fmt.Errorf("cannot derive rule from %q: %w", expense.Description(), err)
	}

	rule, err := e.AddRule(ctx, keyword, newCategory, model.RuleSourceFeedback)
	if err != nil {
		return model.Rule{}, err
	}

	if expense.Category != newCategory {
		if err := e.storage.UpdateExpenseCategory(ctx, expenseID, newCategory); err != nil {
			return model.Rule{}, err
		}
	}

	slog.Info("applied correction",
		"expense", expenseID,
		"category", newCategory,
		"learned_pattern", keyword)
	return rule, nil
}

// DistinctiveKeyword extracts the token of a description most likely to
// identify the merchant: the longest token not in the stopword list, ties
// going to the earliest occurrence. Purely numeric tokens never qualify.
func DistinctiveKeyword(description string) (string, error) {
	tokens := tokenPattern.FindAllString(strings.ToLower(description), -1)

	best := ""
	for _, tok := range tokens {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if len(tok) > len(best) {
			best = tok
		}
	}

	if best == "" {
		return "", common.ErrNoKeyword
	}
	return best, nil
}
