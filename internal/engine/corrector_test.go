package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

func TestDistinctiveKeyword(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
		wantErr     bool
	}{
		{"picks longest token", "STARBUCKS #1234 SEATTLE", "starbucks", false},
		{"skips stopwords", "payment for blueapron order", "blueapron", false},
		{"skips pure numbers", "4411 2024 store", "store", false},
		{"tie keeps earliest", "acme corp", "acme", false},
		{"nothing usable", "123 456 the for", "", true},
		{"empty description", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DistinctiveKeyword(tt.description)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrNoKeyword)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Correct_LearnsRule(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	e := expense("BLUEAPRON MEALS", "")
	_, err := eng.Ingest(ctx, []model.Expense{e})
	require.NoError(t, err)

	rule, err := eng.Correct(ctx, e.ID, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "blueapron", rule.Pattern)
	assert.Equal(t, model.RuleSourceFeedback, rule.Source)

	// The expense itself is re-labeled.
	got, err := eng.storage.GetExpenseByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)

	// Learning idempotence: an identical description now categorizes as
	// the corrected category.
	assert.Equal(t, "Groceries", eng.Categorize(expense("BLUEAPRON MEALS", "")))
}

func TestEngine_Correct_Idempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	e := expense("BLUEAPRON MEALS", "")
	_, err := eng.Ingest(ctx, []model.Expense{e})
	require.NoError(t, err)

	first, err := eng.Correct(ctx, e.ID, "Groceries")
	require.NoError(t, err)

	second, err := eng.Correct(ctx, e.ID, "Groceries")
	require.NoError(t, err)

	assert.Equal(t, first.Pattern, second.Pattern)
	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, 1, countPattern(t, eng, "blueapron"))
}

func TestEngine_Correct_OverridesSeedRule(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// "bus" seed rule would put this in Transport.
	e := expense("BUSBOYS AND POETS", "")
	_, err := eng.Ingest(ctx, []model.Expense{e})
	require.NoError(t, err)

	_, err = eng.Correct(ctx, e.ID, "Food")
	require.NoError(t, err)

	// Feedback weight outranks the seed match on re-categorization.
	assert.Equal(t, "Food", eng.Categorize(expense("BUSBOYS AND POETS", "")))
}

func TestEngine_Correct_UnknownExpense(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Correct(context.Background(), "no-such-id", "Food")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEngine_Correct_EmptyCategory(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Correct(context.Background(), "any", " ")
	assert.Error(t, err)
}

func countPattern(t *testing.T, eng *Engine, pattern string) int {
	t.Helper()
	count := 0
	for _, r := range eng.Rules().Rules() {
		if r.Pattern == pattern {
			count++
		}
	}
	return count
}
