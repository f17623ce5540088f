package rules

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/model"
)

func TestStore_Lookup(t *testing.T) {
	tests := []struct {
		name         string
		rules        []model.Rule
		description  string
		wantCategory string
		wantMatch    bool
	}{
		{
			name: "simple substring match",
			rules: []model.Rule{
				{Pattern: "starbucks", Category: "Food"},
			},
			description:  "STARBUCKS #1234 SEATTLE",
			wantCategory: "Food",
			wantMatch:    true,
		},
		{
			name: "case insensitive pattern",
			rules: []model.Rule{
				{Pattern: "NETFLIX", Category: "Bills"},
			},
			description:  "netflix monthly",
			wantCategory: "Bills",
			wantMatch:    true,
		},
		{
			name: "no match returns false",
			rules: []model.Rule{
				{Pattern: "uber", Category: "Transport"},
			},
			description: "corner bakery",
			wantMatch:   false,
		},
		{
			name:        "empty description never matches",
			rules:       []model.Rule{{Pattern: "rent", Category: "Rent"}},
			description: "",
			wantMatch:   false,
		},
		{
			name: "longest pattern wins on overlap",
			rules: []model.Rule{
				{Pattern: "uber", Category: "Transport"},
				{Pattern: "ubereats", Category: "Food"},
			},
			description:  "UBEREATS ORDER 42",
			wantCategory: "Food",
			wantMatch:    true,
		},
		{
			name: "equal length resolves to newest rule",
			rules: []model.Rule{
				{Pattern: "cafe", Category: "Food"},
				{Pattern: "safe", Category: "Bills"},
			},
			description:  "safecafe store",
			wantCategory: "Bills",
			wantMatch:    true,
		},
		{
			name: "higher weight beats longer pattern",
			rules: []model.Rule{
				{Pattern: "grocery outlet", Category: "Groceries", Weight: model.WeightSeed},
				{Pattern: "outlet", Category: "Shopping", Weight: model.WeightFeedback},
			},
			description:  "grocery outlet 99",
			wantCategory: "Shopping",
			wantMatch:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.rules)

			rule, ok := store.Lookup(tt.description)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantCategory, rule.Category)
			}
		})
	}
}

func TestStore_AddRule(t *testing.T) {
	store := NewStore(nil)

	rule, err := store.AddRule("  Gym  ", "Health", model.RuleSourceManual)
	require.NoError(t, err)
	assert.Equal(t, "gym", rule.Pattern)
	assert.Equal(t, model.WeightManual, rule.Weight)

	// Visible to subsequent lookups immediately.
	got, ok := store.Lookup("GYM MEMBERSHIP")
	require.True(t, ok)
	assert.Equal(t, "Health", got.Category)

	// Same pattern replaces, not duplicates.
	_, err = store.AddRule("gym", "Fitness", model.RuleSourceFeedback)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	got, ok = store.Lookup("gym membership")
	require.True(t, ok)
	assert.Equal(t, "Fitness", got.Category)
}

func TestStore_AddRule_Invalid(t *testing.T) {
	store := NewStore(nil)

	_, err := store.AddRule("", "Food", model.RuleSourceManual)
	assert.Error(t, err)

	_, err = store.AddRule("coffee", "  ", model.RuleSourceManual)
	assert.Error(t, err)
}

func TestStore_RemoveRule(t *testing.T) {
	store := NewStore([]model.Rule{{Pattern: "taxi", Category: "Transport"}})

	require.NoError(t, store.RemoveRule("taxi"))
	_, ok := store.Lookup("taxi to airport")
	assert.False(t, ok)

	err := store.RemoveRule("taxi")
	assert.ErrorContains(t, err, "not found")
}

func TestStore_ConcurrentLookups(t *testing.T) {
	store := NewStore(DefaultRules())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, err := store.AddRule(fmt.Sprintf("vendor-%d", n), "Misc", model.RuleSourceManual)
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Lookup("starbucks reserve")
			}
		}()
	}
	wg.Wait()

	rule, ok := store.Lookup("starbucks reserve")
	require.True(t, ok)
	assert.Equal(t, "Food", rule.Category)
}

func TestDefaultRules(t *testing.T) {
	store := NewStore(DefaultRules())

	rule, ok := store.Lookup("monthly rent transfer")
	require.True(t, ok)
	assert.Equal(t, "Rent", rule.Category)

	// Stable IDs across constructions.
	again := NewStore(DefaultRules())
	first, second := store.Rules(), again.Rules()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Pattern, second[i].Pattern)
		assert.Equal(t, first[i].Category, second[i].Category)
	}
}
