package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testExpense(merchant string, amount string, date time.Time) model.Expense {
	return model.NewExpense(date, decimal.RequireFromString(amount), merchant, "")
}

func TestMigrate_SeedsDefaultRules(t *testing.T) {
	store := newTestStorage(t)

	dbRules, err := store.GetRules(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, dbRules)

	byPattern := make(map[string]model.Rule, len(dbRules))
	for _, r := range dbRules {
		byPattern[r.Pattern] = r
	}
	assert.Equal(t, "Food", byPattern["starbucks"].Category)
	assert.Equal(t, "Rent", byPattern["rent"].Category)
	assert.Equal(t, model.RuleSourceSeed, byPattern["rent"].Source)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveExpenses_DeduplicatesByHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	e := testExpense("Starbucks", "4.75", date)

	inserted, err := store.SaveExpenses(ctx, []model.Expense{e})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// Same date/amount/merchant hashes identically even with a new ID.
	dup := testExpense("Starbucks", "4.75", date)
	inserted, err = store.SaveExpenses(ctx, []model.Expense{dup})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestSaveExpenses_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveExpenses(ctx, nil)
	assert.Error(t, err)

	_, err = store.SaveExpenses(ctx, []model.Expense{})
	assert.Error(t, err)

	missingMerchant := model.Expense{ID: "x", Date: time.Now(), Hash: "h"}
	_, err = store.SaveExpenses(ctx, []model.Expense{missingMerchant})
	assert.ErrorIs(t, err, ErrInvalidExpense)
}

func TestGetExpenses_FilterAndLimit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var expenses []model.Expense
	for i := 0; i < 5; i++ {
		e := testExpense("Uber", "12.50", base.AddDate(0, 0, i))
		e.Category = "Transport"
		expenses = append(expenses, e)
	}
	grocery := testExpense("DMart", "80.00", base)
	grocery.Category = "Groceries"
	expenses = append(expenses, grocery)

	_, err := store.SaveExpenses(ctx, expenses)
	require.NoError(t, err)

	got, err := store.GetExpenses(ctx, service.ExpenseFilter{Category: "Transport"})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	// Newest first.
	assert.True(t, got[0].Date.After(got[4].Date))

	got, err = store.GetExpenses(ctx, service.ExpenseFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAmountRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	e := testExpense("Cinema", "1234.56", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	e.Category = "Entertainment"
	_, err := store.SaveExpenses(ctx, []model.Expense{e})
	require.NoError(t, err)

	got, err := store.GetExpenseByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(e.Amount), "amount %s != %s", got.Amount, e.Amount)
}

func TestUpdateExpenseCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	e := testExpense("Corner Bakery", "6.00", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	e.Category = model.Uncategorized
	_, err := store.SaveExpenses(ctx, []model.Expense{e})
	require.NoError(t, err)

	require.NoError(t, store.UpdateExpenseCategory(ctx, e.ID, "Food"))

	got, err := store.GetExpenseByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)

	err = store.UpdateExpenseCategory(ctx, "no-such-id", "Food")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetUncategorizedExpenses(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := testExpense("Mystery Shop", "10.00", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	a.Category = model.Uncategorized
	b := testExpense("Uber", "9.00", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	b.Category = "Transport"

	_, err := store.SaveExpenses(ctx, []model.Expense{a, b})
	require.NoError(t, err)

	got, err := store.GetUncategorizedExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestRuleCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := &model.Rule{
		Pattern:  "gym",
		Category: "Health",
		Source:   model.RuleSourceManual,
		Weight:   model.WeightManual,
	}
	require.NoError(t, store.SaveRule(ctx, rule))

	// Upsert replaces the category.
	rule.Category = "Fitness"
	rule.Source = model.RuleSourceFeedback
	rule.Weight = model.WeightFeedback
	require.NoError(t, store.SaveRule(ctx, rule))

	dbRules, err := store.GetRules(ctx)
	require.NoError(t, err)
	var found *model.Rule
	for i := range dbRules {
		if dbRules[i].Pattern == "gym" {
			found = &dbRules[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Fitness", found.Category)
	assert.Equal(t, model.WeightFeedback, found.Weight)

	require.NoError(t, store.DeleteRule(ctx, "gym"))
	err = store.DeleteRule(ctx, "gym")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBudgets(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Unknown category means no limit set, not an error.
	budget, err := store.GetBudget(ctx, "Food")
	require.NoError(t, err)
	assert.Nil(t, budget)

	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		Category: "Food",
		Limit:    decimal.RequireFromString("500.00"),
	}))

	// Upsert overwrites.
	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		Category: "Food",
		Limit:    decimal.RequireFromString("650.00"),
	}))

	budget, err = store.GetBudget(ctx, "Food")
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.True(t, budget.Limit.Equal(decimal.RequireFromString("650.00")))

	all, err := store.GetBudgets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSetBudget_RejectsNegativeLimit(t *testing.T) {
	store := newTestStorage(t)

	err := store.SetBudget(context.Background(), &model.Budget{
		Category: "Food",
		Limit:    decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}
