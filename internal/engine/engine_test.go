package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	eng, err := LoadRules(context.Background(), store)
	require.NoError(t, err)
	return eng
}

func expense(merchant, note string) model.Expense {
	return model.NewExpense(
		time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("25.00"),
		merchant, note)
}

func TestEngine_Categorize(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name string
		e    model.Expense
		want string
	}{
		{"rule pattern in merchant", expense("STARBUCKS RESERVE", ""), "Food"},
		{"rule pattern in note", expense("Card payment", "monthly netflix"), "Bills"},
		{"longest overlap wins", expense("UBEREATS DELIVERY", ""), "Food"},
		{"shorter overlap alone", expense("UBER TRIP", ""), "Transport"},
		{"no rule matches", expense("Unknown Vendor 77", ""), model.Uncategorized},
		{"empty description", expense(" ", ""), model.Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eng.Categorize(tt.e))
		})
	}
}

func TestEngine_Ingest(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	batch := []model.Expense{
		expense("Starbucks", ""),
		expense("Mystery Vendor", ""),
	}

	inserted, err := eng.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Re-ingesting the same records is a no-op.
	inserted, err = eng.Ingest(ctx, []model.Expense{expense("Starbucks", "")})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	uncat, err := eng.storage.GetUncategorizedExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, uncat, 1)
	assert.Equal(t, "Mystery Vendor", uncat[0].Merchant)
}

func TestEngine_Ingest_Empty(t *testing.T) {
	eng := newTestEngine(t)

	inserted, err := eng.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestEngine_RuleLifecycle(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddRule(ctx, "kindle", "Books", model.RuleSourceManual)
	require.NoError(t, err)
	assert.Equal(t, "Books", eng.Categorize(expense("KINDLE STORE", "")))

	// Rule survives a reload from storage.
	reloaded, err := LoadRules(ctx, eng.storage)
	require.NoError(t, err)
	assert.Equal(t, "Books", reloaded.Categorize(expense("KINDLE STORE", "")))

	require.NoError(t, eng.RemoveRule(ctx, "kindle"))
	assert.Equal(t, model.Uncategorized, eng.Categorize(expense("KINDLE STORE", "")))
}
