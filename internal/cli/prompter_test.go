package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/model"
)

func testExpense() model.Expense {
	return model.NewExpense(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("19.99"),
		"Mystery Vendor", "")
}

func TestPrompter_AskCategory_ByNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("2\n"), &out)

	got, err := p.AskCategory(context.Background(), testExpense(), []string{"Food", "Transport"})
	require.NoError(t, err)
	assert.Equal(t, "Transport", got)
	assert.Contains(t, out.String(), "Mystery Vendor")
}

func TestPrompter_AskCategory_FreeText(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("Hobbies\n"), &out)

	got, err := p.AskCategory(context.Background(), testExpense(), []string{"Food"})
	require.NoError(t, err)
	assert.Equal(t, "Hobbies", got)
}

func TestPrompter_AskCategory_SkipOnEmpty(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &out)

	got, err := p.AskCategory(context.Background(), testExpense(), []string{"Food"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrompter_AskCategory_RetriesOnBadNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("9\n1\n"), &out)

	got, err := p.AskCategory(context.Background(), testExpense(), []string{"Food"})
	require.NoError(t, err)
	assert.Equal(t, "Food", got)
	assert.Contains(t, out.String(), "no option 9")
}

func TestPrompter_AskCategory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("1\n"), &bytes.Buffer{})
	_, err := p.AskCategory(ctx, testExpense(), []string{"Food"})
	assert.Error(t, err)
}

func TestReader_ReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("  hello  \n"))

	got, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
