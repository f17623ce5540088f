package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pocketpilot/ppp/internal/model"
)

// Prompter drives the interactive review of uncategorized expenses.
type Prompter struct {
	reader *Reader
	writer io.Writer
}

// NewPrompter creates a prompter over the given streams. Nil arguments
// default to stdin/stdout.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &Prompter{
		reader: NewReader(r),
		writer: w,
	}
}

// AskCategory shows one expense and asks for its category. The user can
// pick a known category by number, type a new name, or enter nothing to
// skip. An empty return value means the expense was skipped.
func (p *Prompter) AskCategory(ctx context.Context, expense model.Expense, categories []string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	content := fmt.Sprintf("Date:     %s\nMerchant: %s\nAmount:   %s",
		expense.Date.Format("2006-01-02"),
		expense.Merchant,
		expense.Amount.StringFixed(2))
	if expense.Note != "" {
		content += "\nNote:     " + expense.Note
	}
	if _, err := fmt.Fprintln(p.writer, RenderBox("Uncategorized Expense", content)); err != nil {
		return "", fmt.Errorf("failed to write expense box: %w", err)
	}

	for i, cat := range categories {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, cat); err != nil {
			return "", fmt.Errorf("failed to write category option: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("  number, new category name, or enter to skip")); err != nil {
		return "", fmt.Errorf("failed to write help line: %w", err)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Category")); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", nil
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(categories) {
			if _, err := fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("no option %d", n))); err != nil {
				return "", fmt.Errorf("failed to write warning: %w", err)
			}
			return p.AskCategory(ctx, expense, categories)
		}
		return categories[n-1], nil
	}

	return answer, nil
}
