package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/spendsense/internal/model"
)

// ErrTooManyAttempts is returned when the user keeps entering invalid choices.
var ErrTooManyAttempts = errors.New("too many invalid choices")

const maxPromptAttempts = 3

// Decision is the outcome of reviewing a category suggestion.
type Decision struct {
	Category model.Category
	Accepted bool
}

// Prompter asks the user to review category suggestions on the terminal.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// ConfirmSuggestion shows the suggestion for e and lets the user accept it,
// pick another category, or keep the category already on the expense.
func (p *Prompter) ConfirmSuggestion(ctx context.Context, e model.Expense, s model.Suggestion) (Decision, error) {
	if _, err := fmt.Fprintln(p.writer, RenderBox("Category Suggestion", p.describe(e, s))); err != nil {
		return Decision{}, fmt.Errorf("failed to write suggestion box: %w", err)
	}

	current := e.Category
	if current == "" {
		current = model.CategoryOther
	}

	options := fmt.Sprintf("  [A] Accept suggestion: %s\n", SuccessStyle.Render(string(s.Category))) +
		"  [C] Choose a different category\n" +
		fmt.Sprintf("  [K] Keep %s\n", current)
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Options:")+"\n"+options); err != nil {
		return Decision{}, fmt.Errorf("failed to write options: %w", err)
	}

	choice, err := p.promptChoice(ctx, "Choice", []string{"a", "c", "k"}, "a")
	if err != nil {
		return Decision{}, err
	}

	switch choice {
	case "a":
		return Decision{Category: s.Category, Accepted: true}, nil
	case "c":
		category, err := p.ChooseCategory(ctx)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Category: category, Accepted: category == s.Category}, nil
	default:
		return Decision{Category: current}, nil
	}
}

// ChooseCategory lists the fixed categories and reads a number.
func (p *Prompter) ChooseCategory(ctx context.Context) (model.Category, error) {
	categories := model.Categories()

	var b strings.Builder
	for i, c := range categories {
		fmt.Fprintf(&b, "  %2d. %s\n", i+1, c)
	}
	if _, err := fmt.Fprint(p.writer, b.String()); err != nil {
		return "", fmt.Errorf("failed to write category list: %w", err)
	}

	valid := make([]string, len(categories))
	for i := range categories {
		valid[i] = strconv.Itoa(i + 1)
	}
	choice, err := p.promptChoice(ctx, "Category number", valid, "")
	if err != nil {
		return "", err
	}
	n, _ := strconv.Atoi(choice)
	return categories[n-1], nil
}

// Confirm asks a yes/no question. An empty answer means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	choice, err := p.promptChoice(ctx, question+" [y/N]", []string{"y", "yes", "n", "no"}, "n")
	if err != nil {
		return false, err
	}
	return choice == "y" || choice == "yes", nil
}

func (p *Prompter) describe(e model.Expense, s model.Suggestion) string {
	details := fmt.Sprintf("%s Details:\n", InfoIcon) +
		fmt.Sprintf("  Description: %s\n", e.Description) +
		fmt.Sprintf("  Amount: %.2f\n", e.Amount)
	if !e.Date.IsZero() {
		details += fmt.Sprintf("  Date: %s\n", e.Date.Format("Jan 2, 2006"))
	}
	if e.Merchant != "" {
		details += fmt.Sprintf("  Merchant: %s\n", e.Merchant)
	}

	suggestion := fmt.Sprintf("\n%s Suggestion: %s (%d%% confidence)\n", RobotIcon, s.Category, s.Confidence)
	if s.Subcategory != "" {
		suggestion += fmt.Sprintf("  Subcategory: %s\n", s.Subcategory)
	}
	suggestion += SubtleStyle.Render("  "+s.Reason) + "\n"

	return details + suggestion
}

// promptChoice reads until the answer is one of valid. An empty answer
// selects def when def is non-empty.
func (p *Prompter) promptChoice(ctx context.Context, prompt string, valid []string, def string) (string, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) && def != "" {
				return def, nil
			}
			return "", err
		}

		answer := strings.ToLower(line)
		if answer == "" && def != "" {
			return def, nil
		}
		for _, v := range valid {
			if answer == v {
				return answer, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("Invalid choice %q", line))); err != nil {
			return "", fmt.Errorf("failed to write error: %w", err)
		}
	}
	return "", ErrTooManyAttempts
}
