package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/export"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against dbPath with input on stdin.
func runCLI(t *testing.T, dbPath, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SPEND_STORE_SEED_SAMPLES", "false")
	t.Setenv("SPEND_RECEIPT_STAGE_INTERVAL", "0s")
	t.Setenv("SPENDSENSE_DB", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "spend.db")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, testDB(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "spend version dev")
}

func TestAddAndList(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "", "add", "Electric bill", "120.50", "--category", "Bills & Utilities", "--date", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Electric bill: $120.50 in Bills & Utilities")

	out, err = runCLI(t, db, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Electric bill")
	assert.Contains(t, out, "$120.50")
	assert.Contains(t, out, "1 expenses")

	out, err = runCLI(t, db, "", "list", "--search", "groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found.")
}

func TestAdd_AutoAppliesConfidentSuggestion(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "", "add", "Starbucks coffee", "$5.75")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Starbucks coffee: $5.75 in Food & Dining")
}

func TestAdd_SuggestionsOff(t *testing.T) {
	db := testDB(t)

	_, err := runCLI(t, db, "", "settings", "set", "aiEnabled", "false")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "add", "Starbucks coffee", "5.75")
	require.NoError(t, err)
	assert.Contains(t, out, "in Other")
}

func TestAdd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "amount", args: []string{"add", "Lunch", "twelve"}, want: `Invalid amount "twelve"`},
		{name: "category", args: []string{"add", "Lunch", "12", "--category", "Snacks"}, want: `Unknown category "Snacks"`},
		{name: "date", args: []string{"add", "Lunch", "12", "--category", "Other", "--date", "June 1"}, want: `Invalid date "June 1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, testDB(t), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, common.UserMessage(err), tt.want)
		})
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "", "add", "Movie night", "18", "--category", "Entertainment")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "export", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	id := strings.Split(lines[1], ",")[0]

	out, err = runCLI(t, db, "n\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Kept.")

	out, err = runCLI(t, db, "", "delete", id, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Movie night"`)

	_, err = runCLI(t, db, "", "delete", id, "--force")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEdit(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "", "add", "Taxi", "30", "--category", "Other")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "export")
	require.NoError(t, err)
	id := strings.Split(strings.Split(strings.TrimSpace(out), "\n")[1], ",")[0]

	out, err = runCLI(t, db, "", "edit", id, "--category", "Transportation", "--amount", "32.10")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated "+id+": Taxi, $32.10 in Transportation")

	out, err = runCLI(t, db, "", "edit", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to change")
}

func TestSettings(t *testing.T) {
	db := testDB(t)

	_, err := runCLI(t, db, "", "settings", "set", "monthlyBudget", "2500")
	require.NoError(t, err)
	_, err = runCLI(t, db, "", "settings", "set", "categoryBudgets.Food & Dining", "650")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "settings", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "monthlyBudget: 2500")
	assert.Contains(t, out, "Food & Dining: 650")

	_, err = runCLI(t, db, "", "settings", "set", "colour", "blue")
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), `Unknown setting "colour"`)

	_, err = runCLI(t, db, "", "settings", "set", "aiConfidenceThreshold", "140")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidPercent)

	_, err = runCLI(t, db, "", "settings", "reset", "--force")
	require.NoError(t, err)
	out, err = runCLI(t, db, "", "settings", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"monthlyBudget": 2000`)
}

func TestSettings_ExportImport(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")

	_, err := runCLI(t, db, "", "settings", "set", "currency", "EUR")
	require.NoError(t, err)
	_, err = runCLI(t, db, "", "settings", "export", path)
	require.NoError(t, err)

	other := testDB(t)
	_, err = runCLI(t, other, "", "settings", "import", path)
	require.NoError(t, err)

	out, err := runCLI(t, other, "", "settings", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "currency: EUR")
}

func TestExport(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "", "add", "Groceries", "54.20", "--category", "Food & Dining", "--date", "2024-06-12")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID,Date,Description,Merchant,Category,Amount"))
	assert.Contains(t, out, "06/12/2024,Groceries")

	xlsx := filepath.Join(t.TempDir(), "out.xlsx")
	_, err = runCLI(t, db, "", "export", "--output", xlsx)
	require.NoError(t, err)
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out, err = runCLI(t, db, "", "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "4.0"`)

	_, err = runCLI(t, db, "", "settings", "set", "dataExportEnabled", "false")
	require.NoError(t, err)
	_, err = runCLI(t, db, "", "export")
	assert.ErrorIs(t, err, common.ErrExportForbidden)
}

func TestSuggest(t *testing.T) {
	out, err := runCLI(t, testDB(t), "", "suggest", "Uber to airport", "42", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"category": "Transportation"`)
}

func TestAnalyzeAndReport(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "", "analyze")
	require.NoError(t, err)

	_, err = runCLI(t, db, "", "add", "Netflix", "15.99", "--category", "Entertainment")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "analyze", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalExpenses": 1`)

	out, err = runCLI(t, db, "", "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense Report")
	assert.Contains(t, out, "Netflix")

	_, err = runCLI(t, db, "", "analyze", "--range", "fortnight")
	require.Error(t, err)
}

func TestReceipt(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "lunch.png")
	require.NoError(t, os.WriteFile(png, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...), 0o600))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("not a receipt"), 0o600))

	out, err := runCLI(t, db, "", "receipt", png, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "lunch.png")
	assert.Contains(t, out, "Dry run: nothing saved")

	out, err = runCLI(t, db, "", "receipt", png, notes)
	require.NoError(t, err)
	assert.Contains(t, out, "not an image")
	assert.Contains(t, out, "Added 1 receipt expenses")

	out, err = runCLI(t, db, "", "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalExpenses": 1`)
	assert.Contains(t, out, `"aiProcessed": 1`)
}

func TestLearn(t *testing.T) {
	db := testDB(t)
	for range 3 {
		_, err := runCLI(t, db, "", "add", "Starbucks coffee", "5.75", "--merchant", "Starbucks", "--yes")
		require.NoError(t, err)
	}

	out, err := runCLI(t, db, "", "learn")
	require.NoError(t, err)
	assert.Contains(t, out, "starbucks")
	assert.Contains(t, out, "+2")
}

func TestClear(t *testing.T) {
	db := testDB(t)
	old := time.Now().AddDate(-2, 0, 0).Format(model.DateLayout)

	_, err := runCLI(t, db, "", "add", "Old gym fee", "40", "--category", "Healthcare", "--date", old)
	require.NoError(t, err)
	_, err = runCLI(t, db, "", "add", "Bus pass", "60", "--category", "Transportation")
	require.NoError(t, err)

	out, err := runCLI(t, db, "", "clear", "--expired")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 expenses past retention")

	out, err = runCLI(t, db, "", "clear", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 expenses")
}

func TestParseHelpers(t *testing.T) {
	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.Local)

	t.Run("amount", func(t *testing.T) {
		tests := []struct {
			in   string
			want float64
		}{
			{in: "12.50", want: 12.5},
			{in: "$1,234.50", want: 1234.5},
			{in: " 0 ", want: 0},
		}
		for _, tt := range tests {
			got, err := parseAmount(tt.in)
			require.NoError(t, err, tt.in)
			assert.InDelta(t, tt.want, got, 0.001)
		}
		_, err := parseAmount("abc")
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("date", func(t *testing.T) {
		tests := []struct {
			in   string
			want string
		}{
			{in: "", want: "2024-06-12"},
			{in: "today", want: "2024-06-12"},
			{in: "Yesterday", want: "2024-06-11"},
			{in: "2024-01-31", want: "2024-01-31"},
		}
		for _, tt := range tests {
			got, err := parseDate(tt.in, now)
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got.String())
		}
	})

	t.Run("category", func(t *testing.T) {
		got, err := parseCategory("other")
		require.NoError(t, err)
		assert.Equal(t, model.CategoryOther, got)

		got, err = parseCategory("")
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = parseCategory("Snacks")
		assert.Error(t, err)
	})

	t.Run("export format", func(t *testing.T) {
		tests := []struct {
			name, flag, output string
			want               export.Format
			wantErr            bool
		}{
			{name: "default csv", want: export.FormatCSV},
			{name: "flag wins", flag: "json", output: "out.csv", want: export.FormatJSON},
			{name: "from extension", output: "report.xlsx", want: export.FormatXLSX},
			{name: "yaml refused", flag: "yaml", wantErr: true},
			{name: "unknown", output: "out.pdf", wantErr: true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := exportFormat(tt.flag, tt.output)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestApplySetting(t *testing.T) {
	base := model.DefaultSettings()

	got, err := applySetting(base, "theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)

	got, err = applySetting(base, "smartSuggestionsEnabled", "false")
	require.NoError(t, err)
	assert.False(t, got.SmartSuggestionsEnabled)

	got, err = applySetting(base, "categoryBudgets.travel", "900")
	require.NoError(t, err)
	assert.InDelta(t, 900.0, got.CategoryBudgets[model.CategoryTravel], 0.001)
	assert.InDelta(t, 500.0, got.CategoryBudgets[model.CategoryFood], 0.001)

	_, err = applySetting(base, "categoryBudgets", "1")
	assert.Error(t, err)
}
