package analytics

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/jedib0t/go-pretty/v6/table"
)

const maxReportRows = 20

// CLIFormatter renders snapshots and reports for the terminal.
type CLIFormatter struct {
	styles *Styles
	money  *format.Formatter
}

// NewCLIFormatter creates a formatter. A nil money formatter means USD.
func NewCLIFormatter(money *format.Formatter) *CLIFormatter {
	if money == nil {
		money = format.Default()
	}
	return &CLIFormatter{
		styles: NewStyles(),
		money:  money,
	}
}

// FormatSnapshot renders the headline numbers, categories, budgets, scores,
// insights and recommendations of a snapshot.
func (f *CLIFormatter) FormatSnapshot(snap *Snapshot) string {
	if snap == nil || snap.TotalExpenses == 0 {
		return f.styles.Subtle.Render("No expenses to analyze yet. Add one with: spend add")
	}

	sections := []string{
		f.formatHeadline(snap),
		f.formatCategories(snap.Categories),
	}
	if len(snap.Budgets) > 0 {
		sections = append(sections, f.formatBudgets(snap.Budgets))
	}
	sections = append(sections, f.formatScores(snap.Scores), f.formatProjection(snap.Projection))
	if len(snap.Anomalies) > 0 {
		sections = append(sections, f.formatAnomalies(snap.Anomalies))
	}
	if len(snap.Insights) > 0 {
		sections = append(sections, f.FormatInsights(snap.Insights))
	}
	if len(snap.Recommendations) > 0 {
		sections = append(sections, f.FormatRecommendations(snap.Recommendations))
	}
	return strings.Join(sections, "\n\n")
}

// FormatReport renders a period report including the newest transactions.
func (f *CLIFormatter) FormatReport(r *Report) string {
	if r == nil {
		return f.styles.Error.Render("No report available")
	}

	header := f.styles.Title.Render(fmt.Sprintf("%s Expense Report", cli.ChartIcon)) + "\n" +
		f.styles.Subtle.Render(fmt.Sprintf("Period: %s", r.Period))

	summary := fmt.Sprintf("Total: %s   Expenses: %d   Average: %s   AI processed: %d",
		f.styles.Score.Render(f.money.Money(r.Summary.TotalAmount)),
		r.Summary.TotalExpenses,
		f.money.Money(r.Summary.AverageExpense),
		r.Summary.AIProcessedCount)

	sections := []string{header, summary}
	if r.Summary.TotalExpenses == 0 {
		return strings.Join(append(sections, f.styles.Subtle.Render("No expenses in this period.")), "\n\n")
	}

	sections = append(sections,
		f.formatCategories(r.Categories),
		f.formatMonthly(r.Trends.Monthly),
		f.formatTransactions(r),
	)
	if len(r.Insights) > 0 {
		sections = append(sections, f.FormatInsights(r.Insights))
	}
	if len(r.Recommendations) > 0 {
		sections = append(sections, f.FormatRecommendations(r.Recommendations))
	}
	return strings.Join(sections, "\n\n")
}

// FormatInsights renders insights in a double-bordered box.
func (f *CLIFormatter) FormatInsights(insights []Insight) string {
	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		style := f.styles.ForPriority(in.Priority)
		line := fmt.Sprintf("%s %s\n  %s", insightIcon(in.Type), style.Render(in.Title), in.Message)
		if in.Recommendation != "" {
			line += "\n  " + f.styles.Subtle.Render("→ "+in.Recommendation)
		}
		lines = append(lines, line)
	}
	title := f.styles.Info.Bold(true).Render(cli.BulbIcon + " Insights")
	return f.styles.InsightBox.Render(title + "\n" + strings.Join(lines, "\n"))
}

// FormatRecommendations renders recommendations as a table.
func (f *CLIFormatter) FormatRecommendations(recs []Recommendation) string {
	var b strings.Builder
	t := cli.NewTable(&b, table.Row{"Impact", "Recommendation", "Savings"}, 3)
	for _, r := range recs {
		savings := "-"
		if r.PotentialSavings > 0 {
			savings = cli.Highlight(f.money.Money(r.PotentialSavings))
		}
		t.AppendRow(table.Row{string(r.Impact), r.Title + "\n" + format.Truncate(r.Message, 60), savings})
	}
	t.Render()
	return f.styles.Subtitle.Render("Recommendations:") + "\n" + strings.TrimRight(b.String(), "\n")
}

func (f *CLIFormatter) formatHeadline(snap *Snapshot) string {
	title := f.styles.Title.Render(fmt.Sprintf("%s Spending Overview", cli.ChartIcon))
	line := fmt.Sprintf("Total: %s   Expenses: %d   Average: %s\nThis month: %s across %d expenses",
		f.styles.Score.Render(f.money.Money(snap.TotalAmount)),
		snap.TotalExpenses,
		f.money.Money(snap.AverageExpense),
		f.money.Money(snap.ThisMonthTotal),
		snap.ThisMonthCount)
	if snap.SavingsPotential > 0 {
		line += "\n" + f.styles.Success.Render(fmt.Sprintf("Savings potential: %s", f.money.Money(snap.SavingsPotential)))
	}
	return title + "\n" + line
}

func (f *CLIFormatter) formatCategories(stats []CategoryStat) string {
	var b strings.Builder
	t := cli.NewTable(&b, table.Row{"Category", "Count", "Total", "Average", "Share"}, 2, 3, 4, 5)
	total := 0.0
	count := 0
	for _, s := range stats {
		t.AppendRow(table.Row{string(s.Category), s.Count, f.money.Money(s.Total), f.money.Money(s.Average), f.money.Percent(s.Percentage)})
		total += s.Total
		count += s.Count
	}
	t.AppendFooter(table.Row{"Total", count, cli.Highlight(f.money.Money(total)), "", ""})
	t.Render()
	return f.styles.Subtitle.Render("Categories:") + "\n" + strings.TrimRight(b.String(), "\n")
}

func (f *CLIFormatter) formatBudgets(budgets []BudgetStatus) string {
	lines := make([]string, 0, len(budgets))
	for _, b := range budgets {
		name := "Monthly"
		if b.Category != "" {
			name = string(b.Category)
		}
		fraction := 0.0
		if b.Budget > 0 {
			fraction = b.Spent / b.Budget
		}
		style := f.styles.ForBudget(b)
		lines = append(lines, fmt.Sprintf("%-18s %s %s / %s",
			format.Truncate(name, 18),
			style.Render(RenderBar(fraction, 20)),
			f.money.Money(b.Spent),
			f.money.Money(b.Budget)))
	}
	return f.styles.Subtitle.Render("Budgets (this month):") + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatScores(s Scores) string {
	row := func(label string, score int) string {
		return fmt.Sprintf("%-12s %s %3d", label, f.styles.ForScore(score).Render(RenderBar(float64(score)/100, 20)), score)
	}
	return f.styles.Subtitle.Render(fmt.Sprintf("%s Scores:", cli.RobotIcon)) + "\n" +
		strings.Join([]string{
			row("AI score", s.AIScore),
			row("Efficiency", s.Efficiency),
			row("Performance", s.Performance),
		}, "\n")
}

func (f *CLIFormatter) formatProjection(p Projection) string {
	return f.styles.Subtitle.Render("Projection:") + "\n" +
		fmt.Sprintf("Month to date %s (day %d of %d), daily average %s\nProjected month %s, year %s, next week %s (%d%% confidence)",
			f.money.Money(p.MonthToDate), p.CurrentDay, p.DaysInMonth,
			f.money.Money(p.DailyAverage),
			f.money.Money(p.ProjectedMonthly),
			f.money.Money(p.ProjectedYearly),
			f.money.Money(p.NextWeek),
			p.Confidence)
}

func (f *CLIFormatter) formatAnomalies(anomalies []Anomaly) string {
	lines := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		lines = append(lines, f.styles.Warning.Render(fmt.Sprintf("%s %s %s: %s",
			cli.WarningIcon, f.money.Date(a.Expense.Date.Time), format.Truncate(a.Expense.Description, 30), a.Message)))
	}
	return f.styles.Subtitle.Render("Unusual expenses:") + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatMonthly(buckets []Bucket) string {
	var b strings.Builder
	t := cli.NewTable(&b, table.Row{"Month", "Count", "Total"}, 2, 3)
	for _, m := range buckets {
		t.AppendRow(table.Row{m.Label, m.Count, f.money.Money(m.Total)})
	}
	t.Render()
	return f.styles.Subtitle.Render("Monthly trend:") + "\n" + strings.TrimRight(b.String(), "\n")
}

func (f *CLIFormatter) formatTransactions(r *Report) string {
	var b strings.Builder
	t := cli.NewTable(&b, table.Row{"Date", "Description", "Category", "Amount"}, 4)
	limit := min(len(r.Transactions), maxReportRows)
	for _, e := range r.Transactions[:limit] {
		t.AppendRow(table.Row{
			f.money.Date(e.Date.Time),
			format.Truncate(e.Description, 32),
			string(e.Category),
			f.money.Money(e.Amount),
		})
	}
	t.Render()

	out := f.styles.Subtitle.Render("Transactions (newest first):") + "\n" + strings.TrimRight(b.String(), "\n")
	if len(r.Transactions) > limit {
		out += "\n" + f.styles.Subtle.Render(fmt.Sprintf("... and %d more", len(r.Transactions)-limit))
	}
	return out
}

func insightIcon(t InsightType) string {
	switch t {
	case InsightAlert:
		return "🚨"
	case InsightWarning:
		return cli.WarningIcon
	case InsightSavings:
		return cli.WalletIcon
	case InsightAchievement:
		return cli.TrophyIcon
	case InsightTrend:
		return "📈"
	default:
		return "🔍"
	}
}
