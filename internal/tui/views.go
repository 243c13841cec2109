package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.theme.RoundedBox.Render(fmt.Sprintf("%s Loading expenses...", m.spinner.View()))
	}

	var body string
	switch {
	case m.lastError != nil:
		body = m.theme.StatusError.Render("Error: " + m.lastError.Error())
	case m.snapshot == nil || m.snapshot.TotalExpenses == 0:
		body = m.theme.Muted.Render("No expenses in this range. Add one with: spend add")
	default:
		switch m.view {
		case ViewCategories:
			body = m.renderCategories()
		case ViewExpenses:
			body = m.renderExpenses()
		case ViewInsights:
			body = m.renderInsights()
		default:
			body = m.renderOverview()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		"",
		body,
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("💰 SpendSense")
	status := m.theme.Muted.Render("range: " + m.Preset())
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	return title + "  " + status
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if View(i) == m.view {
			tabs = append(tabs, m.theme.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderOverview() string {
	s := m.snapshot
	summary := []string{
		fmt.Sprintf("Total spent     %s", m.theme.Bold.Render(m.money.Money(s.TotalAmount))),
		fmt.Sprintf("Expenses        %d", s.TotalExpenses),
		fmt.Sprintf("Average         %s", m.money.Money(s.AverageExpense)),
		fmt.Sprintf("This month      %s (%d)", m.money.Money(s.ThisMonthTotal), s.ThisMonthCount),
		fmt.Sprintf("Projected month %s", m.money.Money(s.Projection.ProjectedMonthly)),
	}
	if s.SavingsPotential > 0 {
		summary = append(summary, m.theme.StatusSuccess.Render(fmt.Sprintf("Savings potential %s", m.money.Money(s.SavingsPotential))))
	}

	scores := []string{
		m.theme.Subtitle.Render("Scores"),
		m.scoreLine("AI score", s.Scores.AIScore),
		m.scoreLine("Efficiency", s.Scores.Efficiency),
		m.scoreLine("Performance", s.Scores.Performance),
	}

	sections := []string{
		m.theme.RoundedBox.Render(strings.Join(summary, "\n")),
		m.theme.RoundedBox.Render(strings.Join(scores, "\n")),
	}
	if len(s.Budgets) > 0 {
		sections = append(sections, m.theme.RoundedBox.Render(m.renderBudgets()))
	}

	if m.width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, sections...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) scoreLine(label string, score int) string {
	return fmt.Sprintf("%-12s %s %3d", label, m.bar.ViewAs(float64(score)/100), score)
}

func (m Model) renderBudgets() string {
	lines := []string{m.theme.Subtitle.Render("Budgets")}
	for _, b := range m.snapshot.Budgets {
		name := "Monthly"
		if b.Category != "" {
			name = string(b.Category)
		}
		fraction := 0.0
		if b.Budget > 0 {
			fraction = min(1, b.Spent/b.Budget)
		}
		style := m.theme.Normal
		switch {
		case b.Exceeded:
			style = m.theme.StatusError
		case b.Alert:
			style = m.theme.StatusWarning
		}
		lines = append(lines, fmt.Sprintf("%-18s %s %s",
			format.Truncate(name, 18),
			m.bar.ViewAs(fraction),
			style.Render(fmt.Sprintf("%s / %s", m.money.Money(b.Spent), m.money.Money(b.Budget)))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCategories() string {
	lines := make([]string, 0, len(m.snapshot.Categories))
	for _, c := range m.snapshot.Categories {
		lines = append(lines, fmt.Sprintf("%s %-18s %s %10s %6s  %d",
			themes.CategoryIcon(c.Category),
			format.Truncate(string(c.Category), 18),
			m.bar.ViewAs(c.Percentage/100),
			m.money.Money(c.Total),
			m.money.Percent(c.Percentage),
			c.Count))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderExpenses() string {
	if len(m.expenses) == 0 {
		return m.theme.Muted.Render("No expenses in this range.")
	}

	end := min(len(m.expenses), m.offset+m.listHeight())
	lines := make([]string, 0, end-m.offset+1)
	for i := m.offset; i < end; i++ {
		e := m.expenses[i]
		line := fmt.Sprintf("%-10s %s %-30s %12s",
			m.money.Date(e.Date.Time),
			themes.CategoryIcon(e.Category),
			format.Truncate(e.Description, 30),
			m.money.Money(e.Amount))
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if e := m.expenses[m.cursor]; e.Merchant != "" || e.Notes != "" {
		detail := fmt.Sprintf("%s  %s", e.Category, e.Merchant)
		if e.AISuggested {
			detail += fmt.Sprintf("  (AI %d%%)", e.Confidence)
		}
		if e.Notes != "" {
			detail += "  " + e.Notes
		}
		lines = append(lines, m.theme.Muted.Render(format.Truncate(detail, max(20, m.width-2))))
	}
	lines = append(lines, m.theme.Muted.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.expenses))))
	return strings.Join(lines, "\n")
}

func (m Model) renderInsights() string {
	s := m.snapshot
	if len(s.Insights) == 0 && len(s.Recommendations) == 0 && len(s.Anomalies) == 0 {
		return m.theme.Muted.Render("Nothing notable in this range.")
	}

	var lines []string
	for _, in := range s.Insights {
		style := m.theme.StatusInfo
		switch in.Priority {
		case analytics.PriorityHigh:
			style = m.theme.StatusError
		case analytics.PriorityMedium:
			style = m.theme.StatusWarning
		}
		lines = append(lines, style.Render(in.Title), "  "+in.Message)
	}
	if len(s.Anomalies) > 0 {
		lines = append(lines, "", m.theme.Subtitle.Render("Unusual expenses"))
		for _, a := range s.Anomalies {
			lines = append(lines, fmt.Sprintf("  %s %s", format.Truncate(a.Expense.Description, 30), a.Message))
		}
	}
	if len(s.Recommendations) > 0 {
		lines = append(lines, "", m.theme.Subtitle.Render("Recommendations"))
		for _, r := range s.Recommendations {
			line := "  " + r.Title
			if r.PotentialSavings > 0 {
				line += " " + m.theme.StatusSuccess.Render("save "+m.money.Money(r.PotentialSavings))
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
