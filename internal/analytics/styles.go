package analytics

import (
	"strings"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used to render snapshots and reports.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	Box        lipgloss.Style
	Score      lipgloss.Style
	High       lipgloss.Style
	Medium     lipgloss.Style
	Low        lipgloss.Style
	InsightBox lipgloss.Style
}

// NewStyles creates the default styles on top of the cli palette.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.WarningColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.InfoColor)

	s.InsightBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1).
		MarginTop(1)

	return s
}

// ForPriority returns the style for an insight priority.
func (s *Styles) ForPriority(p Priority) lipgloss.Style {
	switch p {
	case PriorityHigh:
		return s.High
	case PriorityMedium:
		return s.Medium
	case PriorityLow:
		return s.Low
	default:
		return s.Normal
	}
}

// ForScore colors a 0-100 score.
func (s *Styles) ForScore(score int) lipgloss.Style {
	switch {
	case score >= 85:
		return s.Success
	case score >= 70:
		return s.Warning
	default:
		return s.Error
	}
}

// ForBudget colors a budget status: red when exceeded, yellow on alert.
func (s *Styles) ForBudget(b BudgetStatus) lipgloss.Style {
	switch {
	case b.Exceeded:
		return s.Error
	case b.Alert:
		return s.Warning
	default:
		return s.Success
	}
}

// RenderBar draws a fixed-width bar for a fraction in [0,1].
func RenderBar(fraction float64, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := int(float64(width) * fraction)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
