// Package themes holds the dashboard color schemes.
package themes

import (
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Selected      lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Border        lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

func build(primary, secondary, fg, muted, border, success, warning, errColor, info lipgloss.Color) Theme {
	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Border:    border,
		Info:      info,
		Error:     errColor,
		Warning:   warning,
		Success:   success,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
	}
}

// Dark suits dark terminals.
var Dark = build(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#a78bfa"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#3b82f6"),
)

// Light suits light terminals.
var Light = build(
	lipgloss.Color("#6d28d9"),
	lipgloss.Color("#4c1d95"),
	lipgloss.Color("#1f2937"),
	lipgloss.Color("#6b7280"),
	lipgloss.Color("#d1d5db"),
	lipgloss.Color("#047857"),
	lipgloss.Color("#b45309"),
	lipgloss.Color("#b91c1c"),
	lipgloss.Color("#1d4ed8"),
)

// Default is used when no theme is configured.
var Default = Dark

// GetTheme maps the settings theme name to a Theme. "auto" asks lipgloss
// whether the terminal background is dark.
func GetTheme(name string) Theme {
	switch name {
	case "light":
		return Light
	case "dark":
		return Dark
	case "auto":
		if lipgloss.HasDarkBackground() {
			return Dark
		}
		return Light
	default:
		return Default
	}
}

var categoryIcons = map[model.Category]string{
	model.CategoryFood:          "🍕",
	model.CategoryTransport:     "🚗",
	model.CategoryShopping:      "🛍️",
	model.CategoryEntertainment: "🎬",
	model.CategoryBills:         "💡",
	model.CategoryHealthcare:    "💊",
	model.CategoryEducation:     "📚",
	model.CategoryTravel:        "✈️",
	model.CategoryBusiness:      "💼",
	model.CategoryOther:         "📦",
}

// CategoryIcon returns an icon for a category.
func CategoryIcon(c model.Category) string {
	if icon, ok := categoryIcons[model.NormalizeCategory(string(c))]; ok {
		return icon
	}
	return "📦"
}
