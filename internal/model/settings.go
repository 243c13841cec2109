package model

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/currency"
)

// Settings validation errors.
var (
	ErrInvalidPercent    = errors.New("value must be between 0 and 100")
	ErrNegativeBudget    = errors.New("budget cannot be negative")
	ErrInvalidCurrency   = errors.New("unknown currency code")
	ErrInvalidDateFormat = errors.New("unsupported date format")
	ErrInvalidTheme      = errors.New("unsupported theme")
	ErrInvalidRetention  = errors.New("data retention must be positive")
)

// Supported display date formats.
const (
	DateFormatUS  = "MM/DD/YYYY"
	DateFormatEU  = "DD/MM/YYYY"
	DateFormatISO = "YYYY-MM-DD"
)

var dateFormatLayouts = map[string]string{
	DateFormatUS:  "01/02/2006",
	DateFormatEU:  "02/01/2006",
	DateFormatISO: "2006-01-02",
}

// Settings is the flat user configuration persisted alongside expenses.
type Settings struct {
	CategoryBudgets           map[Category]float64 `json:"categoryBudgets" yaml:"categoryBudgets"`
	Currency                  string               `json:"currency" yaml:"currency"`
	DateFormat                string               `json:"dateFormat" yaml:"dateFormat"`
	Theme                     string               `json:"theme" yaml:"theme"`
	MonthlyBudget             float64              `json:"monthlyBudget" yaml:"monthlyBudget"`
	AIConfidenceThreshold     int                  `json:"aiConfidenceThreshold" yaml:"aiConfidenceThreshold"`
	BudgetAlertThreshold      int                  `json:"budgetAlertThreshold" yaml:"budgetAlertThreshold"`
	DataRetention             int                  `json:"dataRetention" yaml:"dataRetention"`
	AIEnabled                 bool                 `json:"aiEnabled" yaml:"aiEnabled"`
	AutoCategorizationEnabled bool                 `json:"autoCategorizationEnabled" yaml:"autoCategorizationEnabled"`
	SmartSuggestionsEnabled   bool                 `json:"smartSuggestionsEnabled" yaml:"smartSuggestionsEnabled"`
	AILearningEnabled         bool                 `json:"aiLearningEnabled" yaml:"aiLearningEnabled"`
	PersonalizedInsights      bool                 `json:"personalizedInsights" yaml:"personalizedInsights"`
	BudgetAlertsEnabled       bool                 `json:"budgetAlertsEnabled" yaml:"budgetAlertsEnabled"`
	NotificationsEnabled      bool                 `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	BudgetNotifications       bool                 `json:"budgetNotifications" yaml:"budgetNotifications"`
	AIInsightNotifications    bool                 `json:"aiInsightNotifications" yaml:"aiInsightNotifications"`
	WeeklyReportsEnabled      bool                 `json:"weeklyReportsEnabled" yaml:"weeklyReportsEnabled"`
	AnomalyDetectionEnabled   bool                 `json:"anomalyDetectionEnabled" yaml:"anomalyDetectionEnabled"`
	CompactView               bool                 `json:"compactView" yaml:"compactView"`
	AnonymousAnalytics        bool                 `json:"anonymousAnalytics" yaml:"anonymousAnalytics"`
	DataExportEnabled         bool                 `json:"dataExportEnabled" yaml:"dataExportEnabled"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		AIEnabled:                 true,
		AutoCategorizationEnabled: true,
		AIConfidenceThreshold:     85,
		SmartSuggestionsEnabled:   true,
		AILearningEnabled:         true,
		PersonalizedInsights:      true,

		MonthlyBudget: 2000,
		CategoryBudgets: map[Category]float64{
			CategoryFood:          500,
			CategoryTransport:     300,
			CategoryShopping:      400,
			CategoryEntertainment: 200,
			CategoryBills:         400,
		},
		BudgetAlertsEnabled:  true,
		BudgetAlertThreshold: 80,

		NotificationsEnabled:    true,
		BudgetNotifications:     true,
		AIInsightNotifications:  true,
		WeeklyReportsEnabled:    true,
		AnomalyDetectionEnabled: true,

		Currency:    "USD",
		DateFormat:  DateFormatUS,
		Theme:       "light",
		CompactView: false,

		DataRetention:      365,
		AnonymousAnalytics: true,
		DataExportEnabled:  true,
	}
}

// Validate checks ranges and enumerated values.
func (s *Settings) Validate() error {
	if s.AIConfidenceThreshold < 0 || s.AIConfidenceThreshold > 100 {
		return fmt.Errorf("aiConfidenceThreshold: %w", ErrInvalidPercent)
	}
	if s.BudgetAlertThreshold < 0 || s.BudgetAlertThreshold > 100 {
		return fmt.Errorf("budgetAlertThreshold: %w", ErrInvalidPercent)
	}
	if s.MonthlyBudget < 0 || math.IsNaN(s.MonthlyBudget) {
		return fmt.Errorf("monthlyBudget: %w", ErrNegativeBudget)
	}
	for cat, budget := range s.CategoryBudgets {
		if budget < 0 || math.IsNaN(budget) {
			return fmt.Errorf("categoryBudgets[%s]: %w", cat, ErrNegativeBudget)
		}
	}
	if _, err := currency.ParseISO(s.Currency); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, s.Currency)
	}
	if _, ok := dateFormatLayouts[s.DateFormat]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDateFormat, s.DateFormat)
	}
	switch s.Theme {
	case "light", "dark", "auto":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, s.Theme)
	}
	if s.DataRetention <= 0 {
		return ErrInvalidRetention
	}
	return nil
}

// DateLayout returns the Go time layout for the configured display format.
func (s *Settings) DateLayout() string {
	if layout, ok := dateFormatLayouts[s.DateFormat]; ok {
		return layout
	}
	return dateFormatLayouts[DateFormatUS]
}

// BudgetFor returns the configured budget for a category, or zero.
func (s *Settings) BudgetFor(c Category) float64 {
	if s.CategoryBudgets == nil {
		return 0
	}
	return s.CategoryBudgets[c]
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.CategoryBudgets != nil {
		out.CategoryBudgets = make(map[Category]float64, len(s.CategoryBudgets))
		for k, v := range s.CategoryBudgets {
			out.CategoryBudgets[k] = v
		}
	}
	return out
}

// DecodeOverDefaults runs decode against DefaultSettings. Decoded fields
// replace the defaults wholesale: a stored categoryBudgets map is used as
// is, and the default budgets apply only when the document has none.
func DecodeOverDefaults(decode func(*Settings) error) (Settings, error) {
	s := DefaultSettings()
	s.CategoryBudgets = nil
	if err := decode(&s); err != nil {
		return Settings{}, err
	}
	if s.CategoryBudgets == nil {
		s.CategoryBudgets = DefaultSettings().CategoryBudgets
	}
	return s, nil
}
