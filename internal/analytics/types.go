// Package analytics aggregates expense collections into totals, trends,
// projections, scores and threshold-triggered insights.
package analytics

import (
	"time"

	"github.com/Veraticus/spendsense/internal/model"
)

// InsightType classifies an insight.
type InsightType string

// Insight types.
const (
	InsightPattern     InsightType = "pattern"
	InsightAlert       InsightType = "alert"
	InsightSavings     InsightType = "savings"
	InsightAchievement InsightType = "achievement"
	InsightTrend       InsightType = "trend"
	InsightWarning     InsightType = "warning"
)

// Priority orders insights for display.
type Priority string

// Priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RecommendationType classifies a recommendation.
type RecommendationType string

// Recommendation types.
const (
	RecommendOptimization  RecommendationType = "optimization"
	RecommendBudget        RecommendationType = "budget"
	RecommendAIUsage       RecommendationType = "ai_usage"
	RecommendBudgetWarning RecommendationType = "budget_warning"
	RecommendRebalance     RecommendationType = "rebalance"
	RecommendOverBudget    RecommendationType = "category_budget"
)

// Impact of acting on a recommendation.
type Impact string

// Impacts.
const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// TimeOfDay buckets an expense by local hour.
type TimeOfDay string

// Time-of-day bands: morning [6,12), afternoon [12,17), evening [17,22),
// night otherwise.
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimesOfDay lists the bands in display order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// CategoryStat aggregates one category.
type CategoryStat struct {
	Category      model.Category `json:"category"`
	Total         float64        `json:"total"`
	Average       float64        `json:"average"`
	Percentage    float64        `json:"percentage"`
	AvgConfidence float64        `json:"avgConfidence"`
	Count         int            `json:"count"`
}

// Bucket is a running sum for one trend period.
type Bucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Total float64   `json:"total"`
	Count int       `json:"count"`
}

// Trends groups spending by day, week of month and month.
type Trends struct {
	Daily   []Bucket `json:"daily"`
	Weekly  []Bucket `json:"weekly"`
	Monthly []Bucket `json:"monthly"`
}

// Behavior splits spending by weekday/weekend and time of day.
type Behavior struct {
	TimeOfDay     map[TimeOfDay]float64 `json:"timeOfDay"`
	WeeklyPattern map[int]float64       `json:"weeklyPattern"`
	WeekdayTotal  float64               `json:"weekdayTotal"`
	WeekendTotal  float64               `json:"weekendTotal"`
	WeekdayCount  int                   `json:"weekdayCount"`
	WeekendCount  int                   `json:"weekendCount"`
}

// Projection is a naive linear extrapolation of month-to-date spending.
type Projection struct {
	CategoryPredictions map[model.Category]float64 `json:"categoryPredictions"`
	MonthToDate         float64                    `json:"monthToDate"`
	DailyAverage        float64                    `json:"dailyAverage"`
	ProjectedMonthly    float64                    `json:"projectedMonthly"`
	ProjectedYearly     float64                    `json:"projectedYearly"`
	NextWeek            float64                    `json:"nextWeek"`
	CurrentDay          int                        `json:"currentDay"`
	DaysInMonth         int                        `json:"daysInMonth"`
	RemainingDays       int                        `json:"remainingDays"`
	Confidence          int                        `json:"confidence"`
}

// Scores are presentation metrics, each clamped to [0,100].
type Scores struct {
	AIRatio       float64 `json:"aiRatio"`
	AssistedRatio float64 `json:"assistedRatio"`
	AIScore       int     `json:"aiScore"`
	Efficiency    int     `json:"efficiency"`
	Performance   int     `json:"performance"`
}

// Insight is a threshold-triggered observation.
type Insight struct {
	Type             InsightType    `json:"type"`
	Priority         Priority       `json:"priority"`
	Title            string         `json:"title"`
	Message          string         `json:"message"`
	Recommendation   string         `json:"recommendation,omitempty"`
	Category         model.Category `json:"category,omitempty"`
	PotentialSavings float64        `json:"potentialSavings,omitempty"`
}

// Recommendation is an actionable suggestion, optionally with a savings estimate.
type Recommendation struct {
	Type               RecommendationType `json:"type"`
	Impact             Impact             `json:"impact"`
	Category           model.Category     `json:"category,omitempty"`
	Title              string             `json:"title"`
	Message            string             `json:"message"`
	PotentialSavings   float64            `json:"potentialSavings,omitempty"`
	CurrentPercent     float64            `json:"currentPercent,omitempty"`
	RecommendedPercent float64            `json:"recommendedPercent,omitempty"`
}

// Anomaly flags an unusually large expense.
type Anomaly struct {
	Message  string        `json:"message"`
	Expense  model.Expense `json:"expense"`
	Multiple float64       `json:"multiple"`
}

// BudgetStatus compares this month's spending against a budget.
type BudgetStatus struct {
	Category model.Category `json:"category,omitempty"`
	Budget   float64        `json:"budget"`
	Spent    float64        `json:"spent"`
	Percent  float64        `json:"percent"`
	Alert    bool           `json:"alert"`
	Exceeded bool           `json:"exceeded"`
}

// Snapshot is the full result of Analyze.
type Snapshot struct {
	GeneratedAt        time.Time                  `json:"generatedAt"`
	BudgetOptimization map[model.Category]float64 `json:"budgetOptimization"`
	Behavior           Behavior                   `json:"behavior"`
	Trends             Trends                     `json:"trends"`
	Categories         []CategoryStat             `json:"categories"`
	Insights           []Insight                  `json:"insights"`
	Recommendations    []Recommendation           `json:"recommendations"`
	Anomalies          []Anomaly                  `json:"anomalies"`
	Budgets            []BudgetStatus             `json:"budgets"`
	Projection         Projection                 `json:"projection"`
	Scores             Scores                     `json:"scores"`
	TotalAmount        float64                    `json:"totalAmount"`
	AverageExpense     float64                    `json:"averageExpense"`
	ThisMonthTotal     float64                    `json:"thisMonthTotal"`
	SavingsPotential   float64                    `json:"savingsPotential"`
	TotalExpenses      int                        `json:"totalExpenses"`
	ThisMonthCount     int                        `json:"thisMonthCount"`
	AIProcessed        int                        `json:"aiProcessed"`
}

// Category returns the stats for c, if any expense fell into it.
func (s *Snapshot) Category(c model.Category) (CategoryStat, bool) {
	for _, stat := range s.Categories {
		if stat.Category == c {
			return stat, true
		}
	}
	return CategoryStat{}, false
}

// TopCategory returns the category with the highest total.
func (s *Snapshot) TopCategory() (CategoryStat, bool) {
	if len(s.Categories) == 0 {
		return CategoryStat{}, false
	}
	return s.Categories[0], true
}
