package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
)

// Thresholds for insight and recommendation rules.
const (
	topCategoryShare      = 30.0
	assistedRatioHigh     = 0.7
	recentVelocityFactor  = 1.2
	recentWindow          = 10
	weekendShareOfWeekday = 0.4
	spikeMultiple         = 3.0
	reasonableMonthTotal  = 1500.0
	homeCookingShare      = 0.6
	homeCookingMaxAmount  = 15.0
	underBudgetShare      = 0.8
	optimizationMinTotal  = 400.0
	lowAIRatio            = 0.5
	projectionOvershoot   = 1.2
	rebalanceFactor       = 1.5
)

// recommendedShare is the recommended percentage of total spending.
var recommendedShare = map[model.Category]float64{
	model.CategoryFood:          15,
	model.CategoryTransport:     15,
	model.CategoryShopping:      10,
	model.CategoryEntertainment: 5,
}

const defaultRecommendedShare = 10.0

// generateInsights evaluates every rule independently; any subset may fire.
func generateInsights(records []model.Expense, snap *Snapshot, a *aggregator, settings *model.Settings, money *format.Formatter) []Insight {
	insights := []Insight{}

	if top, ok := snap.TopCategory(); ok && top.Percentage > topCategoryShare {
		insights = append(insights, Insight{
			Type:           InsightPattern,
			Priority:       PriorityHigh,
			Title:          "AI Spending Pattern Detected",
			Message:        fmt.Sprintf("%s dominates your spending at %s (%.1f%%)", top.Category, money.Money(top.Total), top.Percentage),
			Recommendation: fmt.Sprintf("Set a monthly budget for %s", top.Category),
			Category:       top.Category,
		})
	}

	if snap.Scores.AssistedRatio > assistedRatioHigh {
		insights = append(insights, Insight{
			Type:     InsightAchievement,
			Priority: PriorityMedium,
			Title:    "Excellent AI Integration",
			Message:  fmt.Sprintf("Great job! %.0f%% of expenses are AI-categorized", snap.Scores.AssistedRatio*100),
		})
	}

	if recent := recentAverage(records); recent > snap.AverageExpense*recentVelocityFactor {
		insights = append(insights, Insight{
			Type:           InsightTrend,
			Priority:       PriorityMedium,
			Title:          "Spending Velocity Increase",
			Message:        fmt.Sprintf("Your last %d expenses average %s, over 20%% above your overall %s", min(recentWindow, len(records)), money.Money(recent), money.Money(snap.AverageExpense)),
			Recommendation: "Consider reviewing large purchases",
		})
	}

	b := snap.Behavior
	if b.WeekendTotal > b.WeekdayTotal*weekendShareOfWeekday {
		insights = append(insights, Insight{
			Type:           InsightPattern,
			Priority:       PriorityHigh,
			Title:          "Weekend Spending Pattern Detected",
			Message:        weekendMessage(b, money),
			Recommendation: fmt.Sprintf("Set weekend budget limit of %s", money.Money(math.Round(b.WeekendTotal*0.8))),
		})
	}

	if settings == nil || settings.AnomalyDetectionEnabled {
		spikes := 0
		for i := range records {
			if records[i].Amount > snap.AverageExpense*spikeMultiple {
				spikes++
			}
		}
		if spikes > 0 {
			insights = append(insights, Insight{
				Type:           InsightAlert,
				Priority:       PriorityMedium,
				Title:          "Unusual Spending Detected",
				Message:        fmt.Sprintf("%d transactions seem unusually high for your pattern.", spikes),
				Recommendation: "Review large transactions",
			})
		}
	}

	if opp, ok := savingsOpportunity(snap, money); ok {
		insights = append(insights, opp)
	}

	if habit, ok := goodHabit(records, a); ok {
		insights = append(insights, Insight{
			Type:     InsightAchievement,
			Priority: PriorityLow,
			Title:    "Great Financial Habit!",
			Message:  habit,
		})
	}

	if settings != nil && a.monthCount > 0 && settings.MonthlyBudget > 0 {
		used := a.monthTotal / settings.MonthlyBudget * 100
		if a.monthTotal < settings.MonthlyBudget*underBudgetShare {
			insights = append(insights, Insight{
				Type:     InsightAchievement,
				Priority: PriorityLow,
				Title:    "Under Budget",
				Message:  fmt.Sprintf("You've used %.0f%% of your %s monthly budget.", used, money.Money(settings.MonthlyBudget)),
			})
		}
		if settings.BudgetAlertsEnabled && used >= float64(settings.BudgetAlertThreshold) {
			insights = append(insights, Insight{
				Type:           InsightWarning,
				Priority:       PriorityHigh,
				Title:          "Budget Alert",
				Message:        fmt.Sprintf("You've spent %s, %.0f%% of your %s monthly budget.", money.Money(a.monthTotal), used, money.Money(settings.MonthlyBudget)),
				Recommendation: "Review budget settings",
			})
		}
	}

	return insights
}

func weekendMessage(b Behavior, money *format.Formatter) string {
	if b.WeekdayTotal <= 0 {
		return fmt.Sprintf("All of your %s spending happened on weekends.", money.Money(b.WeekendTotal))
	}
	return fmt.Sprintf("Weekend spending is %.0f%% of your weekday spending. AI suggests setting weekend alerts.", b.WeekendTotal/b.WeekdayTotal*100)
}

// recentAverage averages the newest expenses by date.
func recentAverage(records []model.Expense) float64 {
	sorted := make([]model.Expense, len(records))
	copy(sorted, records)
	SortNewestFirst(sorted)

	n := min(recentWindow, len(sorted))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range sorted[:n] {
		sum += e.Amount
	}
	return sum / float64(n)
}

// SortNewestFirst orders expenses by date descending, then id descending.
func SortNewestFirst(records []model.Expense) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date.Time) {
			return records[i].Date.After(records[j].Date.Time)
		}
		return records[i].ID > records[j].ID
	})
}

// savingsOpportunity reports the first applicable savings rule.
func savingsOpportunity(snap *Snapshot, money *format.Formatter) (Insight, bool) {
	if food, ok := snap.Category(model.CategoryFood); ok && food.Total > 400 {
		return Insight{
			Type:             InsightSavings,
			Priority:         PriorityHigh,
			Title:            "AI-Detected Savings Opportunity",
			Message:          fmt.Sprintf("You spent %s on dining. Cooking 4 more meals at home could save %s/month.", money.Money(food.Total), money.Money(120)),
			Recommendation:   "Try meal prepping on Sundays",
			Category:         model.CategoryFood,
			PotentialSavings: 120,
		}, true
	}
	if ent, ok := snap.Category(model.CategoryEntertainment); ok && ent.Total > 100 {
		return Insight{
			Type:             InsightSavings,
			Priority:         PriorityHigh,
			Title:            "AI-Detected Savings Opportunity",
			Message:          "Review streaming subscriptions. You might have overlapping services.",
			Recommendation:   "Cancel unused subscriptions",
			Category:         model.CategoryEntertainment,
			PotentialSavings: 30,
		}, true
	}
	return Insight{}, false
}

// goodHabit reports the first positive habit in the current month.
func goodHabit(records []model.Expense, a *aggregator) (string, bool) {
	if a.monthCount == 0 {
		return "", false
	}
	if a.monthTotal < reasonableMonthTotal {
		return "You're staying within a reasonable monthly budget. Keep it up!", true
	}

	ny, nm, _ := a.now.Date()
	food, small := 0, 0
	for i := range records {
		y, m, _ := records[i].Date.Date()
		if y != ny || m != nm || records[i].Category != model.CategoryFood {
			continue
		}
		food++
		if records[i].Amount < homeCookingMaxAmount {
			small++
		}
	}
	if food > 0 && float64(small) > float64(food)*homeCookingShare {
		return "You're making smart food choices with home cooking!", true
	}
	return "", false
}

// generateRecommendations evaluates every rule independently.
func generateRecommendations(snap *Snapshot, money *format.Formatter) []Recommendation {
	recs := []Recommendation{}

	if top, ok := snap.TopCategory(); ok && top.Total > optimizationMinTotal {
		recs = append(recs, Recommendation{
			Type:             RecommendOptimization,
			Impact:           ImpactHigh,
			Category:         top.Category,
			Title:            "Optimize Top Category",
			Message:          fmt.Sprintf("Consider setting a monthly budget limit for %s to optimize spending.", top.Category),
			PotentialSavings: math.Round(top.Total * 0.15),
		})
	}

	for i, stat := range snap.Categories {
		if i >= 3 {
			break
		}
		if stat.Percentage > topCategoryShare {
			recs = append(recs, Recommendation{
				Type:             RecommendBudget,
				Impact:           ImpactMedium,
				Category:         stat.Category,
				Title:            "Set a Budget Limit",
				Message:          fmt.Sprintf("Consider setting a budget limit for %s to control spending", stat.Category),
				PotentialSavings: math.Round(stat.Total * 0.10),
			})
		}
	}

	if snap.Scores.AIRatio < lowAIRatio {
		recs = append(recs, Recommendation{
			Type:    RecommendAIUsage,
			Impact:  ImpactMedium,
			Title:   "Use AI Categorization",
			Message: "Use AI categorization more often to improve expense tracking accuracy by 23%.",
		})
	}

	p := snap.Projection
	if p.MonthToDate > 0 && p.ProjectedMonthly > p.MonthToDate*projectionOvershoot {
		recs = append(recs, Recommendation{
			Type:    RecommendBudgetWarning,
			Impact:  ImpactHigh,
			Title:   "Budget Alert",
			Message: fmt.Sprintf("Your projected spending of %s is over 20%% above this month's %s so far", money.Money(p.ProjectedMonthly), money.Money(p.MonthToDate)),
		})
	}

	for _, stat := range snap.Categories {
		want, ok := recommendedShare[stat.Category]
		if !ok {
			want = defaultRecommendedShare
		}
		if stat.Percentage > want*rebalanceFactor {
			recs = append(recs, Recommendation{
				Type:               RecommendRebalance,
				Impact:             ImpactLow,
				Category:           stat.Category,
				Title:              "Rebalance Spending",
				Message:            fmt.Sprintf("Consider reducing %s spending from %.1f%% to %.0f%%", stat.Category, stat.Percentage, want),
				CurrentPercent:     stat.Percentage,
				RecommendedPercent: want,
			})
		}
	}

	for _, b := range snap.Budgets {
		if b.Category == "" || !b.Exceeded {
			continue
		}
		recs = append(recs, Recommendation{
			Type:             RecommendOverBudget,
			Impact:           ImpactHigh,
			Category:         b.Category,
			Title:            "Category Over Budget",
			Message:          fmt.Sprintf("%s is %s over its %s budget this month", b.Category, money.Money(b.Spent-b.Budget), money.Money(b.Budget)),
			PotentialSavings: math.Round(b.Spent - b.Budget),
		})
	}

	return recs
}
