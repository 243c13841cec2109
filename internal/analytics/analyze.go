package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
)

// Trend bucket label layouts.
const (
	DailyLayout   = "2006-01-02"
	MonthlyLayout = "Jan 2006"
)

// Options carries the clock and, optionally, user settings. Without
// settings, budget statuses are omitted and every insight rule runs.
type Options struct {
	Now      time.Time
	Settings *model.Settings
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Analyze aggregates the records that pass filter. It never fails: an
// empty collection yields a zero-valued snapshot.
func Analyze(records []model.Expense, filter Filter, opts Options) *Snapshot {
	now := opts.now()
	kept := filter.Apply(records)
	for i := range kept {
		kept[i].Category = model.NormalizeCategory(string(kept[i].Category))
	}

	snap := emptySnapshot(now)
	if len(kept) == 0 {
		return snap
	}

	money := format.Default()
	if opts.Settings != nil {
		money = format.New(*opts.Settings)
	}

	a := newAggregator(kept, now)
	a.fill(snap)

	snap.Scores = computeScores(kept, snap)
	snap.Projection = a.projection()
	snap.ThisMonthTotal = snap.Projection.MonthToDate
	snap.ThisMonthCount = a.monthCount
	snap.SavingsPotential = savingsPotential(snap)
	snap.BudgetOptimization = budgetOptimization(snap.TotalAmount)

	if opts.Settings == nil || opts.Settings.AnomalyDetectionEnabled {
		snap.Anomalies = detectAnomalies(kept, snap.AverageExpense, money)
	}
	if opts.Settings != nil {
		snap.Budgets = budgetStatuses(a, *opts.Settings)
	}

	if opts.Settings == nil || opts.Settings.PersonalizedInsights {
		snap.Insights = generateInsights(kept, snap, a, opts.Settings, money)
	}
	snap.Recommendations = generateRecommendations(snap, money)

	return snap
}

// AnalyzeJSON decodes a stored expense array and analyzes it. Malformed
// data is logged and treated as an empty collection.
func AnalyzeJSON(data []byte, filter Filter, opts Options) *Snapshot {
	var records []model.Expense
	if err := json.Unmarshal(data, &records); err != nil {
		common.LogWarn("Expense data is unreadable, analyzing empty collection", common.Fields{
			"error": err.Error(),
			"bytes": len(data),
		})
		return emptySnapshot(opts.now())
	}
	return Analyze(records, filter, opts)
}

func emptySnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		GeneratedAt:        now,
		BudgetOptimization: map[model.Category]float64{},
		Behavior: Behavior{
			TimeOfDay:     map[TimeOfDay]float64{},
			WeeklyPattern: map[int]float64{},
		},
		Trends: Trends{
			Daily:   []Bucket{},
			Weekly:  []Bucket{},
			Monthly: []Bucket{},
		},
		Projection: Projection{
			CategoryPredictions: map[model.Category]float64{},
		},
		Categories:      []CategoryStat{},
		Insights:        []Insight{},
		Recommendations: []Recommendation{},
		Anomalies:       []Anomaly{},
		Budgets:         []BudgetStatus{},
	}
}

type categoryAcc struct {
	total         float64
	confidenceSum float64
	count         int
	suggested     int
}

type aggregator struct {
	now           time.Time
	categories    map[model.Category]*categoryAcc
	monthByCat    map[model.Category]float64
	daily         map[string]*Bucket
	weekly        map[int]*Bucket
	monthly       map[string]*Bucket
	behavior      Behavior
	total         float64
	monthTotal    float64
	lastFourWeeks float64
	count         int
	monthCount    int
}

func newAggregator(records []model.Expense, now time.Time) *aggregator {
	a := &aggregator{
		now:        now,
		categories: make(map[model.Category]*categoryAcc),
		monthByCat: make(map[model.Category]float64),
		daily:      make(map[string]*Bucket),
		weekly:     make(map[int]*Bucket),
		monthly:    make(map[string]*Bucket),
		behavior: Behavior{
			TimeOfDay:     make(map[TimeOfDay]float64),
			WeeklyPattern: make(map[int]float64),
		},
	}
	for i := range records {
		a.add(&records[i])
	}
	return a
}

func (a *aggregator) add(e *model.Expense) {
	a.total += e.Amount
	a.count++

	acc, ok := a.categories[e.Category]
	if !ok {
		acc = &categoryAcc{}
		a.categories[e.Category] = acc
	}
	acc.total += e.Amount
	acc.count++
	if e.AISuggested {
		acc.suggested++
		acc.confidenceSum += float64(e.Confidence)
	}

	date := e.Date.Time
	y, m, d := date.Date()
	addTo(a.daily, date.Format(DailyLayout), time.Date(y, m, d, 0, 0, 0, 0, date.Location()), e.Amount)

	week := (d + 6) / 7
	wb, ok := a.weekly[week]
	if !ok {
		wb = &Bucket{Label: "Week " + strconv.Itoa(week), Start: date}
		a.weekly[week] = wb
	}
	if date.Before(wb.Start) {
		wb.Start = date
	}
	wb.Total += e.Amount
	wb.Count++

	addTo(a.monthly, date.Format(MonthlyLayout), time.Date(y, m, 1, 0, 0, 0, 0, date.Location()), e.Amount)

	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		a.behavior.WeekendTotal += e.Amount
		a.behavior.WeekendCount++
	default:
		a.behavior.WeekdayTotal += e.Amount
		a.behavior.WeekdayCount++
	}
	a.behavior.TimeOfDay[timeOfDay(e.Timestamp().Hour())] += e.Amount
	a.behavior.WeeklyPattern[d/7] += e.Amount

	ny, nm, _ := a.now.Date()
	if y == ny && m == nm {
		a.monthTotal += e.Amount
		a.monthCount++
		a.monthByCat[e.Category] += e.Amount
	}

	if a.now.Sub(date) <= 28*24*time.Hour {
		a.lastFourWeeks += e.Amount
	}
}

func addTo(buckets map[string]*Bucket, label string, start time.Time, amount float64) {
	b, ok := buckets[label]
	if !ok {
		b = &Bucket{Label: label, Start: start}
		buckets[label] = b
	}
	b.Total += amount
	b.Count++
}

func timeOfDay(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

func (a *aggregator) fill(snap *Snapshot) {
	snap.TotalAmount = a.total
	snap.TotalExpenses = a.count
	snap.AverageExpense = a.total / float64(max(a.count, 1))

	stats := make([]CategoryStat, 0, len(a.categories))
	for cat, acc := range a.categories {
		stat := CategoryStat{
			Category: cat,
			Total:    acc.total,
			Count:    acc.count,
			Average:  acc.total / float64(max(acc.count, 1)),
		}
		if a.total > 0 {
			stat.Percentage = acc.total / a.total * 100
		}
		if acc.suggested > 0 {
			stat.AvgConfidence = acc.confidenceSum / float64(acc.suggested)
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Category < stats[j].Category
	})
	snap.Categories = stats

	snap.Trends = Trends{
		Daily:   sortedBuckets(a.daily),
		Weekly:  weeklyBuckets(a.weekly),
		Monthly: sortedBuckets(a.monthly),
	}
	snap.Behavior = a.behavior
}

func sortedBuckets(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func weeklyBuckets(m map[int]*Bucket) []Bucket {
	weeks := make([]int, 0, len(m))
	for w := range m {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	out := make([]Bucket, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, *m[w])
	}
	return out
}

func (a *aggregator) projection() Projection {
	y, m, day := a.now.Date()
	daysInMonth := time.Date(y, m+1, 0, 0, 0, 0, 0, a.now.Location()).Day()

	p := Projection{
		MonthToDate:         a.monthTotal,
		CurrentDay:          day,
		DaysInMonth:         daysInMonth,
		RemainingDays:       daysInMonth - day,
		NextWeek:            a.lastFourWeeks / 4,
		CategoryPredictions: make(map[model.Category]float64, len(a.categories)),
		Confidence:          predictionConfidence(a.count),
	}
	p.DailyAverage = a.monthTotal / float64(day)
	p.ProjectedMonthly = p.DailyAverage * float64(daysInMonth)
	p.ProjectedYearly = p.ProjectedMonthly * 12

	for cat, acc := range a.categories {
		p.CategoryPredictions[cat] = acc.total / 3 * 1.1
	}
	return p
}

func predictionConfidence(n int) int {
	switch {
	case n < 10:
		return 40
	case n < 30:
		return 60
	case n < 50:
		return 80
	default:
		return 90
	}
}

func computeScores(records []model.Expense, snap *Snapshot) Scores {
	n := len(records)
	suggested, assisted := 0, 0
	for i := range records {
		if records[i].AISuggested {
			suggested++
		}
		if records[i].AIAssisted() {
			assisted++
		}
	}
	snap.AIProcessed = assisted

	aiRatio := float64(suggested) / float64(max(n, 1))
	assistedRatio := float64(assisted) / float64(max(n, 1))

	aiScore := 50.0
	if n > 20 {
		aiScore += 10
	}
	if n > 50 {
		aiScore += 10
	}
	aiScore += math.Min(20, aiRatio*20)
	if snap.AverageExpense < 50 {
		aiScore += 10
	}

	efficiency := 70 + aiRatio*20
	if n > 30 {
		efficiency += 10
	}
	if cats := len(snap.Categories); cats > 3 && cats < 8 {
		efficiency += 5
	}

	return Scores{
		AIRatio:       aiRatio,
		AssistedRatio: assistedRatio,
		AIScore:       clampScore(aiScore),
		Efficiency:    clampScore(efficiency),
		Performance:   clampScore(60 + assistedRatio*40),
	}
}

func clampScore(v float64) int {
	return max(0, min(100, int(math.Round(v))))
}

func detectAnomalies(records []model.Expense, average float64, money *format.Formatter) []Anomaly {
	threshold := average * 5
	anomalies := []Anomaly{}
	for i := range records {
		if records[i].Amount > threshold {
			multiple := records[i].Amount / math.Max(average, 0.01)
			anomalies = append(anomalies, Anomaly{
				Expense:  records[i],
				Multiple: multiple,
				Message:  fmt.Sprintf("Unusually high amount: %s (%.1fx your average)", money.Money(records[i].Amount), multiple),
			})
		}
	}
	return anomalies
}

func savingsPotential(snap *Snapshot) float64 {
	potential := 0.0
	if stat, ok := snap.Category(model.CategoryFood); ok && stat.Total > 500 {
		potential += 150
	}
	if stat, ok := snap.Category(model.CategoryEntertainment); ok && stat.Total > 200 {
		potential += 50
	}
	if stat, ok := snap.Category(model.CategoryShopping); ok && stat.Total > 600 {
		potential += 100
	}
	return potential
}

// budgetShares is the suggested split of total spending.
var budgetShares = []struct {
	category model.Category
	share    float64
}{
	{model.CategoryFood, 0.25},
	{model.CategoryTransport, 0.15},
	{model.CategoryShopping, 0.20},
	{model.CategoryEntertainment, 0.10},
	{model.CategoryBills, 0.20},
	{model.CategoryOther, 0.10},
}

func budgetOptimization(total float64) map[model.Category]float64 {
	out := make(map[model.Category]float64, len(budgetShares))
	for _, s := range budgetShares {
		out[s.category] = math.Round(total * s.share)
	}
	return out
}

func budgetStatuses(a *aggregator, settings model.Settings) []BudgetStatus {
	statuses := []BudgetStatus{newBudgetStatus("", settings.MonthlyBudget, a.monthTotal, settings)}
	for _, cat := range model.Categories() {
		budget, ok := settings.CategoryBudgets[cat]
		if !ok {
			continue
		}
		statuses = append(statuses, newBudgetStatus(cat, budget, a.monthByCat[cat], settings))
	}
	return statuses
}

func newBudgetStatus(cat model.Category, budget, spent float64, settings model.Settings) BudgetStatus {
	status := BudgetStatus{Category: cat, Budget: budget, Spent: spent}
	if budget > 0 {
		status.Percent = spent / budget * 100
		status.Exceeded = spent > budget
		status.Alert = settings.BudgetAlertsEnabled && status.Percent >= float64(settings.BudgetAlertThreshold)
	}
	return status
}
