package analytics

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
)

// ReportSummary holds the headline numbers of a report.
type ReportSummary struct {
	TotalAmount      float64 `json:"totalAmount"`
	AverageExpense   float64 `json:"averageExpense"`
	TotalExpenses    int     `json:"totalExpenses"`
	AIProcessedCount int     `json:"aiProcessedCount"`
}

// Report is a printable period summary.
type Report struct {
	GeneratedAt     time.Time        `json:"generatedAt"`
	Period          string           `json:"period"`
	Summary         ReportSummary    `json:"summary"`
	Categories      []CategoryStat   `json:"categoryBreakdown"`
	Trends          Trends           `json:"trends"`
	Transactions    []model.Expense  `json:"transactions"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Scores          Scores           `json:"scores"`
	Projection      Projection       `json:"projection"`
}

// BuildReport analyzes the filtered records and lists them newest first.
func BuildReport(records []model.Expense, filter Filter, opts Options) *Report {
	snap := Analyze(records, filter, opts)

	txns := filter.Apply(records)
	for i := range txns {
		txns[i].Category = model.NormalizeCategory(string(txns[i].Category))
	}
	SortNewestFirst(txns)

	return &Report{
		GeneratedAt: snap.GeneratedAt,
		Period:      periodLabel(filter, txns),
		Summary: ReportSummary{
			TotalAmount:      snap.TotalAmount,
			TotalExpenses:    snap.TotalExpenses,
			AverageExpense:   snap.AverageExpense,
			AIProcessedCount: snap.AIProcessed,
		},
		Categories:      snap.Categories,
		Trends:          snap.Trends,
		Transactions:    txns,
		Insights:        snap.Insights,
		Recommendations: snap.Recommendations,
		Scores:          snap.Scores,
		Projection:      snap.Projection,
	}
}

// periodLabel uses the filter bounds when set, else the span of the data.
func periodLabel(filter Filter, newestFirst []model.Expense) string {
	var start, end string
	if filter.Start != nil {
		start = filter.Start.Format(DailyLayout)
	}
	if filter.End != nil {
		end = filter.End.Format(DailyLayout)
	}
	if len(newestFirst) > 0 {
		if start == "" {
			start = newestFirst[len(newestFirst)-1].Date.String()
		}
		if end == "" {
			end = newestFirst[0].Date.String()
		}
	}
	if start == "" && end == "" {
		return "all time"
	}
	if start == "" {
		start = "beginning"
	}
	if end == "" {
		end = "today"
	}
	return fmt.Sprintf("%s to %s", start, end)
}
