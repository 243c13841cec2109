package analytics

import (
	"time"

	"github.com/Veraticus/spendsense/internal/model"
)

// Filter narrows a collection by inclusive calendar-day range and category.
// The zero Filter keeps everything.
type Filter struct {
	Start    *time.Time
	End      *time.Time
	Category model.Category
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	return f.Start == nil && f.End == nil && f.Category == ""
}

// Match reports whether e passes the filter.
func (f Filter) Match(e *model.Expense) bool {
	day := dayKey(e.Date.Time)
	if f.Start != nil && day < dayKey(*f.Start) {
		return false
	}
	if f.End != nil && day > dayKey(*f.End) {
		return false
	}
	if f.Category != "" && model.NormalizeCategory(string(e.Category)) != model.NormalizeCategory(string(f.Category)) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, preserving order.
func (f Filter) Apply(records []model.Expense) []model.Expense {
	if f.IsZero() {
		out := make([]model.Expense, len(records))
		copy(out, records)
		return out
	}
	out := make([]model.Expense, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// dayKey orders calendar days independent of location and clock time.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
