package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRange is returned for an unrecognised range preset.
var ErrUnknownRange = errors.New("unknown range")

// Range presets accepted by RangeFor.
const (
	RangeThisWeek    = "this-week"
	RangeThisMonth   = "this-month"
	RangeLastMonth   = "last-month"
	RangeLast3Months = "last-3-months"
	RangeThisYear    = "this-year"
	RangeAll         = "all"
)

// RangePresets lists presets in display order.
var RangePresets = []string{RangeThisWeek, RangeThisMonth, RangeLastMonth, RangeLast3Months, RangeThisYear, RangeAll}

// RangeFor resolves a preset relative to now into a date filter.
// last-3-months starts on the first day of the month three months back.
func RangeFor(preset string, now time.Time) (Filter, error) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	var start, end time.Time
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case RangeAll, "":
		return Filter{}, nil
	case RangeThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 6)
	case RangeThisMonth, "thismonth":
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, -1)
	case RangeLastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m, 0, 0, 0, 0, 0, loc)
	case RangeLast3Months, "last3months":
		start = time.Date(y, m-3, 1, 0, 0, 0, 0, loc)
		end = today
	case RangeThisYear:
		start = time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, 12, 31, 0, 0, 0, 0, loc)
	default:
		return Filter{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownRange, preset, strings.Join(RangePresets, ", "))
	}

	return Filter{Start: &start, End: &end}, nil
}

// DateRange builds a filter from optional "2006-01-02" bounds.
func DateRange(from, to string) (Filter, error) {
	var f Filter
	if from != "" {
		t, err := time.ParseInLocation(DailyLayout, from, time.Local)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid start date %q: %w", from, err)
		}
		f.Start = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(DailyLayout, to, time.Local)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid end date %q: %w", to, err)
		}
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return Filter{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return f, nil
}
