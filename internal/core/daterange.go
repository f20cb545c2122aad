// Package core provides the transaction domain model.
//
// This file implements the Strategy Pattern for date-range filters. Each
// range (today, week, month, year) has its own strategy that computes the
// inclusive lower bound relative to a single "now".
package core

import (
	"fmt"
	"time"
)

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

type DateRange string

// IsValid reports whether r is one of the known ranges.
func (r DateRange) IsValid() bool {
	switch r {
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeYear:
		return true
	default:
		return false
	}
}

// RangeStarter computes the first calendar date included by a range.
type RangeStarter interface {
	Start(now time.Time) Date
}

// TodayStart starts at the beginning of now's day.
type TodayStart struct{}

func (TodayStart) Start(now time.Time) Date {
	return DateOf(now)
}

// WeekStart starts at the most recent FirstDay (Sunday for the zero value).
type WeekStart struct {
	FirstDay time.Weekday
}

func (w WeekStart) Start(now time.Time) Date {
	back := (int(now.Weekday()) - int(w.FirstDay) + 7) % 7
	y, m, d := now.Date()
	return DateOf(time.Date(y, m, d-back, 0, 0, 0, 0, now.Location()))
}

// MonthStart starts on the first day of now's month.
type MonthStart struct{}

func (MonthStart) Start(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), 1)
}

// YearStart starts on January 1st of now's year.
type YearStart struct{}

func (YearStart) Start(now time.Time) Date {
	return NewDate(now.Year(), 1, 1)
}

// rangeStrategies maps bounded ranges to their starters. RangeAll has no
// lower bound and is intentionally absent.
var rangeStrategies = map[DateRange]RangeStarter{
	RangeToday: TodayStart{},
	RangeWeek:  WeekStart{FirstDay: time.Sunday},
	RangeMonth: MonthStart{},
	RangeYear:  YearStart{},
}

// GetRangeStarter returns the starter for a bounded range.
func GetRangeStarter(r DateRange) (RangeStarter, error) {
	s, ok := rangeStrategies[r]
	if !ok {
		return nil, fmt.Errorf("unbounded or unknown date range: %s", r)
	}
	return s, nil
}
