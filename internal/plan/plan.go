// Package plan expands a user request into the candidate calendar dates to
// attempt. Candidates exclude weekends only; exchange holidays are not
// modeled and are discovered at fetch time as no-data days.
package plan

import (
	"time"

	"nse-bhav/internal/bhav"
	"nse-bhav/internal/models"
)

// lastNBuffer is how many extra calendar days LastN walks back per
// requested day, plus a fixed pad. Approximate by design: it comfortably
// covers weekends, but a long holiday cluster can still leave fewer than n
// actual trading days in the window. Holidays resolve later as no-data.
func lastNBuffer(n int) int {
	return n*3 + 10
}

// Weekdays returns every Monday-Friday date in [start, end], ascending.
// Empty when start is after end or the range holds no weekday.
func Weekdays(start, end models.Date) []models.Date {
	var days []models.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.IsWeekday() {
			days = append(days, d)
		}
	}
	return days
}

// Single returns the one-element candidate list for a specific date.
func Single(d models.Date) []models.Date {
	return []models.Date{d}
}

// LastN returns the last n weekday candidates up to and including today.
func LastN(n int, today models.Date) []models.Date {
	if n < 1 {
		return nil
	}
	pool := Weekdays(today.AddDays(-lastNBuffer(n)), today)
	if len(pool) > n {
		pool = pool[len(pool)-n:]
	}
	return pool
}

// Range returns every weekday in [from, to], ascending.
func Range(from, to models.Date) []models.Date {
	return Weekdays(from, to)
}

// FullHistory returns every weekday from NSE inception to today.
func FullHistory(today models.Date) []models.Date {
	return Weekdays(bhav.InceptionDate, today)
}

// LargePlanThreshold is the candidate count above which callers surface a
// pre-flight advisory before starting the run.
const LargePlanThreshold = 250

// PerRequestBudget is the fixed wall-clock budget assumed per archive
// request when estimating run duration.
const PerRequestBudget = 2 * time.Second

// Estimate describes the expected cost of a run.
type Estimate struct {
	Candidates int
	Duration   time.Duration
}

// EstimateRun estimates the wall-clock cost of fetching n candidates.
func EstimateRun(n int) Estimate {
	return Estimate{
		Candidates: n,
		Duration:   time.Duration(n) * PerRequestBudget,
	}
}

// Large reports whether the plan is big enough to warrant the advisory.
// The advisory is informational only and never blocks execution.
func (e Estimate) Large() bool {
	return e.Candidates > LargePlanThreshold
}
