package plan

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"nse-bhav/internal/models"
)

// Property: Weekdays never yields a Saturday or Sunday, the output is
// strictly ascending, and every date lies inside the requested range.
func TestProperty_WeekdaysWellFormed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	base := models.NewDate(2020, time.January, 1)

	properties.Property("weekdays only, ascending, in range", prop.ForAll(
		func(startOffset, span int) bool {
			start := base.AddDays(startOffset)
			end := start.AddDays(span)

			days := Weekdays(start, end)
			for i, d := range days {
				if !d.IsWeekday() {
					return false
				}
				if d.Before(start) || d.After(end) {
					return false
				}
				if i > 0 && !days[i-1].Before(d) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 3650), gen.IntRange(0, 120),
	))

	properties.Property("last-n yields at most n and ends on the newest weekday", prop.ForAll(
		func(n, todayOffset int) bool {
			today := base.AddDays(todayOffset)

			days := LastN(n, today)
			if len(days) > n {
				return false
			}
			if len(days) == 0 {
				return false
			}
			last := days[len(days)-1]
			if last.After(today) {
				return false
			}
			// nothing between the last candidate and today is a weekday
			for d := last.AddDays(1); !d.After(today); d = d.AddDays(1) {
				if d.IsWeekday() {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 30), gen.IntRange(0, 3650),
	))

	properties.TestingRun(t)
}
