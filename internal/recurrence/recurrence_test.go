package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/models"
)

func mustRule(t *testing.T, unit models.RecurrenceUnit, interval int) *models.RecurrenceRule {
	t.Helper()
	rule, err := models.NewRecurrenceRule(unit, interval)
	require.NoError(t, err)
	return rule
}

func local(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}

func TestNextDayAndWeek(t *testing.T) {
	from := local(2024, time.March, 10, 9, 0)

	assert.Equal(t, local(2024, time.March, 11, 9, 0), Next(mustRule(t, models.UnitDay, 1), from))
	assert.Equal(t, local(2024, time.March, 13, 9, 0), Next(mustRule(t, models.UnitDay, 3), from))
	assert.Equal(t, local(2024, time.March, 17, 9, 0), Next(mustRule(t, models.UnitWeek, 1), from))
	assert.Equal(t, local(2024, time.April, 7, 9, 0), Next(mustRule(t, models.UnitWeek, 4), from))
}

// Applying a day/week rule k times must equal one application with
// interval*k.
func TestNextStepAdditivity(t *testing.T) {
	from := local(2024, time.January, 31, 23, 15)

	for _, unit := range []models.RecurrenceUnit{models.UnitDay, models.UnitWeek} {
		for _, interval := range []int{1, 2, 5} {
			const k = 7
			step := mustRule(t, unit, interval)
			jump := mustRule(t, unit, interval*k)

			got := from
			for i := 0; i < k; i++ {
				got = Next(step, got)
			}
			assert.Equal(t, Next(jump, from), got, "unit=%s interval=%d", unit, interval)
		}
	}
}

func TestNextMonth(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		rule *models.RecurrenceRule
		want time.Time
	}{
		{"plain step", local(2024, time.March, 15, 9, 0), mustRule(t, models.UnitMonth, 1), local(2024, time.April, 15, 9, 0)},
		{"multi-month", local(2024, time.March, 15, 9, 0), mustRule(t, models.UnitMonth, 5), local(2024, time.August, 15, 9, 0)},
		{"year boundary", local(2024, time.November, 10, 9, 0), mustRule(t, models.UnitMonth, 3), local(2025, time.February, 10, 9, 0)},
		{"multi-year", local(2024, time.January, 10, 9, 0), mustRule(t, models.UnitMonth, 25), local(2026, time.February, 10, 9, 0)},
		// Day overflow clamps to the last valid day of the target month.
		{"clamp to leap february", local(2024, time.January, 31, 9, 0), mustRule(t, models.UnitMonth, 1), local(2024, time.February, 29, 9, 0)},
		{"clamp to plain february", local(2023, time.January, 31, 9, 0), mustRule(t, models.UnitMonth, 1), local(2023, time.February, 28, 9, 0)},
		{"clamp to 30-day month", local(2024, time.March, 31, 9, 0), mustRule(t, models.UnitMonth, 1), local(2024, time.April, 30, 9, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Next(tc.rule, tc.from))
		})
	}
}

func TestNextYear(t *testing.T) {
	assert.Equal(t,
		local(2026, time.June, 15, 9, 0),
		Next(mustRule(t, models.UnitYear, 2), local(2024, time.June, 15, 9, 0)))

	// Leap-day anchor clamps in non-leap target years, same policy as month.
	assert.Equal(t,
		local(2025, time.February, 28, 9, 0),
		Next(mustRule(t, models.UnitYear, 1), local(2024, time.February, 29, 9, 0)))
	assert.Equal(t,
		local(2028, time.February, 29, 9, 0),
		Next(mustRule(t, models.UnitYear, 4), local(2024, time.February, 29, 9, 0)))
}

func TestNextPreservesClock(t *testing.T) {
	from := time.Date(2024, time.May, 31, 23, 59, 58, 7, time.Local)
	got := Next(mustRule(t, models.UnitMonth, 1), from)

	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 59, got.Minute())
	assert.Equal(t, 58, got.Second())
	assert.Equal(t, 7, got.Nanosecond())
	assert.Equal(t, 30, got.Day()) // June has 30 days
}

func TestRRuleString(t *testing.T) {
	assert.Equal(t, "FREQ=DAILY", RRuleString(mustRule(t, models.UnitDay, 1)))
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2", RRuleString(mustRule(t, models.UnitWeek, 2)))
	assert.Equal(t, "FREQ=MONTHLY;INTERVAL=6", RRuleString(mustRule(t, models.UnitMonth, 6)))
	assert.Equal(t, "FREQ=YEARLY", RRuleString(mustRule(t, models.UnitYear, 1)))
}

func TestParseRRule(t *testing.T) {
	rule, err := ParseRRule("FREQ=WEEKLY;INTERVAL=2")
	require.NoError(t, err)
	assert.Equal(t, models.UnitWeek, rule.Unit)
	assert.Equal(t, 2, rule.Interval)

	// RRULE: prefix and default interval
	rule, err = ParseRRule("RRULE:FREQ=DAILY")
	require.NoError(t, err)
	assert.Equal(t, models.UnitDay, rule.Unit)
	assert.Equal(t, 1, rule.Interval)

	// Round trip through the string form
	for _, unit := range []models.RecurrenceUnit{models.UnitDay, models.UnitWeek, models.UnitMonth, models.UnitYear} {
		orig := mustRule(t, unit, 3)
		parsed, err := ParseRRule(RRuleString(orig))
		require.NoError(t, err)
		assert.Equal(t, orig, parsed)
	}
}

func TestParseRRuleRejectsUnsupported(t *testing.T) {
	_, err := ParseRRule("FREQ=HOURLY")
	assert.Error(t, err)

	_, err = ParseRRule("not an rrule")
	assert.Error(t, err)
}
