// Package recurrence computes the next occurrence of a fixed-interval
// calendar step and bridges rules to RFC 5545 RRULE text.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"remindbot/internal/models"
)

// Next returns the occurrence that follows from. Total for any valid rule.
//
// Month and year steps keep the day-of-month and clock time. When the target
// month is too short for the anchor day, the day is clamped to the last valid
// day of that month (2024-01-31 +1 month -> 2024-02-29, Feb 29 +1 year ->
// Feb 28). This differs from time.AddDate, which would normalize Feb 31 into
// early March.
func Next(rule *models.RecurrenceRule, from time.Time) time.Time {
	switch rule.Unit {
	case models.UnitDay:
		return from.AddDate(0, 0, rule.Interval)
	case models.UnitWeek:
		return from.AddDate(0, 0, rule.Interval*7)
	case models.UnitMonth:
		months := int(from.Month()) - 1 + rule.Interval
		year := from.Year() + months/12
		month := time.Month(months%12 + 1)
		return time.Date(year, month, clampDay(from.Day(), year, month),
			from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	case models.UnitYear:
		year := from.Year() + rule.Interval
		return time.Date(year, from.Month(), clampDay(from.Day(), year, from.Month()),
			from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	}
	return from
}

func clampDay(day, year int, month time.Month) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

// daysIn exploits day-zero normalization: day 0 of the next month is the
// last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var freqNames = map[models.RecurrenceUnit]string{
	models.UnitDay:   "DAILY",
	models.UnitWeek:  "WEEKLY",
	models.UnitMonth: "MONTHLY",
	models.UnitYear:  "YEARLY",
}

// RRuleString renders a rule as an RFC 5545 RRULE body, e.g.
// "FREQ=WEEKLY;INTERVAL=2".
func RRuleString(rule *models.RecurrenceRule) string {
	s := "FREQ=" + freqNames[rule.Unit]
	if rule.Interval > 1 {
		s += fmt.Sprintf(";INTERVAL=%d", rule.Interval)
	}
	return s
}

// ParseRRule converts RRULE text back into a rule. Only the four
// fixed-interval frequencies are representable; anything else is rejected.
func ParseRRule(text string) (*models.RecurrenceRule, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "RRULE:")

	opt, err := rrule.StrToROption(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	var unit models.RecurrenceUnit
	switch opt.Freq {
	case rrule.DAILY:
		unit = models.UnitDay
	case rrule.WEEKLY:
		unit = models.UnitWeek
	case rrule.MONTHLY:
		unit = models.UnitMonth
	case rrule.YEARLY:
		unit = models.UnitYear
	default:
		return nil, fmt.Errorf("unsupported RRULE frequency in %q", text)
	}

	interval := opt.Interval
	if interval == 0 {
		interval = 1
	}
	return models.NewRecurrenceRule(unit, interval)
}
