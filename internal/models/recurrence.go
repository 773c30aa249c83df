package models

import "fmt"

// RecurrenceUnit is the calendar step of a recurrence rule.
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
	UnitYear  RecurrenceUnit = "year"
)

// ParseRecurrenceUnit maps the stored string form back to a unit.
func ParseRecurrenceUnit(s string) (RecurrenceUnit, error) {
	switch RecurrenceUnit(s) {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return RecurrenceUnit(s), nil
	}
	return "", fmt.Errorf("unknown recurrence unit %q", s)
}

// RecurrenceRule describes a fixed calendar step. Rules are immutable once
// attached to a reminder; rollover reuses the same rule for every occurrence.
type RecurrenceRule struct {
	Unit     RecurrenceUnit `json:"type"`
	Interval int            `json:"interval"`
}

// NewRecurrenceRule validates interval >= 1.
func NewRecurrenceRule(unit RecurrenceUnit, interval int) (*RecurrenceRule, error) {
	if _, err := ParseRecurrenceUnit(string(unit)); err != nil {
		return nil, err
	}
	if interval < 1 {
		return nil, fmt.Errorf("recurrence interval must be >= 1, got %d", interval)
	}
	return &RecurrenceRule{Unit: unit, Interval: interval}, nil
}

func (r *RecurrenceRule) String() string {
	if r.Interval == 1 {
		return fmt.Sprintf("Every %s", r.Unit)
	}
	return fmt.Sprintf("Every %d %ss", r.Interval, r.Unit)
}
