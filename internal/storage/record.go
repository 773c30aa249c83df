package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"remindbot/internal/models"
)

// wireTimeLayout is ISO-8601 without an offset: instants are naive local
// wall-clock values, matching the stored representation of the original data
// files.
const wireTimeLayout = "2006-01-02T15:04:05"

type ruleRecord struct {
	Type     string `json:"type"`
	Interval int    `json:"interval"`
}

// reminderRecord is the flat wire form of a reminder. The "id" field is
// additive: files written before IDs existed load fine and get fresh ones.
type reminderRecord struct {
	ID             string      `json:"id,omitempty"`
	Title          string      `json:"title"`
	Datetime       string      `json:"datetime"`
	Description    *string     `json:"description"`
	IsRecurring    bool        `json:"is_recurring"`
	RecurrenceRule *ruleRecord `json:"recurrence_rule"`
	Completed      bool        `json:"completed"`
}

func encodeReminder(r *models.Reminder) reminderRecord {
	rec := reminderRecord{
		ID:          r.ID.String(),
		Title:       r.Title,
		Datetime:    r.ScheduledAt.Format(wireTimeLayout),
		IsRecurring: r.RecurrenceRule != nil,
		Completed:   r.Completed,
	}
	if r.Description != "" {
		desc := r.Description
		rec.Description = &desc
	}
	if r.RecurrenceRule != nil {
		rec.RecurrenceRule = &ruleRecord{
			Type:     string(r.RecurrenceRule.Unit),
			Interval: r.RecurrenceRule.Interval,
		}
	}
	return rec
}

func decodeReminder(rec reminderRecord) (*models.Reminder, error) {
	scheduledAt, err := time.ParseInLocation(wireTimeLayout, rec.Datetime, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid datetime %q: %w", rec.Datetime, err)
	}

	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}

	r := &models.Reminder{
		ID:          id,
		Title:       rec.Title,
		ScheduledAt: scheduledAt,
		Completed:   rec.Completed,
	}
	if rec.Description != nil {
		r.Description = *rec.Description
	}
	if rec.RecurrenceRule != nil {
		unit, err := models.ParseRecurrenceUnit(rec.RecurrenceRule.Type)
		if err != nil {
			return nil, err
		}
		rule, err := models.NewRecurrenceRule(unit, rec.RecurrenceRule.Interval)
		if err != nil {
			return nil, err
		}
		r.RecurrenceRule = rule
	}
	return r, nil
}
