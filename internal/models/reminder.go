package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reminder is a single scheduled item. ID is assigned once at creation and is
// the only handle used for lookup, mutation and removal; the remaining fields
// are plain data and may repeat across reminders.
type Reminder struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	ScheduledAt    time.Time       `json:"scheduled_at"` // naive local wall-clock
	Description    string          `json:"description"`
	RecurrenceRule *RecurrenceRule `json:"recurrence_rule"`
	Completed      bool            `json:"completed"`
}

// NewReminder builds a pending reminder with a fresh ID.
func NewReminder(title string, scheduledAt time.Time, description string, rule *RecurrenceRule) *Reminder {
	return &Reminder{
		ID:             uuid.New(),
		Title:          title,
		ScheduledAt:    scheduledAt,
		Description:    description,
		RecurrenceRule: rule,
	}
}

// IsRecurring returns true if this reminder carries a recurrence rule
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceRule != nil
}

func (r *Reminder) String() string {
	status := "[ ]"
	if r.Completed {
		status = "[X]"
	}
	s := fmt.Sprintf("%s %s - %s", status, r.Title, r.ScheduledAt.Format("2006-01-02 15:04"))
	if r.RecurrenceRule != nil {
		s += fmt.Sprintf(" (%s)", r.RecurrenceRule)
	}
	return s
}
