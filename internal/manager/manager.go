// Package manager owns the in-memory reminder collection and coordinates
// mutation, recurrence rollover and snapshot persistence.
package manager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"remindbot/internal/models"
	"remindbot/internal/recurrence"
	"remindbot/internal/storage"
)

// Manager keeps the collection sorted ascending by scheduled time and writes
// a full snapshot through the store after every mutation. When a write
// fails, the in-memory mutation stands: durable state is then one operation
// behind, which is logged and reported to the caller but never rolled back.
//
// The mutex exists only because the due-reminder scheduler reads the
// collection from its own goroutine; all mutation comes from the single
// interactive loop.
type Manager struct {
	store storage.Store

	mu        sync.Mutex
	reminders []*models.Reminder
}

// New loads the stored snapshot. A corrupt snapshot degrades to an empty
// collection with a logged warning; startup is never blocked.
func New(ctx context.Context, store storage.Store) *Manager {
	reminders, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load reminders, starting empty")
		reminders = []*models.Reminder{}
	}
	m := &Manager{store: store, reminders: reminders}
	m.sortByTime()
	return m
}

// Add inserts a reminder, restores the time ordering and persists.
func (m *Manager) Add(ctx context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reminders = append(m.reminders, r)
	m.sortByTime()
	return m.persist(ctx)
}

// All returns the reminders in scheduled order. The slice is a copy; the
// elements are live.
func (m *Manager) All() []*models.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Reminder, len(m.reminders))
	copy(out, m.reminders)
	return out
}

// Pending returns the not-yet-completed reminders, preserving order.
func (m *Manager) Pending() []*models.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Reminder
	for _, r := range m.reminders {
		if !r.Completed {
			out = append(out, r)
		}
	}
	return out
}

// Get looks a reminder up by ID.
func (m *Manager) Get(id uuid.UUID) (*models.Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(id)
	return r, r != nil
}

// MarkCompleted flips the reminder's completed flag and, if it carries a
// recurrence rule, appends the next occurrence as a new pending reminder.
// The next occurrence is anchored on the reminder's original scheduled time,
// not on the current moment, so a late completion does not drift the chain.
// Both changes persist as one snapshot. Unknown IDs are a no-op.
//
// Returns the newly created occurrence, or nil for non-recurring reminders.
func (m *Manager) MarkCompleted(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(id)
	if r == nil {
		return nil, nil
	}
	r.Completed = true

	var next *models.Reminder
	if r.IsRecurring() {
		nextAt := recurrence.Next(r.RecurrenceRule, r.ScheduledAt)
		next = models.NewReminder(r.Title, nextAt, r.Description, r.RecurrenceRule)
		m.reminders = append(m.reminders, next)
		m.sortByTime()
	}
	return next, m.persist(ctx)
}

// Remove deletes the reminder with the given ID. Unknown IDs are a no-op.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.reminders {
		if r.ID == id {
			m.reminders = append(m.reminders[:i], m.reminders[i+1:]...)
			return m.persist(ctx)
		}
	}
	return nil
}

// Reset drops every reminder, in memory and in storage.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reminders = []*models.Reminder{}
	if err := m.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

func (m *Manager) find(id uuid.UUID) *models.Reminder {
	for _, r := range m.reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *Manager) sortByTime() {
	sort.SliceStable(m.reminders, func(i, j int) bool {
		return m.reminders[i].ScheduledAt.Before(m.reminders[j].ScheduledAt)
	})
}

func (m *Manager) persist(ctx context.Context) error {
	if err := m.store.Save(ctx, m.reminders); err != nil {
		log.Warn().Err(err).Msg("snapshot write failed, durable state is behind memory")
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}
