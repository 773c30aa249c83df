// Package scheduler runs the periodic due-reminder check.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"remindbot/internal/manager"
	"remindbot/internal/notify"
)

type Scheduler struct {
	manager       *manager.Manager
	notifier      notify.Notifier
	checkInterval time.Duration
	notifyCh      chan struct{}

	// delivered tracks reminders already announced this process; a reminder
	// is delivered at most once per run.
	delivered map[uuid.UUID]struct{}
}

func New(m *manager.Manager, n notify.Notifier) *Scheduler {
	return &Scheduler{
		manager:       m,
		notifier:      n,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
		delivered:     make(map[uuid.UUID]struct{}),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Info().Msg("scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now()
	for _, r := range s.manager.Pending() {
		if r.ScheduledAt.After(now) {
			// Pending list is sorted ascending; nothing later is due.
			break
		}
		if _, done := s.delivered[r.ID]; done {
			continue
		}
		if err := s.notifier.Notify(ctx, r); err != nil {
			log.Warn().Err(err).Str("title", r.Title).Msg("failed to deliver reminder")
			continue
		}
		s.delivered[r.ID] = struct{}{}
	}
}
