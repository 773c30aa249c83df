package storage

import (
	"context"
	"fmt"
	"time"

	"remindbot/internal/database"
	"remindbot/internal/models"
)

// PostgresStore keeps the snapshot in a single table. Save rewrites the
// table inside one transaction so the snapshot semantics match the file
// store: durable state is always a complete, consistent collection.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, reminders []*models.Reminder) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}

	for i, r := range reminders {
		var description *string
		if r.Description != "" {
			description = &r.Description
		}
		var unit *string
		var interval *int
		if r.RecurrenceRule != nil {
			u := string(r.RecurrenceRule.Unit)
			unit = &u
			interval = &r.RecurrenceRule.Interval
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO reminders (id, position, title, scheduled_at, description, recurrence_unit, recurrence_interval, completed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.ID, i, r.Title, r.ScheduledAt, description, unit, interval, r.Completed,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reminder %s: %w", r.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Load(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, title, scheduled_at, description, recurrence_unit, recurrence_interval, completed
		 FROM reminders ORDER BY position ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []*models.Reminder{}
	for rows.Next() {
		r := &models.Reminder{}
		var scheduledAt time.Time
		var description, unit *string
		var interval *int
		if err := rows.Scan(&r.ID, &r.Title, &scheduledAt, &description, &unit, &interval, &r.Completed); err != nil {
			return nil, err
		}
		// TIMESTAMP columns come back as UTC, but the stored clock values
		// are naive local time. Rebuild with the same clock in the local
		// location.
		r.ScheduledAt = time.Date(
			scheduledAt.Year(), scheduledAt.Month(), scheduledAt.Day(),
			scheduledAt.Hour(), scheduledAt.Minute(), scheduledAt.Second(), scheduledAt.Nanosecond(),
			time.Local,
		)
		if description != nil {
			r.Description = *description
		}
		if unit != nil && interval != nil {
			u, err := models.ParseRecurrenceUnit(*unit)
			if err != nil {
				return nil, err
			}
			rule, err := models.NewRecurrenceRule(u, *interval)
			if err != nil {
				return nil, err
			}
			r.RecurrenceRule = rule
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM reminders`)
	return err
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
