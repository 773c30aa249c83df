// Package storage persists full snapshots of the reminder collection.
//
// Every mutation in the manager writes the whole collection; there is no
// incremental path. Implementations never hold a reference to the live
// collection: Save receives the snapshot to write and Load returns a fresh
// slice.
package storage

import (
	"context"
	"fmt"

	"remindbot/internal/database"
	"remindbot/internal/models"
)

type Store interface {
	// Save replaces the durable contents with the given snapshot.
	Save(ctx context.Context, reminders []*models.Reminder) error
	// Load returns the stored snapshot. A missing backing store yields an
	// empty slice and no error; corruption yields nil and an error, leaving
	// the degrade-to-empty decision to the caller.
	Load(ctx context.Context) ([]*models.Reminder, error)
	// Reset clears the durable contents.
	Reset(ctx context.Context) error
	// Close releases any backing resources.
	Close() error
}

// Config selects a storage driver.
//
// Driver values:
//   - "file" (default): pretty-printed JSON array in DataDir
//   - "postgres": snapshot table, DatabaseURI required
type Config struct {
	Driver      string
	DataDir     string
	DatabaseURI string
}

// Open builds the configured store. The postgres driver runs migrations
// before returning.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.DataDir)
	case "postgres":
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("DATABASE_URI is required for the postgres driver")
		}
		db, err := database.New(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
