package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"remindbot/internal/models"
)

const remindersFile = "reminders.json"

// FileStore keeps the snapshot as a pretty-printed JSON array in a single
// file. Writes go to a temp file in the same directory and are renamed into
// place, so a crash mid-write leaves the previous snapshot intact.
type FileStore struct {
	path string
}

// NewFileStore ensures dataDir and the backing file exist. A new file starts
// as an empty array.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{path: filepath.Join(dataDir, remindersFile)}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.WriteFile(s.path, []byte("[]"), 0o600); err != nil {
			return nil, fmt.Errorf("failed to initialize storage file: %w", err)
		}
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(ctx context.Context, reminders []*models.Reminder) error {
	_ = ctx

	records := make([]reminderRecord, 0, len(reminders))
	for _, r := range reminders {
		records = append(records, encodeReminder(r))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	return s.replace(data)
}

func (s *FileStore) Load(ctx context.Context) ([]*models.Reminder, error) {
	_ = ctx

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*models.Reminder{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	var records []reminderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt storage file %s: %w", s.path, err)
	}

	reminders := make([]*models.Reminder, 0, len(records))
	for _, rec := range records {
		r, err := decodeReminder(rec)
		if err != nil {
			return nil, fmt.Errorf("corrupt storage file %s: %w", s.path, err)
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	_ = ctx
	return s.replace([]byte("[]"))
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) replace(data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
