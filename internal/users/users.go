// Package users is the identity boundary: a username-keyed JSON file and an
// explicit Session value handed to whoever needs the current user. There is
// no ambient logged-in state; the CLI owns the session lifecycle.
package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"remindbot/internal/models"
)

const usersFile = "users.json"

var (
	ErrConflict    = errors.New("user already exists")
	ErrUnknownUser = errors.New("unknown user")
)

// Session is held by the caller between Login and logout (dropping the
// value). It carries no mutable state beyond the identity itself.
type Session struct {
	User *models.User
}

type Service struct {
	path string
}

// NewService ensures dataDir and the users file exist. A new file starts as
// an empty object.
func NewService(dataDir string) (*Service, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Service{path: filepath.Join(dataDir, usersFile)}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.WriteFile(s.path, []byte("{}"), 0o600); err != nil {
			return nil, fmt.Errorf("failed to initialize users file: %w", err)
		}
	}
	return s, nil
}

// GetUser returns (nil, nil) when the username is not registered.
func (s *Service) GetUser(username string) (*models.User, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	return users[username], nil
}

// CreateUser registers a new username. Returns ErrConflict if taken.
func (s *Service) CreateUser(username string) (*models.User, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, taken := users[username]; taken {
		return nil, fmt.Errorf("%w: %s", ErrConflict, username)
	}

	user := &models.User{Username: username}
	users[username] = user
	if err := s.save(users); err != nil {
		return nil, err
	}
	return user, nil
}

// Login resolves a username to a session. Returns ErrUnknownUser when the
// name is not registered.
func (s *Service) Login(username string) (*Session, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	return &Session{User: user}, nil
}

func (s *Service) load() (map[string]*models.User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*models.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	users := map[string]*models.User{}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("corrupt users file %s: %w", s.path, err)
	}
	return users, nil
}

func (s *Service) save(users map[string]*models.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}
