package users

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	s := newService(t)

	created, err := s.CreateUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	got, err := s.GetUser("alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)

	absent, err := s.GetUser("bob")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestCreateUserConflict(t *testing.T) {
	s := newService(t)

	_, err := s.CreateUser("alice")
	require.NoError(t, err)

	_, err = s.CreateUser("alice")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	s := newService(t)
	_, err := s.CreateUser("alice")
	require.NoError(t, err)

	session, err := s.Login("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.Username)

	_, err = s.Login("mallory")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestUsersSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := NewService(dir)
	require.NoError(t, err)
	_, err = s.CreateUser("alice")
	require.NoError(t, err)

	again, err := NewService(dir)
	require.NoError(t, err)
	got, err := again.GetUser("alice")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestNewServiceInitializesEmptyObject(t *testing.T) {
	dir := t.TempDir()
	_, err := NewService(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
