package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/models"
)

func TestConsoleNotify(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	rule, err := models.NewRecurrenceRule(models.UnitDay, 1)
	require.NoError(t, err)
	r := models.NewReminder("standup",
		time.Date(2024, time.June, 3, 9, 0, 0, 0, time.Local), "daily sync", rule)

	require.NoError(t, c.Notify(context.Background(), r))
	out := buf.String()
	assert.Contains(t, out, "REMINDER DUE")
	assert.Contains(t, out, "standup - 2024-06-03 09:00")
	assert.Contains(t, out, "daily sync")
	assert.Contains(t, out, "Every day")
}

type failingNotifier struct{ err error }

func (f *failingNotifier) Notify(ctx context.Context, r *models.Reminder) error { return f.err }

func TestMultiTriesEverySink(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	m := Multi{&failingNotifier{err: boom}, NewConsole(&buf)}

	r := models.NewReminder("r", time.Now(), "", nil)
	err := m.Notify(context.Background(), r)
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, buf.String()) // later sinks still ran
}
