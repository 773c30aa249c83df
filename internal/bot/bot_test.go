package bot

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/manager"
	"remindbot/internal/models"
	"remindbot/internal/notify"
	"remindbot/internal/scheduler"
	"remindbot/internal/storage"
	"remindbot/internal/timeparse"
	"remindbot/internal/users"
)

// runSession feeds a scripted menu session through the bot and returns the
// rendered output plus the manager for state assertions.
func runSession(t *testing.T, script ...string) (string, *manager.Manager) {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	mgr := manager.New(context.Background(), store)

	userService, err := users.NewService(dir)
	require.NoError(t, err)

	sched := scheduler.New(mgr, notify.NewConsole(io.Discard))

	var out bytes.Buffer
	b := New(mgr, userService, timeparse.New(), nil, sched,
		strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	require.NoError(t, b.Start(context.Background()))
	return out.String(), mgr
}

func TestSessionLoginAddCompleteRemove(t *testing.T) {
	out, mgr := runSession(t,
		"1",                // login
		"alice",            // username
		"y",                // create account
		"1",                // add reminder
		"pay rent",         // title
		"2030-01-02 15:04", // date and time
		"transfer",         // description
		"y",                // recurring
		"3",                // monthly
		"1",                // interval
		"2",                // list
		"3",                // mark completed
		"1",                // pick the only pending reminder
		"n",                // no follow-up
		"2",                // list again
		"4",                // remove
		"1",                // the completed original sorts first
		"6",                // exit
	)

	assert.Contains(t, out, "Account created successfully! Welcome, alice!")
	assert.Contains(t, out, "Reminder added successfully!")
	assert.Contains(t, out, "[ ] pay rent - 2030-01-02 15:04 (Every month)")
	assert.Contains(t, out, "RRULE: FREQ=MONTHLY")
	assert.Contains(t, out, "Reminder marked as completed!")
	assert.Contains(t, out, "Next occurrence scheduled for: 2030-02-02 15:04")
	assert.Contains(t, out, "Reminder removed successfully!")
	assert.Contains(t, out, "Goodbye!")

	// One rolled-over pending occurrence remains after removing the original.
	all := mgr.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Completed)
	assert.Equal(t, time.Date(2030, time.February, 2, 15, 4, 0, 0, time.Local), all[0].ScheduledAt)
}

func TestSessionRejectsBadTimeText(t *testing.T) {
	out, mgr := runSession(t,
		"1", "bob", "y",
		"1",
		"dentist",
		"whenever it suits", // unparseable, no AI fallback configured
		"6",
	)

	assert.Contains(t, out, "Could not understand that date/time")
	assert.Empty(t, mgr.All())
}

func TestSessionAcceptsRRuleText(t *testing.T) {
	out, mgr := runSession(t,
		"1", "carol", "y",
		"1",
		"standup",
		"tomorrow at morning",
		"", // no description
		"y",
		"FREQ=WEEKLY;INTERVAL=2",
		"6",
	)

	assert.Contains(t, out, "Reminder added successfully!")
	all := mgr.All()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].RecurrenceRule)
	assert.Equal(t, models.UnitWeek, all[0].RecurrenceRule.Unit)
	assert.Equal(t, 2, all[0].RecurrenceRule.Interval)
}

func TestSessionLoginUnknownUserDeclineCreate(t *testing.T) {
	out, _ := runSession(t,
		"1",
		"nobody",
		"n", // decline account creation
		"2", // exit from the logged-out menu
	)

	assert.Contains(t, out, "User not found")
	assert.Contains(t, out, "Goodbye!")
}

func TestSessionEndsCleanlyOnEOF(t *testing.T) {
	out, _ := runSession(t, "1") // input ends mid-login
	assert.Contains(t, out, "Enter username: ")
}
