// Package bot is the interactive text menu. It owns the session lifecycle
// and renders results; all reminder logic lives in the manager, parser and
// recurrence packages.
package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"remindbot/internal/ai"
	"remindbot/internal/manager"
	"remindbot/internal/models"
	"remindbot/internal/recurrence"
	"remindbot/internal/scheduler"
	"remindbot/internal/timeparse"
	"remindbot/internal/users"
)

type Bot struct {
	manager *manager.Manager
	users   *users.Service
	parser  *timeparse.Parser
	ai      *ai.Client // nil when not configured
	sched   *scheduler.Scheduler

	in  *bufio.Scanner
	out io.Writer

	session *users.Session
}

func New(m *manager.Manager, us *users.Service, parser *timeparse.Parser, aiClient *ai.Client, sched *scheduler.Scheduler, in io.Reader, out io.Writer) *Bot {
	return &Bot{
		manager: m,
		users:   us,
		parser:  parser,
		ai:      aiClient,
		sched:   sched,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Start runs the menu loop until the user exits, input ends or the context
// is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	for ctx.Err() == nil {
		b.displayMenu()
		if b.session == nil {
			choice, ok := b.prompt("\nEnter your choice (1-2): ")
			if !ok {
				return nil
			}
			switch choice {
			case "1":
				b.handleLogin()
			case "2":
				b.printf("Goodbye!\n")
				return nil
			default:
				b.printf("Invalid choice. Please try again.\n")
			}
		} else {
			choice, ok := b.prompt("\nEnter your choice (1-6): ")
			if !ok {
				return nil
			}
			switch choice {
			case "1":
				b.handleAddReminder(ctx)
			case "2":
				b.handleListReminders()
			case "3":
				b.handleMarkCompleted(ctx)
			case "4":
				b.handleRemoveReminder(ctx)
			case "5":
				b.session = nil
				b.printf("Logged out successfully\n")
			case "6":
				b.printf("Goodbye!\n")
				return nil
			default:
				b.printf("Invalid choice. Please try again.\n")
			}
		}
	}
	return ctx.Err()
}

func (b *Bot) displayMenu() {
	b.printf("\nReminder Bot\n")
	if b.session == nil {
		b.printf("Current user: Not logged in\n")
		b.printf("\nCommands:\n1. Login\n2. Exit\n")
		return
	}
	b.printf("Current user: %s\n", b.session.User.Username)
	b.printf("\nCommands:\n1. Add reminder\n2. List all reminders\n3. Mark reminder as completed\n4. Remove reminder\n5. Logout\n6. Exit\n")
}

func (b *Bot) handleLogin() {
	username, ok := b.prompt("Enter username: ")
	if !ok || username == "" {
		return
	}

	session, err := b.users.Login(username)
	if err == nil {
		b.session = session
		b.printf("Welcome back, %s!\n", username)
		return
	}
	if !errors.Is(err, users.ErrUnknownUser) {
		b.printf("Login failed: %v\n", err)
		return
	}

	create, _ := b.prompt("User not found. Would you like to create a new account? (y/n): ")
	if strings.ToLower(create) != "y" {
		return
	}
	if _, err := b.users.CreateUser(username); err != nil {
		b.printf("Failed to create account: %v\n", err)
		return
	}
	session, err = b.users.Login(username)
	if err != nil {
		b.printf("Login failed: %v\n", err)
		return
	}
	b.session = session
	b.printf("Account created successfully! Welcome, %s!\n", username)
}

func (b *Bot) handleAddReminder(ctx context.Context) {
	title, ok := b.prompt("Enter reminder title: ")
	if !ok || title == "" {
		b.printf("A reminder needs a title.\n")
		return
	}

	scheduledAt, ok := b.promptTime(ctx)
	if !ok {
		return
	}
	description, _ := b.prompt("Enter description (optional): ")

	var rule *models.RecurrenceRule
	if recur, _ := b.prompt("Should this reminder recur? (y/n): "); strings.ToLower(recur) == "y" {
		rule = b.promptRecurrence()
	}

	r := models.NewReminder(title, scheduledAt, description, rule)
	if err := b.manager.Add(ctx, r); err != nil {
		b.printf("Failed to add reminder: %v\n", err)
		return
	}
	b.sched.Notify()
	b.printf("Reminder added successfully!\n")
}

// promptTime reads time text and resolves it with the deterministic parser,
// falling back to the AI canonicalizer when one is configured.
func (b *Bot) promptTime(ctx context.Context) (time.Time, bool) {
	text, ok := b.prompt("Enter date and time (e.g. 2024-05-01 09:30, tomorrow at noon): ")
	if !ok {
		return time.Time{}, false
	}

	scheduledAt, err := b.parser.Parse(text)
	if err == nil {
		return scheduledAt, true
	}
	if b.ai != nil {
		if resolved, aiErr := b.ai.ParseTime(ctx, text); aiErr == nil {
			b.printf("Interpreted as %s\n", b.parser.Format(resolved))
			return resolved, true
		}
	}
	b.printf("Could not understand that date/time: %v\n", err)
	return time.Time{}, false
}

// promptRecurrence accepts a numbered choice plus interval, or raw RRULE
// text (FREQ=WEEKLY;INTERVAL=2) for the four supported frequencies. A bad
// answer creates the reminder without recurrence, matching the menu's
// forgiving style.
func (b *Bot) promptRecurrence() *models.RecurrenceRule {
	b.printf("\nRecurrence Options:\n1. Daily\n2. Weekly\n3. Monthly\n4. Yearly\n")
	choice, _ := b.prompt("Choose recurrence type (1-4, or RRULE text): ")

	upper := strings.ToUpper(choice)
	if strings.HasPrefix(upper, "RRULE:") || strings.HasPrefix(upper, "FREQ=") {
		rule, err := recurrence.ParseRRule(upper)
		if err != nil {
			b.printf("Invalid RRULE. Creating reminder without recurrence.\n")
			return nil
		}
		return rule
	}

	units := map[string]models.RecurrenceUnit{
		"1": models.UnitDay,
		"2": models.UnitWeek,
		"3": models.UnitMonth,
		"4": models.UnitYear,
	}
	unit, ok := units[choice]
	if !ok {
		b.printf("Invalid choice. Creating reminder without recurrence.\n")
		return nil
	}

	raw, _ := b.prompt("Enter interval (e.g., every X days/weeks/etc): ")
	interval, err := strconv.Atoi(raw)
	if err != nil {
		b.printf("Invalid interval. Creating reminder without recurrence.\n")
		return nil
	}
	rule, err := models.NewRecurrenceRule(unit, interval)
	if err != nil {
		b.printf("%v. Creating reminder without recurrence.\n", err)
		return nil
	}
	return rule
}

func (b *Bot) handleListReminders() {
	reminders := b.manager.All()
	if len(reminders) == 0 {
		b.printf("No reminders found.\n")
		return
	}
	for i, r := range reminders {
		b.printf("%d. %s\n", i+1, r)
		if r.IsRecurring() {
			b.printf("   RRULE: %s\n", recurrence.RRuleString(r.RecurrenceRule))
		}
	}
}

func (b *Bot) handleMarkCompleted(ctx context.Context) {
	pending := b.manager.Pending()
	if len(pending) == 0 {
		b.printf("No pending reminders.\n")
		return
	}

	b.printf("Pending reminders:\n")
	for i, r := range pending {
		b.printf("%d. %s\n", i+1, r)
	}

	r, ok := b.pickReminder(pending, "Enter reminder number to mark as completed: ")
	if !ok {
		return
	}

	next, err := b.manager.MarkCompleted(ctx, r.ID)
	if err != nil {
		b.printf("Failed to save: %v\n", err)
	}
	b.printf("Reminder marked as completed!\n")
	if next != nil {
		b.printf("Next occurrence scheduled for: %s\n", b.parser.Format(next.ScheduledAt))
	}

	if follow, _ := b.prompt("\nWould you like to schedule a follow-up task? (y/n): "); strings.ToLower(follow) == "y" {
		b.printf("\nCreating follow-up task...\n")
		b.handleAddReminder(ctx)
	}
}

func (b *Bot) handleRemoveReminder(ctx context.Context) {
	reminders := b.manager.All()
	if len(reminders) == 0 {
		b.printf("No reminders to remove.\n")
		return
	}

	b.printf("All reminders:\n")
	for i, r := range reminders {
		b.printf("%d. %s\n", i+1, r)
	}

	r, ok := b.pickReminder(reminders, "Enter reminder number to remove: ")
	if !ok {
		return
	}
	if err := b.manager.Remove(ctx, r.ID); err != nil {
		b.printf("Failed to save: %v\n", err)
		return
	}
	b.printf("Reminder removed successfully!\n")
}

func (b *Bot) pickReminder(list []*models.Reminder, promptText string) (*models.Reminder, bool) {
	raw, ok := b.prompt(promptText)
	if !ok {
		return nil, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		b.printf("Invalid input. Please enter a number.\n")
		return nil, false
	}
	if idx < 1 || idx > len(list) {
		b.printf("Invalid reminder number.\n")
		return nil, false
	}
	return list[idx-1], true
}

// prompt prints a label and reads one trimmed line. ok is false once input
// is exhausted.
func (b *Bot) prompt(label string) (line string, ok bool) {
	b.printf("%s", label)
	if !b.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(b.in.Text()), true
}

func (b *Bot) printf(format string, args ...any) {
	fmt.Fprintf(b.out, format, args...)
}
