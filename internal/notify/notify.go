// Package notify delivers due reminders. The console sink is always on; the
// Telegram sink is added when a bot token and chat are configured.
package notify

import (
	"context"
	"fmt"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"remindbot/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, r *models.Reminder) error
}

// Console writes the reminder to a terminal-style sink.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(ctx context.Context, r *models.Reminder) error {
	_ = ctx
	_, err := fmt.Fprintf(c.w, "\n*** REMINDER DUE: %s ***\n", render(r))
	return err
}

// Telegram sends the reminder as a message to a fixed chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, r *models.Reminder) error {
	_ = ctx
	msg := tgbotapi.NewMessage(t.chatID, "⏰ Reminder\n\n"+render(r))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram notification: %w", err)
	}
	return nil
}

// Multi fans a notification out to every sink, returning the first error
// after trying all of them.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, r *models.Reminder) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func render(r *models.Reminder) string {
	s := fmt.Sprintf("%s - %s", r.Title, r.ScheduledAt.Format("2006-01-02 15:04"))
	if r.Description != "" {
		s += "\n" + r.Description
	}
	if r.IsRecurring() {
		s += fmt.Sprintf("\n🔄 %s", r.RecurrenceRule)
	}
	return s
}
