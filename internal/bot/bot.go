// Package bot is the outbound delivery channel: explicit reminders and
// the daily top-5 digest go out as Telegram messages. It never polls
// for updates; the app has no conversational surface.
package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pocket-planner/internal/model"
	"pocket-planner/internal/service"
)

const (
	iconReminder = "⏰"
	iconDigest   = "📋"
)

// ReminderMessage is the payload of one explicit reminder dispatch.
type ReminderMessage struct {
	Text     string
	TaskID   string
	Priority *int
	DueDate  *time.Time
	Type     string
}

// ReminderFromTask builds a reminder payload for a task, mapping the
// priority ordinal P1..P4 to 1..4.
func ReminderFromTask(task model.Task) ReminderMessage {
	ordinal := task.Priority.Ordinal()
	return ReminderMessage{
		Text:     task.Text,
		TaskID:   task.ID,
		Priority: &ordinal,
		DueDate:  task.DueDate,
		Type:     "task",
	}
}

// Dispatcher sends outbound messages to a single configured chat.
type Dispatcher struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Dispatcher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Dispatcher{api: api, chatID: chatID}, nil
}

// SendReminder delivers one explicit reminder. Failures surface to the
// caller; there is no automatic retry.
func (d *Dispatcher) SendReminder(ctx context.Context, r ReminderMessage) error {
	return d.send(ctx, formatReminder(r))
}

// SyncTop5 delivers the daily digest, implementing service.Top5Syncer.
func (d *Dispatcher) SyncTop5(ctx context.Context, entries []service.Top5Entry, timezone string) error {
	return d.send(ctx, formatTop5Digest(entries))
}

func formatReminder(r ReminderMessage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s", iconReminder, html.EscapeString(strings.TrimSpace(r.Text))))
	if r.Priority != nil {
		sb.WriteString(fmt.Sprintf(" <b>P%d</b>", *r.Priority))
	}
	if r.DueDate != nil {
		sb.WriteString(fmt.Sprintf("\n   due %s", r.DueDate.Format("2006-01-02")))
	}
	return sb.String()
}

func formatTop5Digest(entries []service.Top5Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>Top tasks for today</b>\n", iconDigest))
	if len(entries) == 0 {
		sb.WriteString("— nothing due today\n")
	}
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s <i>(%s, due %s)</i>\n",
			i+1, html.EscapeString(entry.Title), entry.Priority, entry.DueDate))
	}
	return strings.TrimSpace(sb.String())
}

func (d *Dispatcher) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(d.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := d.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
