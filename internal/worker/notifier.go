package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/amqp"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/log"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/services"
)

// UserLister enumerates the users the periodic scan covers.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ReminderPublisher is the outbound side of the notifier.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// ReminderNotifier derives budget and bill reminders and publishes them for
// delivery. It runs two ways: a periodic scan over every user, and an
// immediate re-scan of one user when a budget event arrives.
type ReminderNotifier struct {
	reminders *services.ReminderService
	users     UserLister
	publisher ReminderPublisher
}

func NewReminderNotifier(reminders *services.ReminderService, users UserLister, publisher ReminderPublisher) *ReminderNotifier {
	return &ReminderNotifier{
		reminders: reminders,
		users:     users,
		publisher: publisher,
	}
}

// ScanOnce derives and publishes reminders for every known user.
func (n *ReminderNotifier) ScanOnce(ctx context.Context, now time.Time) error {
	userIDs, err := n.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	published := 0
	for _, uid := range userIDs {
		count, err := n.scanUser(ctx, uid, now)
		if err != nil {
			// One user's bad data must not block the rest of the scan.
			slog.ErrorContext(ctx, "Reminder scan failed for user", log.FieldUserID, uid, log.FieldError, err)
			continue
		}
		published += count
	}

	slog.InfoContext(ctx, "Reminder scan completed", "users", len(userIDs), "published", published)
	return nil
}

// HandleBudgetEvent re-scans the affected user right away so a mutation is
// followed by fresh reminders without waiting for the next periodic scan.
func (n *ReminderNotifier) HandleBudgetEvent(ctx context.Context, msg *amqp.BudgetEventMessage) error {
	slog.InfoContext(ctx, "Processing budget event",
		log.FieldBudgetID, msg.BudgetID,
		log.FieldUserID, msg.UserID,
		log.FieldChangeType, msg.ChangeType,
		log.FieldComponent, log.ComponentWorker)

	count, err := n.scanUser(ctx, msg.UserID, time.Now())
	if err != nil {
		return fmt.Errorf("scan user %s: %w", msg.UserID, err)
	}

	slog.InfoContext(ctx, "Budget event processed", log.FieldUserID, msg.UserID, "published", count)
	return nil
}

func (n *ReminderNotifier) scanUser(ctx context.Context, userID string, now time.Time) (int, error) {
	budgetReminders, err := n.reminders.BudgetReminders(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("budget reminders: %w", err)
	}

	buckets, err := n.reminders.Bills(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("bill reminders: %w", err)
	}

	published := 0
	for _, r := range budgetReminders {
		msg := &amqp.ReminderMessage{
			SourceID:  r.SourceID.String(),
			UserID:    userID,
			Severity:  string(r.Severity),
			Title:     r.Title,
			Message:   r.Message,
			Timestamp: now,
		}
		if err := n.publisher.PublishReminder(ctx, msg); err != nil {
			return published, fmt.Errorf("publish budget reminder: %w", err)
		}
		published++
	}
	for _, r := range buckets.Reminders {
		msg := &amqp.ReminderMessage{
			SourceID:  r.SourceID.String(),
			UserID:    userID,
			Severity:  string(r.Severity),
			Title:     r.Title,
			Message:   r.Message,
			Timestamp: now,
		}
		if err := n.publisher.PublishReminder(ctx, msg); err != nil {
			return published, fmt.Errorf("publish bill reminder: %w", err)
		}
		published++
	}

	if published > 0 {
		slog.DebugContext(ctx, "Reminders published for user",
			log.FieldUserID, userID,
			"budget_reminders", len(budgetReminders),
			"bill_reminders", len(buckets.Reminders))
	}
	return published, nil
}

// Run drives the periodic scan until the context is cancelled. An initial
// scan fires immediately so a freshly started worker is never a full
// interval behind.
func (n *ReminderNotifier) Run(ctx context.Context, interval time.Duration) error {
	if err := n.ScanOnce(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Initial reminder scan failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := n.ScanOnce(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Reminder scan failed", log.FieldError, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
