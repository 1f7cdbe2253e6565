// Package scheduler runs the daily background job that reminds attendees
// about events starting soon.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eventease/eventease-api/internal/domain"
)

// reminderLeadDays is how far ahead of an event the reminder goes out.
const reminderLeadDays = 3

type EventSource interface {
	FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

type AttendeeSource interface {
	DistinctActiveUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
}

type Notifier interface {
	NotifyMany(ctx context.Context, recipientIDs []uint, tmpl domain.Template, relatedEventID *uint) error
}

// ReminderScheduler sends event reminders once a day. Failures are logged
// and the next run retries the whole window, so a missed day self-heals
// as long as the process comes back up.
type ReminderScheduler struct {
	events    EventSource
	attendees AttendeeSource
	notifier  Notifier
	logger    *zap.Logger
	cron      *cron.Cron
	now       func() time.Time
}

func NewReminderScheduler(events EventSource, attendees AttendeeSource, notifier Notifier, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		events:    events,
		attendees: attendees,
		notifier:  notifier,
		logger:    logger,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start runs one reminder pass immediately and then schedules a daily one.
func (s *ReminderScheduler) Start() error {
	s.runOnce()

	if _, err := s.cron.AddFunc("0 0 * * *", s.runOnce); err != nil {
		return fmt.Errorf("s.cron.AddFunc -> %w", err)
	}

	s.cron.Start()
	s.logger.Info("reminder scheduler started")

	return nil
}

// Stop waits for an in-flight run to finish before returning.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) runOnce() {
	if err := s.SendReminders(context.Background()); err != nil {
		s.logger.Error("failed to send event reminders", zap.Error(err))
	}
}

// SendReminders notifies every active attendee of each published event
// starting exactly reminderLeadDays from now, measured over that day's
// midnight-to-midnight window.
func (s *ReminderScheduler) SendReminders(ctx context.Context) error {
	now := s.now()
	year, month, day := now.AddDate(0, 0, reminderLeadDays).Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	events, err := s.events.FindPublishedStartingBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("s.events.FindPublishedStartingBetween -> %w", err)
	}

	s.logger.Info("checking events for reminders",
		zap.Int("events", len(events)),
		zap.Time("window_start", from))

	for _, event := range events {
		attendeeIDs, err := s.attendees.DistinctActiveUserIDsByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("s.attendees.DistinctActiveUserIDsByEvent -> %w", err)
		}
		if len(attendeeIDs) == 0 {
			continue
		}

		eventID := event.ID
		tmpl := domain.EventReminderTemplate{EventTitle: event.Title, DaysLeft: reminderLeadDays}
		if err := s.notifier.NotifyMany(ctx, attendeeIDs, tmpl, &eventID); err != nil {
			return fmt.Errorf("s.notifier.NotifyMany -> %w", err)
		}

		s.logger.Info("sent event reminders",
			zap.Uint("event_id", event.ID),
			zap.Int("attendees", len(attendeeIDs)))
	}

	return nil
}
