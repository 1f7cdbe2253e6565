package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/internal/domain"
)

func newAttendeeServiceFixture() (*AttendeeService, *fakeAttendeeRepo, *fakeEventRepo, *recordingNotifier) {
	attendees := newFakeAttendeeRepo()
	events := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewAttendeeService(attendees, events, notifier)

	return svc, attendees, events, notifier
}

func TestAttendeeService_RSVP(t *testing.T) {
	svc, attendees, events, notifier := newAttendeeServiceFixture()
	start := time.Now().Add(72 * time.Hour)

	draft := events.add(domain.Event{Title: "Draft", StartDate: start, Status: domain.EventStatusDraft})
	open := events.add(domain.Event{Title: "Hack Night", StartDate: start, Status: domain.EventStatusPublished})

	pastDeadline := time.Now().Add(-time.Hour)
	closed := events.add(domain.Event{
		Title:                "Closed",
		StartDate:            start,
		Status:               domain.EventStatusPublished,
		RegistrationDeadline: &pastDeadline,
	})

	capacity := 1
	tiny := events.add(domain.Event{
		Title:        "Tiny",
		StartDate:    start,
		Status:       domain.EventStatusPublished,
		MaxAttendees: &capacity,
	})

	t.Run("unknown event", func(t *testing.T) {
		_, _, err := svc.RSVP(context.Background(), 1, 999)
		assert.True(t, errors.Is(err, ErrEventNotFound))
	})

	t.Run("unpublished event", func(t *testing.T) {
		_, _, err := svc.RSVP(context.Background(), 1, draft.ID)
		assert.True(t, errors.Is(err, ErrEventNotPublished))
	})

	t.Run("deadline passed", func(t *testing.T) {
		_, _, err := svc.RSVP(context.Background(), 1, closed.ID)
		require.True(t, errors.Is(err, ErrRegistrationClosed))
		assert.Contains(t, err.Error(), "Registration closed on "+pastDeadline.Format("1/2/2006"))
	})

	t.Run("successful registration notifies the attendee", func(t *testing.T) {
		attendee, reactivated, err := svc.RSVP(context.Background(), 1, open.ID)
		require.NoError(t, err)
		assert.False(t, reactivated)
		assert.Equal(t, domain.AttendeeStatusRegistered, attendee.Status)

		require.Len(t, notifier.sent, 1)
		tmpl, ok := notifier.sent[0].Template.(domain.EventRegistrationTemplate)
		require.True(t, ok)
		assert.Equal(t, "Hack Night", tmpl.EventTitle)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		_, _, err := svc.RSVP(context.Background(), 1, open.ID)
		assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	})

	t.Run("cancelled row is reactivated", func(t *testing.T) {
		require.NoError(t, svc.CancelRSVP(context.Background(), 1, open.ID))

		attendee, reactivated, err := svc.RSVP(context.Background(), 1, open.ID)
		require.NoError(t, err)
		assert.True(t, reactivated)
		assert.Equal(t, domain.AttendeeStatusRegistered, attendee.Status)
	})

	t.Run("event at capacity", func(t *testing.T) {
		attendees.add(domain.Attendee{UserID: 2, EventID: tiny.ID, Status: domain.AttendeeStatusRegistered})

		_, _, err := svc.RSVP(context.Background(), 3, tiny.ID)
		assert.True(t, errors.Is(err, ErrEventFull))
	})
}

func TestAttendeeService_CancelRSVP(t *testing.T) {
	svc, attendees, events, notifier := newAttendeeServiceFixture()
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})
	attendees.add(domain.Attendee{
		UserID:  5,
		EventID: event.ID,
		Status:  domain.AttendeeStatusRegistered,
		Event:   &event,
	})

	t.Run("marks the row cancelled and notifies", func(t *testing.T) {
		require.NoError(t, svc.CancelRSVP(context.Background(), 5, event.ID))

		row, err := attendees.FindByUserAndEvent(context.Background(), 5, event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeeStatusCancelled, row.Status)

		require.Len(t, notifier.sent, 1)
		tmpl, ok := notifier.sent[0].Template.(domain.RegistrationCancelledTemplate)
		require.True(t, ok)
		assert.Equal(t, "Hack Night", tmpl.EventTitle)
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		err := svc.CancelRSVP(context.Background(), 5, event.ID)
		assert.True(t, errors.Is(err, ErrRSVPAlreadyCancelled))
	})

	t.Run("no RSVP at all", func(t *testing.T) {
		err := svc.CancelRSVP(context.Background(), 5, 999)
		assert.True(t, errors.Is(err, ErrAttendeeNotFound))
	})
}

func TestAttendeeService_Manage(t *testing.T) {
	svc, attendees, events, _ := newAttendeeServiceFixture()
	event := events.add(domain.Event{
		Title:              "Hack Night",
		Status:             domain.EventStatusPublished,
		AssignedOrganisers: []domain.User{{ID: 3}},
	})
	attendee := attendees.add(domain.Attendee{
		UserID:  5,
		EventID: event.ID,
		Status:  domain.AttendeeStatusRegistered,
		Event:   &event,
	})

	admin := domain.AuthUser{ID: 1, Role: domain.RoleAdmin}
	manager := domain.AuthUser{ID: 3, Role: domain.RoleOrganiser}
	outsider := domain.AuthUser{ID: 9, Role: domain.RoleOrganiser}

	t.Run("unassigned organiser cannot manage", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), outsider, attendee.ID, domain.AttendeeStatusAttended, "")
		assert.True(t, errors.Is(err, ErrNotAttendeeManager))

		err = svc.Ban(context.Background(), outsider, attendee.ID, "spam")
		assert.True(t, errors.Is(err, ErrNotAttendeeManager))
	})

	t.Run("list attendees gated the same way", func(t *testing.T) {
		_, _, err := svc.ListByEvent(context.Background(), outsider, event.ID, "", 0, 10)
		assert.True(t, errors.Is(err, ErrNotAttendeeManager))

		rows, total, err := svc.ListByEvent(context.Background(), manager, event.ID, "", 0, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("status update keeps existing notes when blank", func(t *testing.T) {
		updated, err := svc.UpdateStatus(context.Background(), manager, attendee.ID, domain.AttendeeStatusAttended, "front row")
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeeStatusAttended, updated.Status)
		assert.Equal(t, "front row", updated.Notes)

		updated, err = svc.UpdateStatus(context.Background(), admin, attendee.ID, domain.AttendeeStatusNoShow, "")
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeeStatusNoShow, updated.Status)
		assert.Equal(t, "front row", updated.Notes)
	})

	t.Run("ban records the actor and reason", func(t *testing.T) {
		require.NoError(t, svc.Ban(context.Background(), admin, attendee.ID, "abusive behaviour"))

		row, err := attendees.FindByID(context.Background(), attendee.ID)
		require.NoError(t, err)
		assert.True(t, row.IsBanned)
		assert.Equal(t, "abusive behaviour", row.BannedReason)
		require.NotNil(t, row.BannedBy)
		assert.Equal(t, admin.ID, *row.BannedBy)
		assert.NotNil(t, row.BannedAt)
	})

	t.Run("unban clears everything", func(t *testing.T) {
		require.NoError(t, svc.Unban(context.Background(), admin, attendee.ID))

		row, err := attendees.FindByID(context.Background(), attendee.ID)
		require.NoError(t, err)
		assert.False(t, row.IsBanned)
		assert.Nil(t, row.BannedBy)
		assert.Nil(t, row.BannedAt)
		assert.Empty(t, row.BannedReason)
	})
}

func TestAttendeeService_ListMine(t *testing.T) {
	svc, attendees, events, _ := newAttendeeServiceFixture()
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})
	other := events.add(domain.Event{Title: "Other", Status: domain.EventStatusPublished})

	attendees.add(domain.Attendee{UserID: 5, EventID: event.ID, Status: domain.AttendeeStatusRegistered})
	attendees.add(domain.Attendee{UserID: 5, EventID: other.ID, Status: domain.AttendeeStatusCancelled})
	attendees.add(domain.Attendee{UserID: 6, EventID: event.ID, Status: domain.AttendeeStatusRegistered})

	all, total, err := svc.ListMine(context.Background(), 5, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)

	active, total, err := svc.ListMine(context.Background(), 5, domain.AttendeeStatusRegistered, 0, 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, event.ID, active[0].EventID)
	assert.Equal(t, int64(1), total)
}
