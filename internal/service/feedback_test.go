package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/internal/domain"
)

func newFeedbackServiceFixture() (*FeedbackService, *fakeFeedbackRepo, *fakeEventRepo, *fakeAttendeeRepo) {
	feedback := newFakeFeedbackRepo()
	events := newFakeEventRepo()
	attendees := newFakeAttendeeRepo()
	svc := NewFeedbackService(feedback, events, attendees)

	return svc, feedback, events, attendees
}

func TestFeedbackService_Submit(t *testing.T) {
	svc, _, events, attendees := newFeedbackServiceFixture()
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})
	attendees.add(domain.Attendee{UserID: 5, EventID: event.ID, Status: domain.AttendeeStatusAttended})
	attendees.add(domain.Attendee{UserID: 6, EventID: event.ID, Status: domain.AttendeeStatusCancelled})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), 5, 999, 4, "", false)
		assert.True(t, errors.Is(err, ErrEventNotFound))
	})

	t.Run("requires a registration", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), 7, event.ID, 4, "", false)
		assert.True(t, errors.Is(err, ErrNotRegisteredForFeedback))
	})

	t.Run("cancelled registration does not count", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), 6, event.ID, 4, "", false)
		assert.True(t, errors.Is(err, ErrNotRegisteredForFeedback))
	})

	t.Run("active attendee submits once", func(t *testing.T) {
		created, err := svc.Submit(context.Background(), 5, event.ID, 5, "great", true)
		require.NoError(t, err)
		assert.Equal(t, 5, created.Rating)
		assert.True(t, created.IsAnonymous)

		_, err = svc.Submit(context.Background(), 5, event.ID, 3, "changed my mind", false)
		assert.True(t, errors.Is(err, ErrFeedbackExists))
	})
}

func TestFeedbackService_Listing(t *testing.T) {
	svc, _, events, attendees := newFeedbackServiceFixture()
	event := events.add(domain.Event{
		Title:              "Hack Night",
		Status:             domain.EventStatusPublished,
		AssignedOrganisers: []domain.User{{ID: 3}},
	})
	attendees.add(domain.Attendee{UserID: 5, EventID: event.ID, Status: domain.AttendeeStatusAttended})
	attendees.add(domain.Attendee{UserID: 6, EventID: event.ID, Status: domain.AttendeeStatusAttended})

	_, err := svc.Submit(context.Background(), 5, event.ID, 5, "great", true)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 6, event.ID, 3, "fine", false)
	require.NoError(t, err)

	t.Run("public view strips anonymous authors", func(t *testing.T) {
		page, err := svc.ListPublicByEvent(context.Background(), event.ID, 0, 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Feedback, 2)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, 4.0, page.Stats.AverageRating)

		anon := page.Feedback[0]
		assert.Zero(t, anon.UserID)
		require.NotNil(t, anon.User)
		assert.Equal(t, "Anonymous", anon.User.Name)

		assert.Equal(t, uint(6), page.Feedback[1].UserID)
	})

	t.Run("manager view keeps authors", func(t *testing.T) {
		manager := domain.AuthUser{ID: 3, Role: domain.RoleOrganiser}
		page, err := svc.ListByEvent(context.Background(), manager, event.ID, 0, 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Feedback, 2)
		assert.Equal(t, uint(5), page.Feedback[0].UserID)
	})

	t.Run("manager view is gated", func(t *testing.T) {
		outsider := domain.AuthUser{ID: 9, Role: domain.RoleOrganiser}
		_, err := svc.ListByEvent(context.Background(), outsider, event.ID, 0, 0, 10)
		assert.True(t, errors.Is(err, ErrNotFeedbackOwner))
	})

	t.Run("rating filter", func(t *testing.T) {
		page, err := svc.ListPublicByEvent(context.Background(), event.ID, 3, 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Feedback, 1)
		assert.Equal(t, 3, page.Feedback[0].Rating)
	})

	t.Run("own reviews", func(t *testing.T) {
		mine, total, err := svc.ListMine(context.Background(), 5, 0, 10)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		assert.Equal(t, int64(1), total)
	})
}

func TestFeedbackService_OwnerGates(t *testing.T) {
	svc, _, events, attendees := newFeedbackServiceFixture()
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})
	attendees.add(domain.Attendee{UserID: 5, EventID: event.ID, Status: domain.AttendeeStatusAttended})

	created, err := svc.Submit(context.Background(), 5, event.ID, 4, "good", false)
	require.NoError(t, err)

	t.Run("only the author may edit", func(t *testing.T) {
		rating := 2
		_, err := svc.Update(context.Background(), 9, created.ID, FeedbackUpdate{Rating: &rating})
		assert.True(t, errors.Is(err, ErrNotFeedbackOwner))

		updated, err := svc.Update(context.Background(), 5, created.ID, FeedbackUpdate{Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Rating)
		assert.Equal(t, "good", updated.Comment, "untouched fields survive")
	})

	t.Run("only the author may delete", func(t *testing.T) {
		err := svc.Delete(context.Background(), 9, created.ID)
		assert.True(t, errors.Is(err, ErrNotFeedbackOwner))

		require.NoError(t, svc.Delete(context.Background(), 5, created.ID))
		err = svc.Delete(context.Background(), 5, created.ID)
		assert.True(t, errors.Is(err, ErrFeedbackNotFound))
	})
}
