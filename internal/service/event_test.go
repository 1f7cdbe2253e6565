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

func newEventServiceFixture() (*EventService, *fakeEventRepo, *fakeUserRepo, *fakeAttendeeRepo, *fakeSponsorshipRepo, *recordingNotifier) {
	events := newFakeEventRepo()
	users := newFakeUserRepo()
	attendees := newFakeAttendeeRepo()
	sponsorships := newFakeSponsorshipRepo()
	notifier := &recordingNotifier{}
	svc := NewEventService(events, users, attendees, sponsorships, notifier)

	return svc, events, users, attendees, sponsorships, notifier
}

func TestEventService_Create(t *testing.T) {
	svc, _, _, _, _, _ := newEventServiceFixture()
	actor := domain.AuthUser{ID: 7, Role: domain.RoleAdmin}
	start := time.Now().Add(72 * time.Hour)

	t.Run("sets the creator", func(t *testing.T) {
		created, err := svc.Create(context.Background(), actor, domain.Event{
			Title:     "Hack Night",
			StartDate: start,
			Status:    domain.EventStatusDraft,
		})
		require.NoError(t, err)
		assert.Equal(t, actor.ID, created.CreatedByID)
	})

	t.Run("rejects a deadline at or past the start", func(t *testing.T) {
		deadline := start.Add(time.Hour)
		_, err := svc.Create(context.Background(), actor, domain.Event{
			Title:                "Bad",
			StartDate:            start,
			RegistrationDeadline: &deadline,
		})
		assert.True(t, errors.Is(err, ErrDeadlineAfterStart))
	})
}

func TestEventService_Update(t *testing.T) {
	svc, events, _, _, _, _ := newEventServiceFixture()
	start := time.Now().Add(72 * time.Hour)
	event := events.add(domain.Event{
		Title:              "Hack Night",
		StartDate:          start,
		Status:             domain.EventStatusDraft,
		AssignedOrganisers: []domain.User{{ID: 3}},
	})

	t.Run("unassigned organiser is rejected", func(t *testing.T) {
		outsider := domain.AuthUser{ID: 99, Role: domain.RoleOrganiser}
		title := "Renamed"
		_, err := svc.Update(context.Background(), outsider, event.ID, EventUpdate{Title: &title})
		assert.True(t, errors.Is(err, ErrNotEventManager))
	})

	t.Run("assigned organiser applies partial edits", func(t *testing.T) {
		manager := domain.AuthUser{ID: 3, Role: domain.RoleOrganiser}
		title := "Renamed"
		status := domain.EventStatusPublished
		updated, err := svc.Update(context.Background(), manager, event.ID, EventUpdate{
			Title:  &title,
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, domain.EventStatusPublished, updated.Status)
		assert.Equal(t, start.Unix(), updated.StartDate.Unix(), "untouched fields survive")
	})

	t.Run("deadline check runs against merged state", func(t *testing.T) {
		admin := domain.AuthUser{ID: 1, Role: domain.RoleAdmin}
		late := start.Add(time.Hour)
		_, err := svc.Update(context.Background(), admin, event.ID, EventUpdate{RegistrationDeadline: &late})
		assert.True(t, errors.Is(err, ErrDeadlineAfterStart))
	})
}

func TestEventService_Delete(t *testing.T) {
	svc, events, _, attendees, sponsorships, notifier := newEventServiceFixture()
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})

	// User 10 both attends and sponsors; they must be notified once.
	attendees.add(domain.Attendee{UserID: 10, EventID: event.ID, Status: domain.AttendeeStatusRegistered})
	attendees.add(domain.Attendee{UserID: 11, EventID: event.ID, Status: domain.AttendeeStatusCancelled})
	sponsorships.add(domain.Sponsorship{UserID: 10, EventID: event.ID, Amount: 100, Status: domain.SponsorshipStatusApproved})
	sponsorships.add(domain.Sponsorship{UserID: 12, EventID: event.ID, Amount: 50, Status: domain.SponsorshipStatusPending})

	require.NoError(t, svc.Delete(context.Background(), event.ID))

	assert.Equal(t, []uint{10, 11, 12}, notifier.recipients(), "attendees and sponsors, deduplicated")
	for _, sent := range notifier.sent {
		tmpl, ok := sent.Template.(domain.EventDeletedTemplate)
		require.True(t, ok)
		assert.Equal(t, "Hack Night", tmpl.EventTitle)
	}

	_, err := svc.GetByID(context.Background(), event.ID)
	assert.True(t, errors.Is(err, ErrEventNotFound))
}

func TestEventService_AssignOrganiser(t *testing.T) {
	svc, events, users, _, sponsorships, notifier := newEventServiceFixture()
	actor := domain.AuthUser{ID: 1, Name: "Root", Role: domain.RoleAdmin}
	event := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished})
	organiser := users.add(domain.User{Name: "Org", Email: "org@example.com", Role: domain.RoleOrganiser})
	member := users.add(domain.User{Name: "Member", Email: "m@example.com", Role: domain.RoleUser})
	banned := users.add(domain.User{Name: "Banned", Email: "b@example.com", Role: domain.RoleOrganiser, IsBanned: true})
	sponsorships.add(domain.Sponsorship{UserID: 20, EventID: event.ID, Amount: 100, Status: domain.SponsorshipStatusPending})

	t.Run("requires the organiser role", func(t *testing.T) {
		_, err := svc.AssignOrganiser(context.Background(), actor, event.ID, member.ID)
		assert.True(t, errors.Is(err, ErrNotOrganiserRole))
	})

	t.Run("rejects banned organisers", func(t *testing.T) {
		_, err := svc.AssignOrganiser(context.Background(), actor, event.ID, banned.ID)
		assert.True(t, errors.Is(err, ErrOrganiserBanned))
	})

	t.Run("assigns and notifies the organiser and sponsors", func(t *testing.T) {
		updated, err := svc.AssignOrganiser(context.Background(), actor, event.ID, organiser.ID)
		require.NoError(t, err)
		assert.True(t, updated.HasOrganiser(organiser.ID))

		require.Len(t, notifier.sent, 2)
		_, ok := notifier.sent[0].Template.(domain.OrganiserAssignmentTemplate)
		assert.True(t, ok)
		notice, ok := notifier.sent[1].Template.(domain.SponsorOrganiserNoticeTemplate)
		require.True(t, ok)
		assert.Equal(t, "Org", notice.OrganiserName)
		assert.Equal(t, uint(20), notifier.sent[1].RecipientID)
	})

	t.Run("rejects double assignment", func(t *testing.T) {
		_, err := svc.AssignOrganiser(context.Background(), actor, event.ID, organiser.ID)
		assert.True(t, errors.Is(err, ErrOrganiserAssigned))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		updated, err := svc.RemoveOrganiser(context.Background(), event.ID, organiser.ID)
		require.NoError(t, err)
		assert.False(t, updated.HasOrganiser(organiser.ID))

		_, err = svc.RemoveOrganiser(context.Background(), event.ID, organiser.ID)
		assert.NoError(t, err)
	})
}

func TestEventService_ListMine(t *testing.T) {
	svc, events, _, _, _, _ := newEventServiceFixture()
	events.add(domain.Event{Title: "A", CreatedByID: 5})
	events.add(domain.Event{Title: "B", CreatedByID: 6, AssignedOrganisers: []domain.User{{ID: 7}}})

	t.Run("admins see everything", func(t *testing.T) {
		all, total, err := svc.ListMine(context.Background(), domain.AuthUser{ID: 1, Role: domain.RoleAdmin}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, int64(2), total)
	})

	t.Run("organisers see assigned events", func(t *testing.T) {
		mine, total, err := svc.ListMine(context.Background(), domain.AuthUser{ID: 7, Role: domain.RoleOrganiser}, 0, 10)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "B", mine[0].Title)
		assert.Equal(t, int64(1), total)
	})

	t.Run("members see created events", func(t *testing.T) {
		mine, _, err := svc.ListMine(context.Background(), domain.AuthUser{ID: 5, Role: domain.RoleUser}, 0, 10)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "A", mine[0].Title)
	})
}
