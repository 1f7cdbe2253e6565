package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/internal/domain"
)

func newSponsorshipServiceFixture() (*SponsorshipService, *fakeSponsorshipRepo, *fakeEventRepo, *recordingNotifier) {
	sponsorships := newFakeSponsorshipRepo()
	events := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewSponsorshipService(sponsorships, events, notifier)

	return svc, sponsorships, events, notifier
}

func TestSponsorshipService_Create(t *testing.T) {
	svc, _, events, _ := newSponsorshipServiceFixture()
	closed := events.add(domain.Event{Title: "Closed", Status: domain.EventStatusPublished})
	draft := events.add(domain.Event{Title: "Draft", Status: domain.EventStatusDraft, AllowSponsorship: true})
	open := events.add(domain.Event{Title: "Hack Night", Status: domain.EventStatusPublished, AllowSponsorship: true})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 5, 999, 100, "")
		assert.True(t, errors.Is(err, ErrEventNotFound))
	})

	t.Run("sponsorship not open", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 5, closed.ID, 100, "")
		assert.True(t, errors.Is(err, ErrSponsorshipNotAllowed))
	})

	t.Run("unpublished event", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 5, draft.ID, 100, "")
		assert.True(t, errors.Is(err, ErrSponsorUnpublished))
	})

	t.Run("pledge starts pending", func(t *testing.T) {
		created, err := svc.Create(context.Background(), 5, open.ID, 250.50, "go team")
		require.NoError(t, err)
		assert.Equal(t, domain.SponsorshipStatusPending, created.Status)
		assert.Equal(t, 250.50, created.Amount)
	})

	t.Run("one pledge per event", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 5, open.ID, 300, "")
		assert.True(t, errors.Is(err, ErrAlreadySponsored))
	})
}

func TestSponsorshipService_UpdateStatus(t *testing.T) {
	svc, sponsorships, events, notifier := newSponsorshipServiceFixture()
	event := events.add(domain.Event{
		Title:              "Hack Night",
		Status:             domain.EventStatusPublished,
		AllowSponsorship:   true,
		AssignedOrganisers: []domain.User{{ID: 3}},
	})
	pledge := sponsorships.add(domain.Sponsorship{
		UserID:  5,
		EventID: event.ID,
		Amount:  500,
		Status:  domain.SponsorshipStatusPending,
		Event:   &event,
	})

	manager := domain.AuthUser{ID: 3, Role: domain.RoleOrganiser}

	t.Run("unassigned organiser is rejected", func(t *testing.T) {
		outsider := domain.AuthUser{ID: 9, Role: domain.RoleOrganiser}
		_, err := svc.UpdateStatus(context.Background(), outsider, pledge.ID, domain.SponsorshipStatusApproved, "")
		assert.True(t, errors.Is(err, ErrNotSponsorshipManager))
	})

	t.Run("approval stamps the approver and notifies", func(t *testing.T) {
		updated, err := svc.UpdateStatus(context.Background(), manager, pledge.ID, domain.SponsorshipStatusApproved, "")
		require.NoError(t, err)
		assert.Equal(t, domain.SponsorshipStatusApproved, updated.Status)
		require.NotNil(t, updated.ApprovedByID)
		assert.Equal(t, manager.ID, *updated.ApprovedByID)
		assert.NotNil(t, updated.ApprovedAt)

		require.Len(t, notifier.sent, 1)
		tmpl, ok := notifier.sent[0].Template.(domain.SponsorshipApprovedTemplate)
		require.True(t, ok)
		assert.Equal(t, 500.0, tmpl.Amount)
		assert.Equal(t, uint(5), notifier.sent[0].RecipientID)
	})

	t.Run("rejection stores the reason and clears approval", func(t *testing.T) {
		updated, err := svc.UpdateStatus(context.Background(), manager, pledge.ID, domain.SponsorshipStatusRejected, "budget cut")
		require.NoError(t, err)
		assert.Equal(t, domain.SponsorshipStatusRejected, updated.Status)
		assert.Equal(t, "budget cut", updated.RejectedReason)
		assert.Nil(t, updated.ApprovedByID)
		assert.Nil(t, updated.ApprovedAt)

		require.Len(t, notifier.sent, 2)
		tmpl, ok := notifier.sent[1].Template.(domain.SponsorshipRejectedTemplate)
		require.True(t, ok)
		assert.Equal(t, "budget cut", tmpl.Reason)
	})

	t.Run("unknown pledge", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), manager, 999, domain.SponsorshipStatusApproved, "")
		assert.True(t, errors.Is(err, ErrSponsorshipNotFound))
	})
}

func TestSponsorshipService_Listing(t *testing.T) {
	svc, sponsorships, events, _ := newSponsorshipServiceFixture()
	event := events.add(domain.Event{
		Title:            "Hack Night",
		Status:           domain.EventStatusPublished,
		AllowSponsorship: true,
	})
	sponsorships.add(domain.Sponsorship{UserID: 5, EventID: event.ID, Amount: 100, Status: domain.SponsorshipStatusApproved})
	sponsorships.add(domain.Sponsorship{UserID: 6, EventID: event.ID, Amount: 40, Status: domain.SponsorshipStatusApproved})
	sponsorships.add(domain.Sponsorship{UserID: 7, EventID: event.ID, Amount: 999, Status: domain.SponsorshipStatusPending})

	t.Run("event view is gated and sums approved pledges", func(t *testing.T) {
		member := domain.AuthUser{ID: 5, Role: domain.RoleUser}
		_, err := svc.ListByEvent(context.Background(), member, event.ID, "", 0, 10)
		assert.True(t, errors.Is(err, ErrNotSponsorshipManager))

		admin := domain.AuthUser{ID: 1, Role: domain.RoleAdmin}
		page, err := svc.ListByEvent(context.Background(), admin, event.ID, "", 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Sponsorships, 3)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 140.0, page.ApprovedAmount)

		page, err = svc.ListByEvent(context.Background(), admin, event.ID, domain.SponsorshipStatusPending, 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Sponsorships, 1)
	})

	t.Run("own pledges with approved total", func(t *testing.T) {
		page, err := svc.ListMine(context.Background(), 5, "", 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Sponsorships, 1)
		assert.Equal(t, 100.0, page.ApprovedAmount)
	})
}
