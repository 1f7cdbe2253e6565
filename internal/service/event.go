package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

var (
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrDeadlineAfterStart = errors.New("registration deadline must be before the event start date")
	ErrNotEventManager    = errors.New("not authorized to manage this event")
	ErrNotOrganiserRole   = errors.New("user must have organiser role")
	ErrOrganiserBanned    = errors.New("cannot assign banned user as organiser")
	ErrOrganiserAssigned  = errors.New("organiser already assigned to this event")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q repository.ListEventsQuery) ([]domain.Event, int64, error)
	ListByOrganiser(ctx context.Context, organiserID uint, offset, limit int) ([]domain.Event, int64, error)
	ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]domain.Event, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByOrganiser(ctx context.Context, organiserID uint) (int64, error)
	AppendOrganiser(ctx context.Context, eventID uint, organiser domain.User) error
	RemoveOrganiser(ctx context.Context, eventID uint, organiser domain.User) error
	FindAssignable(ctx context.Context, ids []uint) ([]domain.Event, error)
	FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

// EventUpdate carries a partial edit. Nil pointers leave the stored value
// untouched. Creator and organisers are managed through their own
// operations and cannot be edited here.
type EventUpdate struct {
	Title                   *string
	Description             *string
	Location                *string
	Category                *string
	ImageURL                *string
	StartDate               *time.Time
	RegistrationDeadline    *time.Time
	MaxAttendees            *int
	Status                  *string
	Tags                    *[]string
	AllowSponsorship        *bool
	SponsorshipRequirements *string
}

type EventService struct {
	repo         EventRepository
	users        UserRepository
	attendees    AttendeeRepository
	sponsorships SponsorshipRepository
	notifier     Notifier
}

func NewEventService(
	repo EventRepository,
	users UserRepository,
	attendees AttendeeRepository,
	sponsorships SponsorshipRepository,
	notifier Notifier,
) *EventService {
	return &EventService{
		repo:         repo,
		users:        users,
		attendees:    attendees,
		sponsorships: sponsorships,
		notifier:     notifier,
	}
}

func (s *EventService) Create(ctx context.Context, actor domain.AuthUser, event domain.Event) (domain.Event, error) {
	event.CreatedByID = actor.ID

	if event.RegistrationDeadline != nil && !event.RegistrationDeadline.Before(event.StartDate) {
		return domain.Event{}, ErrDeadlineAfterStart
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) List(ctx context.Context, q repository.ListEventsQuery) ([]domain.Event, int64, error) {
	events, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return events, total, nil
}

func (s *EventService) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, actor domain.AuthUser, id uint, update EventUpdate) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManageEvent(event) {
		return domain.Event{}, ErrNotEventManager
	}

	if update.Title != nil {
		event.Title = *update.Title
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.Category != nil {
		event.Category = *update.Category
	}
	if update.ImageURL != nil {
		event.ImageURL = *update.ImageURL
	}
	if update.StartDate != nil {
		event.StartDate = *update.StartDate
	}
	if update.RegistrationDeadline != nil {
		event.RegistrationDeadline = update.RegistrationDeadline
	}
	if update.MaxAttendees != nil {
		event.MaxAttendees = update.MaxAttendees
	}
	if update.Status != nil {
		event.Status = *update.Status
	}
	if update.Tags != nil {
		event.Tags = *update.Tags
	}
	if update.AllowSponsorship != nil {
		event.AllowSponsorship = *update.AllowSponsorship
	}
	if update.SponsorshipRequirements != nil {
		event.SponsorshipRequirements = *update.SponsorshipRequirements
	}

	if event.RegistrationDeadline != nil && !event.RegistrationDeadline.Before(event.StartDate) {
		return domain.Event{}, ErrDeadlineAfterStart
	}

	if _, err := s.repo.Update(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return s.repo.FindByID(ctx, id)
}

// Delete removes the event and notifies everyone who ever registered or
// sponsored it, each person once.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	attendeeIDs, err := s.attendees.DistinctUserIDsByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("s.attendees.DistinctUserIDsByEvent -> %w", err)
	}
	sponsorIDs, err := s.sponsorships.DistinctUserIDsByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("s.sponsorships.DistinctUserIDsByEvent -> %w", err)
	}

	recipients := dedupeIDs(attendeeIDs, sponsorIDs)
	if len(recipients) > 0 {
		tmpl := domain.EventDeletedTemplate{EventTitle: event.Title}
		if err := s.notifier.NotifyMany(ctx, recipients, tmpl, uintPtr(id)); err != nil {
			return fmt.Errorf("s.notifier.NotifyMany -> %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// AssignOrganiser adds an organiser to the event, notifies them and tells
// the event's sponsors about the change.
func (s *EventService) AssignOrganiser(ctx context.Context, actor domain.AuthUser, eventID, organiserID uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	organiser, err := s.users.FindByID(ctx, organiserID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	switch {
	case organiser.Role != domain.RoleOrganiser:
		return domain.Event{}, ErrNotOrganiserRole
	case organiser.IsBanned:
		return domain.Event{}, ErrOrganiserBanned
	case event.HasOrganiser(organiserID):
		return domain.Event{}, ErrOrganiserAssigned
	}

	if err := s.repo.AppendOrganiser(ctx, eventID, organiser); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.AppendOrganiser -> %w", err)
	}

	tmpl := domain.OrganiserAssignmentTemplate{EventTitle: event.Title, AssignedBy: actor.Name}
	if _, err := s.notifier.Notify(ctx, organiserID, tmpl, uintPtr(eventID), uintPtr(actor.ID)); err != nil {
		return domain.Event{}, fmt.Errorf("s.notifier.Notify -> %w", err)
	}

	sponsorIDs, err := s.sponsorships.DistinctUserIDsByEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.sponsorships.DistinctUserIDsByEvent -> %w", err)
	}
	if len(sponsorIDs) > 0 {
		notice := domain.SponsorOrganiserNoticeTemplate{
			EventTitle:    event.Title,
			OrganiserName: organiser.Name,
			AssignedBy:    actor.Name,
		}
		if err := s.notifier.NotifyMany(ctx, sponsorIDs, notice, uintPtr(eventID)); err != nil {
			return domain.Event{}, fmt.Errorf("s.notifier.NotifyMany -> %w", err)
		}
	}

	return s.repo.FindByID(ctx, eventID)
}

func (s *EventService) RemoveOrganiser(ctx context.Context, eventID, organiserID uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if event.HasOrganiser(organiserID) {
		if err := s.repo.RemoveOrganiser(ctx, eventID, domain.User{ID: organiserID}); err != nil {
			return domain.Event{}, fmt.Errorf("s.repo.RemoveOrganiser -> %w", err)
		}
	}

	return s.repo.FindByID(ctx, eventID)
}

// ListMine returns the caller's slice of the catalogue: admins see every
// event, organisers their assigned events, everyone else the events they
// created.
func (s *EventService) ListMine(ctx context.Context, actor domain.AuthUser, offset, limit int) ([]domain.Event, int64, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.List(ctx, repository.ListEventsQuery{
			SortBy:   "created_at",
			SortDesc: true,
			Offset:   offset,
			Limit:    limit,
		})
	case domain.RoleOrganiser:
		events, total, err := s.repo.ListByOrganiser(ctx, actor.ID, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.repo.ListByOrganiser -> %w", err)
		}
		return events, total, nil
	default:
		events, total, err := s.repo.ListByCreator(ctx, actor.ID, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.repo.ListByCreator -> %w", err)
		}
		return events, total, nil
	}
}

// EventStats is the per-event attendance and sponsorship breakdown.
type EventStats struct {
	Event            domain.Event
	AttendeeStats    []repository.StatusBreakdown
	SponsorshipStats []repository.StatusStat
}

func (s *EventService) GetStats(ctx context.Context, actor domain.AuthUser, eventID uint) (EventStats, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return EventStats{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManageEvent(event) {
		return EventStats{}, ErrNotEventManager
	}

	attendeeStats, err := s.attendees.StatusBreakdownByEvent(ctx, eventID)
	if err != nil {
		return EventStats{}, fmt.Errorf("s.attendees.StatusBreakdownByEvent -> %w", err)
	}

	sponsorshipStats, err := s.sponsorships.StatsByEvent(ctx, eventID)
	if err != nil {
		return EventStats{}, fmt.Errorf("s.sponsorships.StatsByEvent -> %w", err)
	}

	return EventStats{
		Event:            event,
		AttendeeStats:    attendeeStats,
		SponsorshipStats: sponsorshipStats,
	}, nil
}

func dedupeIDs(groups ...[]uint) []uint {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, group := range groups {
		for _, id := range group {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return ids
}
