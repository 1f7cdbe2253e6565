package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

// ListEventsQuery mirrors the public listing filters.
type ListEventsQuery struct {
	Search   string
	Category string
	Status   string
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q dao.ListEventsQuery) ([]dao.Event, int64, error)
	ListByOrganiser(ctx context.Context, organiserID uint, offset, limit int) ([]dao.Event, int64, error)
	ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]dao.Event, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByOrganiser(ctx context.Context, organiserID uint) (int64, error)
	AppendOrganiser(ctx context.Context, event dao.Event, organiser dao.User) error
	RemoveOrganiser(ctx context.Context, event dao.Event, organiser dao.User) error
	FindByIDsExcludingStatus(ctx context.Context, ids []uint, excluded string) ([]dao.Event, error)
	FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]dao.Event, error)
	LoadCounts(ctx context.Context, eventIDs []uint) (map[uint]dao.EventCounts, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.FindByID(ctx, created.ID)
}

// FindByID loads the event with its creator, organisers and derived counts.
func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	event := eventToDomain(found)
	counts, err := r.dao.LoadCounts(ctx, []uint{id})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.LoadCounts -> %w", err)
	}
	event.AttendeeCount = counts[id].AttendeeCount
	event.SponsorCount = counts[id].SponsorCount

	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) List(ctx context.Context, q ListEventsQuery) ([]domain.Event, int64, error) {
	found, total, err := r.dao.List(ctx, dao.ListEventsQuery{
		Search:   q.Search,
		Category: q.Category,
		Status:   q.Status,
		SortBy:   q.SortBy,
		SortDesc: q.SortDesc,
		Offset:   q.Offset,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	events, err := r.withCounts(ctx, found)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventRepository) ListByOrganiser(ctx context.Context, organiserID uint, offset, limit int) ([]domain.Event, int64, error) {
	found, total, err := r.dao.ListByOrganiser(ctx, organiserID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByOrganiser -> %w", err)
	}

	events, err := r.withCounts(ctx, found)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventRepository) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]domain.Event, int64, error) {
	found, total, err := r.dao.ListByCreator(ctx, creatorID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByCreator -> %w", err)
	}

	events, err := r.withCounts(ctx, found)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) CountByOrganiser(ctx context.Context, organiserID uint) (int64, error) {
	count, err := r.dao.CountByOrganiser(ctx, organiserID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByOrganiser -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) AppendOrganiser(ctx context.Context, eventID uint, organiser domain.User) error {
	if err := r.dao.AppendOrganiser(ctx, dao.Event{ID: eventID}, dao.User{ID: organiser.ID}); err != nil {
		return fmt.Errorf("r.dao.AppendOrganiser -> %w", err)
	}

	return nil
}

func (r *EventRepository) RemoveOrganiser(ctx context.Context, eventID uint, organiser domain.User) error {
	if err := r.dao.RemoveOrganiser(ctx, dao.Event{ID: eventID}, dao.User{ID: organiser.ID}); err != nil {
		return fmt.Errorf("r.dao.RemoveOrganiser -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindAssignable(ctx context.Context, ids []uint) ([]domain.Event, error) {
	found, err := r.dao.FindByIDsExcludingStatus(ctx, ids, domain.EventStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDsExcludingStatus -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	found, err := r.dao.FindPublishedStartingBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublishedStartingBetween -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) withCounts(ctx context.Context, found []dao.Event) ([]domain.Event, error) {
	ids := make([]uint, 0, len(found))
	for _, e := range found {
		ids = append(ids, e.ID)
	}

	counts, err := r.dao.LoadCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LoadCounts -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		event := eventToDomain(e)
		event.AttendeeCount = counts[e.ID].AttendeeCount
		event.SponsorCount = counts[e.ID].SponsorCount
		events = append(events, event)
	}

	return events, nil
}

func eventToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                      e.ID,
		Title:                   e.Title,
		Description:             e.Description,
		Location:                e.Location,
		Category:                e.Category,
		ImageURL:                e.ImageURL,
		StartDate:               e.StartDate,
		RegistrationDeadline:    e.RegistrationDeadline,
		AllowSponsorship:        e.AllowSponsorship,
		SponsorshipRequirements: e.SponsorshipRequirements,
		CreatedByID:             e.CreatedByID,
		MaxAttendees:            e.MaxAttendees,
		Status:                  e.Status,
		Tags:                    e.Tags,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}

	if e.CreatedBy.ID != 0 {
		creator := userToDomain(e.CreatedBy)
		event.CreatedBy = &creator
	}

	event.AssignedOrganisers = make([]domain.User, 0, len(e.AssignedOrganisers))
	for _, o := range e.AssignedOrganisers {
		event.AssignedOrganisers = append(event.AssignedOrganisers, userToDomain(o))
	}

	return event
}

func eventToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:                      e.ID,
		Title:                   e.Title,
		Description:             e.Description,
		Location:                e.Location,
		Category:                e.Category,
		ImageURL:                e.ImageURL,
		StartDate:               e.StartDate,
		RegistrationDeadline:    e.RegistrationDeadline,
		AllowSponsorship:        e.AllowSponsorship,
		SponsorshipRequirements: e.SponsorshipRequirements,
		CreatedByID:             e.CreatedByID,
		MaxAttendees:            e.MaxAttendees,
		Status:                  e.Status,
		Tags:                    e.Tags,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
}
