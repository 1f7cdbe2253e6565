package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var (
	ErrAttendeeExists   = dao.ErrAttendeeExists
	ErrAttendeeNotFound = dao.ErrAttendeeNotFound
)

type AttendeeDAO interface {
	Insert(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	FindByID(ctx context.Context, id uint) (dao.Attendee, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (dao.Attendee, error)
	Update(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	CountActiveByEvent(ctx context.Context, eventID uint) (int64, error)
	ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]dao.Attendee, int64, error)
	ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]dao.Attendee, int64, error)
	DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	DistinctActiveUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
	CountByEventGroupedByStatus(ctx context.Context, eventID uint) ([]dao.StatusCount, error)
	CountUpcomingByUser(ctx context.Context, userID uint, now time.Time) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error)
	CountByOrganiserEvents(ctx context.Context, organiserID uint) (int64, error)
}

type AttendeeRepository struct {
	dao AttendeeDAO
}

func NewAttendeeRepository(dao AttendeeDAO) *AttendeeRepository {
	return &AttendeeRepository{
		dao: dao,
	}
}

func (r *AttendeeRepository) Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	created, err := r.dao.Insert(ctx, attendeeToDAO(attendee))
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	found, err := r.dao.FindByID(ctx, created.ID)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return attendeeToDomain(found), nil
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id uint) (domain.Attendee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return attendeeToDomain(found), nil
}

func (r *AttendeeRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Attendee, error) {
	found, err := r.dao.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.FindByUserAndEvent -> %w", err)
	}

	return attendeeToDomain(found), nil
}

func (r *AttendeeRepository) Update(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	updated, err := r.dao.Update(ctx, attendeeToDAO(attendee))
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return attendeeToDomain(updated), nil
}

func (r *AttendeeRepository) CountActiveByEvent(ctx context.Context, eventID uint) (int64, error) {
	count, err := r.dao.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActiveByEvent -> %w", err)
	}

	return count, nil
}

func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	found, total, err := r.dao.ListByEvent(ctx, eventID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return attendeesToDomain(found), total, nil
}

func (r *AttendeeRepository) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	found, total, err := r.dao.ListByUser(ctx, userID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByUser -> %w", err)
	}

	return attendeesToDomain(found), total, nil
}

func (r *AttendeeRepository) DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	ids, err := r.dao.DistinctUserIDsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctUserIDsByEvent -> %w", err)
	}

	return ids, nil
}

func (r *AttendeeRepository) DistinctActiveUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	ids, err := r.dao.DistinctActiveUserIDsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctActiveUserIDsByEvent -> %w", err)
	}

	return ids, nil
}

func (r *AttendeeRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

// StatusBreakdown is the per-status attendance aggregate for one event.
type StatusBreakdown struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (r *AttendeeRepository) StatusBreakdownByEvent(ctx context.Context, eventID uint) ([]StatusBreakdown, error) {
	rows, err := r.dao.CountByEventGroupedByStatus(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByEventGroupedByStatus -> %w", err)
	}

	breakdown := make([]StatusBreakdown, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, StatusBreakdown{Status: row.Status, Count: row.Count})
	}

	return breakdown, nil
}

func (r *AttendeeRepository) CountUpcomingByUser(ctx context.Context, userID uint, now time.Time) (int64, error) {
	count, err := r.dao.CountUpcomingByUser(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountUpcomingByUser -> %w", err)
	}

	return count, nil
}

func (r *AttendeeRepository) CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error) {
	count, err := r.dao.CountByUserAndStatus(ctx, userID, status)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByUserAndStatus -> %w", err)
	}

	return count, nil
}

func (r *AttendeeRepository) CountByOrganiserEvents(ctx context.Context, organiserID uint) (int64, error) {
	count, err := r.dao.CountByOrganiserEvents(ctx, organiserID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByOrganiserEvents -> %w", err)
	}

	return count, nil
}

func attendeesToDomain(found []dao.Attendee) []domain.Attendee {
	attendees := make([]domain.Attendee, 0, len(found))
	for _, a := range found {
		attendees = append(attendees, attendeeToDomain(a))
	}

	return attendees
}

func attendeeToDomain(a dao.Attendee) domain.Attendee {
	attendee := domain.Attendee{
		ID:               a.ID,
		UserID:           a.UserID,
		EventID:          a.EventID,
		Status:           a.Status,
		RegistrationDate: a.RegistrationDate,
		Notes:            a.Notes,
		IsBanned:         a.IsBanned,
		BannedBy:         a.BannedBy,
		BannedAt:         a.BannedAt,
		BannedReason:     a.BannedReason,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.User.ID != 0 {
		user := userToDomain(a.User)
		attendee.User = &user
	}
	if a.Event.ID != 0 {
		event := eventToDomain(a.Event)
		attendee.Event = &event
	}

	return attendee
}

func attendeeToDAO(a domain.Attendee) dao.Attendee {
	return dao.Attendee{
		ID:               a.ID,
		UserID:           a.UserID,
		EventID:          a.EventID,
		Status:           a.Status,
		RegistrationDate: a.RegistrationDate,
		Notes:            a.Notes,
		IsBanned:         a.IsBanned,
		BannedBy:         a.BannedBy,
		BannedAt:         a.BannedAt,
		BannedReason:     a.BannedReason,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
