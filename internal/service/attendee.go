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
	ErrAttendeeNotFound     = repository.ErrAttendeeNotFound
	ErrAlreadyRegistered    = repository.ErrAttendeeExists
	ErrEventNotPublished    = errors.New("cannot RSVP to unpublished event")
	ErrEventFull            = errors.New("event is full")
	ErrRegistrationClosed   = errors.New("registration deadline has passed")
	ErrRSVPAlreadyCancelled = errors.New("RSVP already cancelled")
	ErrNotAttendeeManager   = errors.New("not authorized to manage this attendee")
)

type AttendeeRepository interface {
	Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	FindByID(ctx context.Context, id uint) (domain.Attendee, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Attendee, error)
	Update(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	CountActiveByEvent(ctx context.Context, eventID uint) (int64, error)
	ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]domain.Attendee, int64, error)
	ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Attendee, int64, error)
	DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	DistinctActiveUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
	StatusBreakdownByEvent(ctx context.Context, eventID uint) ([]repository.StatusBreakdown, error)
	CountUpcomingByUser(ctx context.Context, userID uint, now time.Time) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error)
	CountByOrganiserEvents(ctx context.Context, organiserID uint) (int64, error)
}

type AttendeeService struct {
	repo     AttendeeRepository
	events   EventRepository
	notifier Notifier
}

func NewAttendeeService(repo AttendeeRepository, events EventRepository, notifier Notifier) *AttendeeService {
	return &AttendeeService{
		repo:     repo,
		events:   events,
		notifier: notifier,
	}
}

// RSVP registers the caller for an event. The checks run in a fixed
// order: the event must exist, be published, still accept registrations
// and have capacity left. A previously cancelled RSVP is reactivated
// instead of creating a second row; the (user, event) unique index
// catches concurrent duplicates.
func (s *AttendeeService) RSVP(ctx context.Context, userID, eventID uint) (domain.Attendee, bool, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, false, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !event.IsPublished() {
		return domain.Attendee{}, false, ErrEventNotPublished
	}

	now := time.Now()
	if event.RegistrationClosed(now) {
		deadline := *event.RegistrationDeadline
		return domain.Attendee{}, false, fmt.Errorf("%w. Registration closed on %s at %s",
			ErrRegistrationClosed, deadline.Format("1/2/2006"), deadline.Format("3:04:05 PM"))
	}

	if event.MaxAttendees != nil {
		active, err := s.repo.CountActiveByEvent(ctx, eventID)
		if err != nil {
			return domain.Attendee{}, false, fmt.Errorf("s.repo.CountActiveByEvent -> %w", err)
		}
		if active >= int64(*event.MaxAttendees) {
			return domain.Attendee{}, false, ErrEventFull
		}
	}

	existing, err := s.repo.FindByUserAndEvent(ctx, userID, eventID)
	switch {
	case err == nil:
		if existing.Status != domain.AttendeeStatusCancelled {
			return domain.Attendee{}, false, ErrAlreadyRegistered
		}

		existing.Status = domain.AttendeeStatusRegistered
		existing.RegistrationDate = now
		reactivated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return domain.Attendee{}, false, fmt.Errorf("s.repo.Update -> %w", err)
		}

		return reactivated, true, nil
	case !errors.Is(err, ErrAttendeeNotFound):
		return domain.Attendee{}, false, fmt.Errorf("s.repo.FindByUserAndEvent -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Attendee{
		UserID:           userID,
		EventID:          eventID,
		Status:           domain.AttendeeStatusRegistered,
		RegistrationDate: now,
	})
	if err != nil {
		return domain.Attendee{}, false, fmt.Errorf("s.repo.Create -> %w", err)
	}

	tmpl := domain.EventRegistrationTemplate{EventTitle: event.Title}
	if _, err := s.notifier.Notify(ctx, userID, tmpl, uintPtr(eventID), nil); err != nil {
		return domain.Attendee{}, false, fmt.Errorf("s.notifier.Notify -> %w", err)
	}

	return created, false, nil
}

func (s *AttendeeService) CancelRSVP(ctx context.Context, userID, eventID uint) error {
	attendee, err := s.repo.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByUserAndEvent -> %w", err)
	}

	if attendee.Status == domain.AttendeeStatusCancelled {
		return ErrRSVPAlreadyCancelled
	}

	attendee.Status = domain.AttendeeStatusCancelled
	if _, err := s.repo.Update(ctx, attendee); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	title := ""
	if attendee.Event != nil {
		title = attendee.Event.Title
	}
	tmpl := domain.RegistrationCancelledTemplate{EventTitle: title}
	if _, err := s.notifier.Notify(ctx, userID, tmpl, uintPtr(eventID), nil); err != nil {
		return fmt.Errorf("s.notifier.Notify -> %w", err)
	}

	return nil
}

func (s *AttendeeService) ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, 0, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !actor.CanManageEvent(event) {
		return nil, 0, ErrNotAttendeeManager
	}

	attendees, total, err := s.repo.ListByEvent(ctx, eventID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return attendees, total, nil
}

func (s *AttendeeService) UpdateStatus(ctx context.Context, actor domain.AuthUser, attendeeID uint, status, notes string) (domain.Attendee, error) {
	attendee, err := s.manageableAttendee(ctx, actor, attendeeID)
	if err != nil {
		return domain.Attendee{}, err
	}

	attendee.Status = status
	if notes != "" {
		attendee.Notes = notes
	}

	updated, err := s.repo.Update(ctx, attendee)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return s.repo.FindByID(ctx, updated.ID)
}

// Ban restricts a single registration without touching the account. The
// reason is mandatory.
func (s *AttendeeService) Ban(ctx context.Context, actor domain.AuthUser, attendeeID uint, reason string) error {
	attendee, err := s.manageableAttendee(ctx, actor, attendeeID)
	if err != nil {
		return err
	}

	now := time.Now()
	attendee.IsBanned = true
	attendee.BannedBy = uintPtr(actor.ID)
	attendee.BannedAt = &now
	attendee.BannedReason = reason

	if _, err := s.repo.Update(ctx, attendee); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AttendeeService) Unban(ctx context.Context, actor domain.AuthUser, attendeeID uint) error {
	attendee, err := s.manageableAttendee(ctx, actor, attendeeID)
	if err != nil {
		return err
	}

	attendee.IsBanned = false
	attendee.BannedBy = nil
	attendee.BannedAt = nil
	attendee.BannedReason = ""

	if _, err := s.repo.Update(ctx, attendee); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AttendeeService) ListMine(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	rsvps, total, err := s.repo.ListByUser(ctx, userID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	return rsvps, total, nil
}

func (s *AttendeeService) manageableAttendee(ctx context.Context, actor domain.AuthUser, attendeeID uint) (domain.Attendee, error) {
	attendee, err := s.repo.FindByID(ctx, attendeeID)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if attendee.Event == nil || !actor.CanManageEvent(*attendee.Event) {
		return domain.Attendee{}, ErrNotAttendeeManager
	}

	return attendee, nil
}
