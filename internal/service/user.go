package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

var (
	ErrCannotBanAdmin     = errors.New("cannot ban admin users")
	ErrLastAdmin          = errors.New("cannot change role - you are the only admin")
	ErrNoAssignableEvents = errors.New("no valid events found to assign")
)

const defaultBanReason = "you have been banned due to bad behaviour"

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	List(ctx context.Context, search, role string, offset, limit int) ([]domain.User, int64, error)
	Demographics(ctx context.Context, column string) ([]repository.Demographic, error)
}

// ProfileUpdate carries the editable profile fields. Email and Name are
// mandatory, nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Email        string
	Name         string
	Age          *int
	Gender       *string
	Phone        *string
	Department   *string
	Year         *string
	Interests    *[]string
	Bio          *string
	ProfileImage *string
}

type UserService struct {
	repo         UserRepository
	events       EventRepository
	attendees    AttendeeRepository
	sponsorships SponsorshipRepository
	notifier     Notifier
}

func NewUserService(
	repo UserRepository,
	events EventRepository,
	attendees AttendeeRepository,
	sponsorships SponsorshipRepository,
	notifier Notifier,
) *UserService {
	return &UserService{
		repo:         repo,
		events:       events,
		attendees:    attendees,
		sponsorships: sponsorships,
		notifier:     notifier,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context, search, role string, offset, limit int) ([]domain.User, int64, error) {
	users, total, err := s.repo.List(ctx, search, role, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, total, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user.Email = update.Email
	user.Name = update.Name

	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Department != nil {
		user.Department = *update.Department
	}
	if update.Year != nil {
		user.Year = *update.Year
	}
	if update.Interests != nil {
		user.Interests = *update.Interests
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hashed)

	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

// Ban restricts an account. Admin accounts cannot be banned.
func (s *UserService) Ban(ctx context.Context, actor domain.AuthUser, userID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if user.Role == domain.RoleAdmin {
		return ErrCannotBanAdmin
	}

	now := time.Now()
	user.IsBanned = true
	user.BannedBy = uintPtr(actor.ID)
	user.BannedAt = &now
	user.BannedReason = defaultBanReason

	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	tmpl := domain.UserBannedTemplate{Reason: defaultBanReason, BannedBy: actor.Name}
	if _, err := s.notifier.Notify(ctx, userID, tmpl, nil, uintPtr(actor.ID)); err != nil {
		return fmt.Errorf("s.notifier.Notify -> %w", err)
	}

	return nil
}

func (s *UserService) Unban(ctx context.Context, actor domain.AuthUser, userID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user.IsBanned = false
	user.BannedBy = nil
	user.BannedAt = nil
	user.BannedReason = ""

	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	tmpl := domain.UserUnbannedTemplate{UnbannedBy: actor.Name}
	if _, err := s.notifier.Notify(ctx, userID, tmpl, nil, uintPtr(actor.ID)); err != nil {
		return fmt.Errorf("s.notifier.Notify -> %w", err)
	}

	return nil
}

// ChangeRole updates a user's role. When the new role is organiser and
// event IDs are given, the user is also assigned to those events and
// notified once per event. An admin cannot demote themselves while they
// are the last admin on the system.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.AuthUser, userID uint, role string, eventIDs []uint) (domain.User, []domain.Event, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if actor.ID == userID && actor.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		adminCount, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return domain.User{}, nil, fmt.Errorf("s.repo.CountByRole -> %w", err)
		}
		if adminCount == 1 {
			return domain.User{}, nil, ErrLastAdmin
		}
	}

	oldRole := user.Role
	user.Role = role

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if role == domain.RoleOrganiser && len(eventIDs) > 0 {
		assigned, err := s.assignToEvents(ctx, actor, updated, eventIDs)
		if err != nil {
			return domain.User{}, nil, err
		}

		return updated, assigned, nil
	}

	if oldRole != role {
		tmpl := domain.RoleChangeTemplate{NewRole: role, ChangedBy: actor.Name}
		if _, err := s.notifier.Notify(ctx, userID, tmpl, nil, uintPtr(actor.ID)); err != nil {
			return domain.User{}, nil, fmt.Errorf("s.notifier.Notify -> %w", err)
		}
	}

	return updated, nil, nil
}

func (s *UserService) assignToEvents(ctx context.Context, actor domain.AuthUser, user domain.User, eventIDs []uint) ([]domain.Event, error) {
	events, err := s.events.FindAssignable(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindAssignable -> %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoAssignableEvents
	}

	assigned := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if !event.HasOrganiser(user.ID) {
			if err := s.events.AppendOrganiser(ctx, event.ID, user); err != nil {
				return nil, fmt.Errorf("s.events.AppendOrganiser -> %w", err)
			}
		}

		refreshed, err := s.events.FindByID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("s.events.FindByID -> %w", err)
		}
		assigned = append(assigned, refreshed)

		tmpl := domain.EventAssignmentTemplate{EventTitle: event.Title, AssignedBy: actor.Name}
		if _, err := s.notifier.Notify(ctx, user.ID, tmpl, uintPtr(event.ID), uintPtr(actor.ID)); err != nil {
			return nil, fmt.Errorf("s.notifier.Notify -> %w", err)
		}
	}

	return assigned, nil
}

// AdminDashboard aggregates platform-wide figures for admins.
type AdminDashboard struct {
	TotalUsers             int64
	TotalEvents            int64
	TotalAttendees         int64
	TotalSponsorships      int64
	RoleDistribution       []repository.Demographic
	GenderDistribution     []repository.Demographic
	DepartmentDistribution []repository.Demographic
	RecentEvents           []domain.Event
}

// OrganiserDashboard summarizes the events the organiser runs.
type OrganiserDashboard struct {
	AssignedEvents int64
	TotalAttendees int64
	MyEvents       []domain.Event
}

// MemberDashboard summarizes a regular user's registrations.
type MemberDashboard struct {
	RegisteredEvents      int64
	UpcomingEventsCount   int64
	UpcomingRegistrations []domain.Attendee
	PastRegistrations     []domain.Attendee
}

// Dashboard is the role-shaped home screen payload. Exactly one of the
// role sections is set.
type Dashboard struct {
	User      domain.User
	Admin     *AdminDashboard
	Organiser *OrganiserDashboard
	Member    *MemberDashboard
}

func (s *UserService) GetDashboard(ctx context.Context, userID uint) (Dashboard, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	dashboard := Dashboard{User: user}

	switch user.Role {
	case domain.RoleAdmin:
		admin, err := s.adminDashboard(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		dashboard.Admin = admin
	case domain.RoleOrganiser:
		organiser, err := s.organiserDashboard(ctx, userID)
		if err != nil {
			return Dashboard{}, err
		}
		dashboard.Organiser = organiser
	default:
		member, err := s.memberDashboard(ctx, userID)
		if err != nil {
			return Dashboard{}, err
		}
		dashboard.Member = member
	}

	return dashboard, nil
}

// adminDashboard fans its independent aggregate queries out in parallel
// and fails on the first error.
func (s *UserService) adminDashboard(ctx context.Context) (*AdminDashboard, error) {
	var (
		dashboard AdminDashboard
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
	)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("s.repo.Count -> %w", err)
		}
		dashboard.TotalUsers = count
		return nil
	})
	run(func() error {
		count, err := s.events.Count(ctx)
		if err != nil {
			return fmt.Errorf("s.events.Count -> %w", err)
		}
		dashboard.TotalEvents = count
		return nil
	})
	run(func() error {
		count, err := s.attendees.Count(ctx)
		if err != nil {
			return fmt.Errorf("s.attendees.Count -> %w", err)
		}
		dashboard.TotalAttendees = count
		return nil
	})
	run(func() error {
		count, err := s.sponsorships.Count(ctx)
		if err != nil {
			return fmt.Errorf("s.sponsorships.Count -> %w", err)
		}
		dashboard.TotalSponsorships = count
		return nil
	})
	run(func() error {
		roles, err := s.repo.Demographics(ctx, "role")
		if err != nil {
			return fmt.Errorf("s.repo.Demographics -> %w", err)
		}
		dashboard.RoleDistribution = roles
		return nil
	})
	run(func() error {
		genders, err := s.repo.Demographics(ctx, "gender")
		if err != nil {
			return fmt.Errorf("s.repo.Demographics -> %w", err)
		}
		dashboard.GenderDistribution = genders
		return nil
	})
	run(func() error {
		departments, err := s.repo.Demographics(ctx, "department")
		if err != nil {
			return fmt.Errorf("s.repo.Demographics -> %w", err)
		}
		dashboard.DepartmentDistribution = departments
		return nil
	})
	run(func() error {
		events, _, err := s.events.List(ctx, repository.ListEventsQuery{
			SortBy:   "created_at",
			SortDesc: true,
			Limit:    5,
		})
		if err != nil {
			return fmt.Errorf("s.events.List -> %w", err)
		}
		dashboard.RecentEvents = events
		return nil
	})

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	return &dashboard, nil
}

func (s *UserService) organiserDashboard(ctx context.Context, userID uint) (*OrganiserDashboard, error) {
	assignedCount, err := s.events.CountByOrganiser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.events.CountByOrganiser -> %w", err)
	}

	attendeeCount, err := s.attendees.CountByOrganiserEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.attendees.CountByOrganiserEvents -> %w", err)
	}

	myEvents, _, err := s.events.ListByOrganiser(ctx, userID, 0, 5)
	if err != nil {
		return nil, fmt.Errorf("s.events.ListByOrganiser -> %w", err)
	}

	return &OrganiserDashboard{
		AssignedEvents: assignedCount,
		TotalAttendees: attendeeCount,
		MyEvents:       myEvents,
	}, nil
}

func (s *UserService) memberDashboard(ctx context.Context, userID uint) (*MemberDashboard, error) {
	registered, err := s.attendees.CountByUserAndStatus(ctx, userID, domain.AttendeeStatusRegistered)
	if err != nil {
		return nil, fmt.Errorf("s.attendees.CountByUserAndStatus -> %w", err)
	}

	now := time.Now()
	upcomingCount, err := s.attendees.CountUpcomingByUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("s.attendees.CountUpcomingByUser -> %w", err)
	}

	registrations, _, err := s.attendees.ListByUser(ctx, userID, domain.AttendeeStatusRegistered, 0, 10)
	if err != nil {
		return nil, fmt.Errorf("s.attendees.ListByUser -> %w", err)
	}

	var upcoming, past []domain.Attendee
	for _, registration := range registrations {
		if registration.Event == nil {
			continue
		}
		if registration.Event.StartDate.Before(now) {
			past = append(past, registration)
		} else {
			upcoming = append(upcoming, registration)
		}
	}
	if len(past) > 3 {
		past = past[:3]
	}

	return &MemberDashboard{
		RegisteredEvents:      registered,
		UpcomingEventsCount:   upcomingCount,
		UpcomingRegistrations: upcoming,
		PastRegistrations:     past,
	}, nil
}
