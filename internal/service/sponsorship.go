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
	ErrSponsorshipNotFound   = repository.ErrSponsorshipNotFound
	ErrAlreadySponsored      = repository.ErrSponsorshipExists
	ErrSponsorshipNotAllowed = errors.New("this event does not allow sponsorships")
	ErrSponsorUnpublished    = errors.New("cannot sponsor unpublished event")
	ErrNotSponsorshipManager = errors.New("not authorized to manage this sponsorship")
)

type SponsorshipRepository interface {
	Create(ctx context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error)
	FindByID(ctx context.Context, id uint) (domain.Sponsorship, error)
	Update(ctx context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error)
	ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error)
	ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error)
	SumApprovedByEvent(ctx context.Context, eventID uint) (float64, error)
	SumApprovedByUser(ctx context.Context, userID uint) (float64, error)
	DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
	StatsByEvent(ctx context.Context, eventID uint) ([]repository.StatusStat, error)
}

type SponsorshipService struct {
	repo     SponsorshipRepository
	events   EventRepository
	notifier Notifier
}

func NewSponsorshipService(repo SponsorshipRepository, events EventRepository, notifier Notifier) *SponsorshipService {
	return &SponsorshipService{
		repo:     repo,
		events:   events,
		notifier: notifier,
	}
}

// Create submits a pending pledge. The event must be published and open
// to sponsorship, and each user may pledge at most once per event.
func (s *SponsorshipService) Create(ctx context.Context, userID, eventID uint, amount float64, message string) (domain.Sponsorship, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !event.AllowSponsorship {
		return domain.Sponsorship{}, ErrSponsorshipNotAllowed
	}
	if !event.IsPublished() {
		return domain.Sponsorship{}, ErrSponsorUnpublished
	}

	created, err := s.repo.Create(ctx, domain.Sponsorship{
		UserID:  userID,
		EventID: eventID,
		Amount:  amount,
		Message: message,
		Status:  domain.SponsorshipStatusPending,
	})
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// SponsorshipPage is one page of pledges plus the approved total for the
// same scope.
type SponsorshipPage struct {
	Sponsorships   []domain.Sponsorship
	ApprovedAmount float64
	Total          int64
}

func (s *SponsorshipService) ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, status string, offset, limit int) (SponsorshipPage, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return SponsorshipPage{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !actor.CanManageEvent(event) {
		return SponsorshipPage{}, ErrNotSponsorshipManager
	}

	sponsorships, total, err := s.repo.ListByEvent(ctx, eventID, status, offset, limit)
	if err != nil {
		return SponsorshipPage{}, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	approved, err := s.repo.SumApprovedByEvent(ctx, eventID)
	if err != nil {
		return SponsorshipPage{}, fmt.Errorf("s.repo.SumApprovedByEvent -> %w", err)
	}

	return SponsorshipPage{
		Sponsorships:   sponsorships,
		ApprovedAmount: approved,
		Total:          total,
	}, nil
}

// UpdateStatus approves or rejects a pledge and notifies the sponsor.
func (s *SponsorshipService) UpdateStatus(ctx context.Context, actor domain.AuthUser, sponsorshipID uint, status, rejectedReason string) (domain.Sponsorship, error) {
	sponsorship, err := s.repo.FindByID(ctx, sponsorshipID)
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if sponsorship.Event == nil || !actor.CanManageEvent(*sponsorship.Event) {
		return domain.Sponsorship{}, ErrNotSponsorshipManager
	}

	var tmpl domain.Template
	switch status {
	case domain.SponsorshipStatusApproved:
		sponsorship.Approve(actor.ID, time.Now())
		tmpl = domain.SponsorshipApprovedTemplate{
			EventTitle: sponsorship.Event.Title,
			Amount:     sponsorship.Amount,
		}
	case domain.SponsorshipStatusRejected:
		sponsorship.Reject(rejectedReason)
		tmpl = domain.SponsorshipRejectedTemplate{
			EventTitle: sponsorship.Event.Title,
			Reason:     rejectedReason,
		}
	default:
		sponsorship.Status = status
	}

	updated, err := s.repo.Update(ctx, sponsorship)
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if tmpl != nil {
		if _, err := s.notifier.Notify(ctx, sponsorship.UserID, tmpl, uintPtr(sponsorship.EventID), nil); err != nil {
			return domain.Sponsorship{}, fmt.Errorf("s.notifier.Notify -> %w", err)
		}
	}

	return updated, nil
}

func (s *SponsorshipService) ListMine(ctx context.Context, userID uint, status string, offset, limit int) (SponsorshipPage, error) {
	sponsorships, total, err := s.repo.ListByUser(ctx, userID, status, offset, limit)
	if err != nil {
		return SponsorshipPage{}, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	approved, err := s.repo.SumApprovedByUser(ctx, userID)
	if err != nil {
		return SponsorshipPage{}, fmt.Errorf("s.repo.SumApprovedByUser -> %w", err)
	}

	return SponsorshipPage{
		Sponsorships:   sponsorships,
		ApprovedAmount: approved,
		Total:          total,
	}, nil
}
