package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

var (
	ErrFeedbackNotFound         = repository.ErrFeedbackNotFound
	ErrFeedbackExists           = repository.ErrFeedbackExists
	ErrNotRegisteredForFeedback = errors.New("you must be registered for this event to submit feedback")
	ErrNotFeedbackOwner         = errors.New("not authorized to manage this feedback")
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	FindByID(ctx context.Context, id uint) (domain.Feedback, error)
	Update(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	Delete(ctx context.Context, id uint) error
	ListByEvent(ctx context.Context, eventID uint, rating, offset, limit int) ([]domain.Feedback, int64, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Feedback, int64, error)
	Stats(ctx context.Context, eventID uint) (domain.FeedbackStats, error)
}

// FeedbackUpdate is a partial edit of an existing review.
type FeedbackUpdate struct {
	Rating      *int
	Comment     *string
	IsAnonymous *bool
}

type FeedbackService struct {
	repo      FeedbackRepository
	events    EventRepository
	attendees AttendeeRepository
}

func NewFeedbackService(repo FeedbackRepository, events EventRepository, attendees AttendeeRepository) *FeedbackService {
	return &FeedbackService{
		repo:      repo,
		events:    events,
		attendees: attendees,
	}
}

// Submit records a review. Only users with an active registration for the
// event may review it, once each; the (user, event) unique index backs
// the once-each rule.
func (s *FeedbackService) Submit(ctx context.Context, userID, eventID uint, rating int, comment string, isAnonymous bool) (domain.Feedback, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return domain.Feedback{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	attendance, err := s.attendees.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, ErrAttendeeNotFound) {
			return domain.Feedback{}, ErrNotRegisteredForFeedback
		}
		return domain.Feedback{}, fmt.Errorf("s.attendees.FindByUserAndEvent -> %w", err)
	}
	if !attendance.IsActive() {
		return domain.Feedback{}, ErrNotRegisteredForFeedback
	}

	created, err := s.repo.Create(ctx, domain.Feedback{
		UserID:      userID,
		EventID:     eventID,
		Rating:      rating,
		Comment:     comment,
		IsAnonymous: isAnonymous,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// FeedbackPage is one page of reviews plus the event-wide rating stats.
type FeedbackPage struct {
	Feedback []domain.Feedback
	Stats    domain.FeedbackStats
	Total    int64
}

// ListByEvent returns an event's reviews for its managers. Anonymous
// entries keep their author because managers may need it for moderation.
func (s *FeedbackService) ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, rating, offset, limit int) (FeedbackPage, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return FeedbackPage{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !actor.CanManageEvent(event) {
		return FeedbackPage{}, ErrNotFeedbackOwner
	}

	return s.page(ctx, eventID, rating, offset, limit, false)
}

// ListPublicByEvent is the unauthenticated view. Anonymous reviews are
// stripped of their author.
func (s *FeedbackService) ListPublicByEvent(ctx context.Context, eventID uint, rating, offset, limit int) (FeedbackPage, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return FeedbackPage{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	return s.page(ctx, eventID, rating, offset, limit, true)
}

func (s *FeedbackService) page(ctx context.Context, eventID uint, rating, offset, limit int, anonymize bool) (FeedbackPage, error) {
	feedback, total, err := s.repo.ListByEvent(ctx, eventID, rating, offset, limit)
	if err != nil {
		return FeedbackPage{}, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	if anonymize {
		for i, f := range feedback {
			if f.IsAnonymous {
				feedback[i] = f.Anonymize()
			}
		}
	}

	stats, err := s.repo.Stats(ctx, eventID)
	if err != nil {
		return FeedbackPage{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	return FeedbackPage{
		Feedback: feedback,
		Stats:    stats,
		Total:    total,
	}, nil
}

func (s *FeedbackService) ListMine(ctx context.Context, userID uint, offset, limit int) ([]domain.Feedback, int64, error) {
	feedback, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	return feedback, total, nil
}

func (s *FeedbackService) Update(ctx context.Context, userID, feedbackID uint, update FeedbackUpdate) (domain.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, feedbackID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if feedback.UserID != userID {
		return domain.Feedback{}, ErrNotFeedbackOwner
	}

	if update.Rating != nil {
		feedback.Rating = *update.Rating
	}
	if update.Comment != nil {
		feedback.Comment = *update.Comment
	}
	if update.IsAnonymous != nil {
		feedback.IsAnonymous = *update.IsAnonymous
	}

	updated, err := s.repo.Update(ctx, feedback)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *FeedbackService) Delete(ctx context.Context, userID, feedbackID uint) error {
	feedback, err := s.repo.FindByID(ctx, feedbackID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if feedback.UserID != userID {
		return ErrNotFeedbackOwner
	}

	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
