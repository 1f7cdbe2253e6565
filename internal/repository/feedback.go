package repository

import (
	"context"
	"fmt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var (
	ErrFeedbackExists   = dao.ErrFeedbackExists
	ErrFeedbackNotFound = dao.ErrFeedbackNotFound
)

type FeedbackDAO interface {
	Insert(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	FindByID(ctx context.Context, id uint) (dao.Feedback, error)
	Update(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	Delete(ctx context.Context, id uint) error
	ListByEvent(ctx context.Context, eventID uint, rating, offset, limit int) ([]dao.Feedback, int64, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]dao.Feedback, int64, error)
	Stats(ctx context.Context, eventID uint) (float64, int64, []dao.RatingCount, error)
}

type FeedbackRepository struct {
	dao FeedbackDAO
}

func NewFeedbackRepository(dao FeedbackDAO) *FeedbackRepository {
	return &FeedbackRepository{
		dao: dao,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	created, err := r.dao.Insert(ctx, feedbackToDAO(feedback))
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	found, err := r.dao.FindByID(ctx, created.ID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return feedbackToDomain(found), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id uint) (domain.Feedback, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return feedbackToDomain(found), nil
}

func (r *FeedbackRepository) Update(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	updated, err := r.dao.Update(ctx, feedbackToDAO(feedback))
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return feedbackToDomain(updated), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *FeedbackRepository) ListByEvent(ctx context.Context, eventID uint, rating, offset, limit int) ([]domain.Feedback, int64, error) {
	found, total, err := r.dao.ListByEvent(ctx, eventID, rating, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return feedbackListToDomain(found), total, nil
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Feedback, int64, error) {
	found, total, err := r.dao.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByUser -> %w", err)
	}

	return feedbackListToDomain(found), total, nil
}

// Stats aggregates the event's feedback into an average, a total and a
// full 1-5 histogram with zeroed missing buckets.
func (r *FeedbackRepository) Stats(ctx context.Context, eventID uint) (domain.FeedbackStats, error) {
	average, total, buckets, err := r.dao.Stats(ctx, eventID)
	if err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, b := range buckets {
		distribution[b.Rating] = int(b.Count)
	}

	return domain.FeedbackStats{
		AverageRating: average,
		TotalFeedback: total,
		Distribution:  distribution,
	}, nil
}

func feedbackListToDomain(found []dao.Feedback) []domain.Feedback {
	feedback := make([]domain.Feedback, 0, len(found))
	for _, f := range found {
		feedback = append(feedback, feedbackToDomain(f))
	}

	return feedback
}

func feedbackToDomain(f dao.Feedback) domain.Feedback {
	feedback := domain.Feedback{
		ID:          f.ID,
		UserID:      f.UserID,
		EventID:     f.EventID,
		Rating:      f.Rating,
		Comment:     f.Comment,
		IsAnonymous: f.IsAnonymous,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}

	if f.User.ID != 0 {
		user := userToDomain(f.User)
		feedback.User = &user
	}
	if f.Event.ID != 0 {
		event := eventToDomain(f.Event)
		feedback.Event = &event
	}

	return feedback
}

func feedbackToDAO(f domain.Feedback) dao.Feedback {
	return dao.Feedback{
		ID:          f.ID,
		UserID:      f.UserID,
		EventID:     f.EventID,
		Rating:      f.Rating,
		Comment:     f.Comment,
		IsAnonymous: f.IsAnonymous,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
