package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrFeedbackExists   = errors.New("feedback already exists")
	ErrFeedbackNotFound = errors.New("feedback not found")
)

type Feedback struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_feedback_user_event"`
	User    User
	EventID uint `gorm:"not null;uniqueIndex:idx_feedback_user_event"`
	Event   Event

	Rating      int `gorm:"not null"`
	Comment     string
	IsAnonymous bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type FeedbackDAO struct {
	db *gorm.DB
}

func NewFeedbackDAO(db *gorm.DB) *FeedbackDAO {
	return &FeedbackDAO{
		db: db,
	}
}

func (d *FeedbackDAO) Insert(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := d.db.WithContext(ctx).Create(&feedback)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Feedback{}, ErrFeedbackExists
		}

		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) FindByID(ctx context.Context, id uint) (Feedback, error) {
	var feedback Feedback

	result := d.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		First(&feedback, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Feedback{}, ErrFeedbackNotFound
		}

		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) Update(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := d.db.WithContext(ctx).Omit("User", "Event").Save(&feedback)
	if result.Error != nil {
		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

func (d *FeedbackDAO) ListByEvent(ctx context.Context, eventID uint, rating, offset, limit int) ([]Feedback, int64, error) {
	query := d.db.WithContext(ctx).Model(&Feedback{}).Where("event_id = ?", eventID)
	if rating > 0 {
		query = query.Where("rating = ?", rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedback []Feedback
	result := query.
		Preload("User").
		Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&feedback)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return feedback, total, nil
}

func (d *FeedbackDAO) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]Feedback, int64, error) {
	query := d.db.WithContext(ctx).Model(&Feedback{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedback []Feedback
	result := query.
		Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&feedback)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return feedback, total, nil
}

// RatingCount is one bucket of the 1-5 rating histogram.
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// Stats computes the average rating and the per-rating histogram over all
// feedback for the event.
func (d *FeedbackDAO) Stats(ctx context.Context, eventID uint) (float64, int64, []RatingCount, error) {
	type aggregate struct {
		Average float64
		Total   int64
	}

	var agg aggregate
	result := d.db.WithContext(ctx).
		Model(&Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("event_id = ?", eventID).
		Find(&agg)
	if result.Error != nil {
		return 0, 0, nil, result.Error
	}

	var buckets []RatingCount
	result = d.db.WithContext(ctx).
		Model(&Feedback{}).
		Select("rating, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("rating").
		Find(&buckets)
	if result.Error != nil {
		return 0, 0, nil, result.Error
	}

	return agg.Average, agg.Total, buckets, nil
}
