package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	InsertBatch(ctx context.Context, notifications []dao.Notification) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (dao.Notification, error)
	Update(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	MarkAllRead(ctx context.Context, userID uint, at time.Time) error
	Delete(ctx context.Context, id, userID uint) error
	ListByUser(ctx context.Context, userID uint, isRead *bool, offset, limit int) ([]dao.Notification, int64, error)
	CountUnreadByUser(ctx context.Context, userID uint) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	StatsByUser(ctx context.Context, userID uint) ([]dao.KindStat, error)
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Insert(ctx, notificationToDAO(notification))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return notificationToDomain(created), nil
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	batch := make([]dao.Notification, 0, len(notifications))
	for _, n := range notifications {
		batch = append(batch, notificationToDAO(n))
	}

	if err := r.dao.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (domain.Notification, error) {
	found, err := r.dao.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.FindByIDAndUser -> %w", err)
	}

	return notificationToDomain(found), nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	updated, err := r.dao.Update(ctx, notificationToDAO(notification))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return notificationToDomain(updated), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) error {
	if err := r.dao.MarkAllRead(ctx, userID, at); err != nil {
		return fmt.Errorf("r.dao.MarkAllRead -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID uint) error {
	if err := r.dao.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, isRead *bool, offset, limit int) ([]domain.Notification, int64, error) {
	found, total, err := r.dao.ListByUser(ctx, userID, isRead, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByUser -> %w", err)
	}

	notifications := make([]domain.Notification, 0, len(found))
	for _, n := range found {
		notifications = append(notifications, notificationToDomain(n))
	}

	return notifications, total, nil
}

func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	count, err := r.dao.CountUnreadByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountUnreadByUser -> %w", err)
	}

	return count, nil
}

func (r *NotificationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	count, err := r.dao.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByUser -> %w", err)
	}

	return count, nil
}

// KindBreakdown is the per-type notification aggregate for one user.
type KindBreakdown struct {
	Kind        string `json:"type"`
	Count       int64  `json:"count"`
	UnreadCount int64  `json:"unread_count"`
}

func (r *NotificationRepository) StatsByUser(ctx context.Context, userID uint) ([]KindBreakdown, error) {
	rows, err := r.dao.StatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.StatsByUser -> %w", err)
	}

	stats := make([]KindBreakdown, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, KindBreakdown{Kind: row.Kind, Count: row.Count, UnreadCount: row.UnreadCount})
	}

	return stats, nil
}

func notificationToDomain(n dao.Notification) domain.Notification {
	notification := domain.Notification{
		ID:             n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		Kind:           domain.NotificationKind(n.Kind),
		RelatedEventID: n.RelatedEventID,
		RelatedUserID:  n.RelatedUserID,
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}

	if n.RelatedEvent != nil && n.RelatedEvent.ID != 0 {
		event := eventToDomain(*n.RelatedEvent)
		notification.RelatedEvent = &event
	}
	if n.RelatedUser != nil && n.RelatedUser.ID != 0 {
		user := userToDomain(*n.RelatedUser)
		notification.RelatedUser = &user
	}

	return notification
}

func notificationToDAO(n domain.Notification) dao.Notification {
	return dao.Notification{
		ID:             n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		Kind:           string(n.Kind),
		RelatedEventID: n.RelatedEventID,
		RelatedUserID:  n.RelatedUserID,
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}
