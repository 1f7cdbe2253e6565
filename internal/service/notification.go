package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

// Notifier delivers rendered notification templates. Delivery is
// fire-and-forget: a failure propagates to the caller, nothing retries.
type Notifier interface {
	Notify(ctx context.Context, recipientID uint, tmpl domain.Template, relatedEventID, relatedUserID *uint) (domain.Notification, error)
	NotifyMany(ctx context.Context, recipientIDs []uint, tmpl domain.Template, relatedEventID *uint) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	CreateBatch(ctx context.Context, notifications []domain.Notification) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (domain.Notification, error)
	Update(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	MarkAllRead(ctx context.Context, userID uint, at time.Time) error
	Delete(ctx context.Context, id, userID uint) error
	ListByUser(ctx context.Context, userID uint, isRead *bool, offset, limit int) ([]domain.Notification, int64, error)
	CountUnreadByUser(ctx context.Context, userID uint) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	StatsByUser(ctx context.Context, userID uint) ([]repository.KindBreakdown, error)
}

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uint, tmpl domain.Template, relatedEventID, relatedUserID *uint) (domain.Notification, error) {
	title, message, kind := tmpl.Render()

	created, err := s.repo.Create(ctx, domain.Notification{
		UserID:         recipientID,
		Title:          title,
		Message:        message,
		Kind:           kind,
		RelatedEventID: relatedEventID,
		RelatedUserID:  relatedUserID,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// NotifyMany renders the template once and inserts one row per recipient
// in a single batched write.
func (s *NotificationService) NotifyMany(ctx context.Context, recipientIDs []uint, tmpl domain.Template, relatedEventID *uint) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	title, message, kind := tmpl.Render()

	notifications := make([]domain.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		notifications = append(notifications, domain.Notification{
			UserID:         id,
			Title:          title,
			Message:        message,
			Kind:           kind,
			RelatedEventID: relatedEventID,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	return nil
}

// NotificationPage is one page of a user's notifications with the running
// unread counter.
type NotificationPage struct {
	Notifications []domain.Notification
	UnreadCount   int64
	Total         int64
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uint, isRead *bool, offset, limit int) (NotificationPage, error) {
	notifications, total, err := s.repo.ListByUser(ctx, userID, isRead, offset, limit)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	unread, err := s.repo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("s.repo.CountUnreadByUser -> %w", err)
	}

	return NotificationPage{
		Notifications: notifications,
		UnreadCount:   unread,
		Total:         total,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) (domain.Notification, error) {
	notification, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByIDAndUser -> %w", err)
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now

	updated, err := s.repo.Update(ctx, notification)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.MarkAllRead(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("s.repo.MarkAllRead -> %w", err)
	}

	return nil
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// NotificationStats summarizes a user's notifications.
type NotificationStats struct {
	Total         int64
	Unread        int64
	KindBreakdown []repository.KindBreakdown
}

func (s *NotificationService) GetStats(ctx context.Context, userID uint) (NotificationStats, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return NotificationStats{}, fmt.Errorf("s.repo.CountByUser -> %w", err)
	}

	unread, err := s.repo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return NotificationStats{}, fmt.Errorf("s.repo.CountUnreadByUser -> %w", err)
	}

	breakdown, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		return NotificationStats{}, fmt.Errorf("s.repo.StatsByUser -> %w", err)
	}

	return NotificationStats{
		Total:         total,
		Unread:        unread,
		KindBreakdown: breakdown,
	}, nil
}

func uintPtr(v uint) *uint {
	return &v
}
