package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index:idx_notifications_user_created"`
	User   User

	Title   string `gorm:"not null"`
	Message string `gorm:"not null"`
	Kind    string `gorm:"column:type;not null"`

	RelatedEventID *uint
	RelatedEvent   *Event
	RelatedUserID  *uint
	RelatedUser    *User `gorm:"foreignKey:RelatedUserID"`

	IsRead bool `gorm:"not null;default:false;index:idx_notifications_user_read"`
	ReadAt *time.Time

	CreatedAt time.Time `gorm:"not null;index:idx_notifications_user_created"`
	UpdatedAt time.Time `gorm:"not null"`
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notification Notification) (Notification, error) {
	result := d.db.WithContext(ctx).Create(&notification)
	if result.Error != nil {
		return Notification{}, result.Error
	}

	return notification, nil
}

// InsertBatch persists many notifications in one write. Used for fan-outs
// (reminders, event deletion).
func (d *NotificationDAO) InsertBatch(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Create(&notifications)

	return result.Error
}

func (d *NotificationDAO) FindByIDAndUser(ctx context.Context, id, userID uint) (Notification, error) {
	var notification Notification

	result := d.db.WithContext(ctx).First(&notification, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Notification{}, ErrNotificationNotFound
		}

		return Notification{}, result.Error
	}

	return notification, nil
}

func (d *NotificationDAO) Update(ctx context.Context, notification Notification) (Notification, error) {
	result := d.db.WithContext(ctx).Omit("User", "RelatedEvent", "RelatedUser").Save(&notification)
	if result.Error != nil {
		return Notification{}, result.Error
	}

	return notification, nil
}

func (d *NotificationDAO) MarkAllRead(ctx context.Context, userID uint, at time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})

	return result.Error
}

func (d *NotificationDAO) Delete(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// ListByUser returns one page of the user's notifications, optionally
// filtered by read state, newest first.
func (d *NotificationDAO) ListByUser(ctx context.Context, userID uint, isRead *bool, offset, limit int) ([]Notification, int64, error) {
	query := d.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []Notification
	result := query.
		Preload("RelatedEvent").
		Preload("RelatedUser").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return notifications, total, nil
}

func (d *NotificationDAO) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *NotificationDAO) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// KindStat is one bucket of the per-type notification breakdown.
type KindStat struct {
	Kind        string `gorm:"column:type" json:"type"`
	Count       int64  `json:"count"`
	UnreadCount int64  `json:"unread_count"`
}

func (d *NotificationDAO) StatsByUser(ctx context.Context, userID uint) ([]KindStat, error) {
	var rows []KindStat

	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Select("type, COUNT(*) AS count, COUNT(*) FILTER (WHERE is_read = false) AS unread_count").
		Where("user_id = ?", userID).
		Group("type").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
