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
	ErrAttendeeExists   = errors.New("attendee already exists")
	ErrAttendeeNotFound = errors.New("attendee not found")
)

type Attendee struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_attendees_user_event"`
	User    User
	EventID uint `gorm:"not null;uniqueIndex:idx_attendees_user_event"`
	Event   Event

	Status           string    `gorm:"not null;default:registered;index"`
	RegistrationDate time.Time `gorm:"not null"`
	Notes            string

	IsBanned     bool `gorm:"not null;default:false"`
	BannedBy     *uint
	BannedAt     *time.Time
	BannedReason string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AttendeeDAO struct {
	db *gorm.DB
}

func NewAttendeeDAO(db *gorm.DB) *AttendeeDAO {
	return &AttendeeDAO{
		db: db,
	}
}

func (d *AttendeeDAO) Insert(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Create(&attendee)
	if result.Error != nil {
		// Two simultaneous RSVPs race on the (user_id, event_id) unique
		// index; the loser surfaces here.
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Attendee{}, ErrAttendeeExists
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByID(ctx context.Context, id uint) (Attendee, error) {
	var attendee Attendee

	result := d.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Preload("Event.AssignedOrganisers").
		First(&attendee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (Attendee, error) {
	var attendee Attendee

	result := d.db.WithContext(ctx).
		Preload("Event").
		First(&attendee, "user_id = ? AND event_id = ?", userID, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) Update(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Omit("User", "Event").Save(&attendee)
	if result.Error != nil {
		return Attendee{}, result.Error
	}

	return attendee, nil
}

// CountActiveByEvent counts rows in registered/attended state, the set
// that occupies capacity.
func (d *AttendeeDAO) CountActiveByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ? AND status IN ?", eventID, []string{"registered", "attended"}).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *AttendeeDAO) ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]Attendee, int64, error) {
	query := d.db.WithContext(ctx).Model(&Attendee{}).Where("event_id = ?", eventID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attendees []Attendee
	result := query.
		Preload("User").
		Preload("Event").
		Order("registration_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&attendees)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return attendees, total, nil
}

func (d *AttendeeDAO) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]Attendee, int64, error) {
	query := d.db.WithContext(ctx).Model(&Attendee{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attendees []Attendee
	result := query.
		Preload("Event").
		Order("registration_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&attendees)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return attendees, total, nil
}

// DistinctUserIDsByEvent returns every user holding an RSVP row for the
// event, in any status.
func (d *AttendeeDAO) DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ?", eventID).
		Distinct().
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// DistinctActiveUserIDsByEvent returns users with a registered/attended
// row, the audience for reminders.
func (d *AttendeeDAO) DistinctActiveUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ? AND status IN ?", eventID, []string{"registered", "attended"}).
		Distinct().
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *AttendeeDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Attendee{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// StatusCount is one bucket of the per-event attendance breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (d *AttendeeDAO) CountByEventGroupedByStatus(ctx context.Context, eventID uint) ([]StatusCount, error) {
	var rows []StatusCount

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// CountUpcomingByUser counts registered RSVPs whose event starts at or
// after the given instant.
func (d *AttendeeDAO) CountUpcomingByUser(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Joins("JOIN events ON events.id = attendees.event_id").
		Where("attendees.user_id = ? AND attendees.status = ? AND events.start_date >= ?", userID, "registered", now).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *AttendeeDAO) CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// CountByOrganiserEvents counts RSVP rows across every event the organiser
// is assigned to.
func (d *AttendeeDAO) CountByOrganiserEvents(ctx context.Context, organiserID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Joins("JOIN event_organisers eo ON eo.event_id = attendees.event_id").
		Where("eo.user_id = ?", organiserID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
