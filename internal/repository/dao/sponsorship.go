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
	ErrSponsorshipExists   = errors.New("sponsorship already exists")
	ErrSponsorshipNotFound = errors.New("sponsorship not found")
)

type Sponsorship struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_sponsorships_user_event"`
	User    User
	EventID uint `gorm:"not null;uniqueIndex:idx_sponsorships_user_event"`
	Event   Event

	Amount  float64 `gorm:"not null"`
	Message string
	Status  string `gorm:"not null;default:pending;index"`

	ApprovedByID   *uint
	ApprovedBy     *User
	ApprovedAt     *time.Time
	RejectedReason string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SponsorshipDAO struct {
	db *gorm.DB
}

func NewSponsorshipDAO(db *gorm.DB) *SponsorshipDAO {
	return &SponsorshipDAO{
		db: db,
	}
}

func (d *SponsorshipDAO) Insert(ctx context.Context, sponsorship Sponsorship) (Sponsorship, error) {
	result := d.db.WithContext(ctx).Create(&sponsorship)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Sponsorship{}, ErrSponsorshipExists
		}

		return Sponsorship{}, result.Error
	}

	return sponsorship, nil
}

func (d *SponsorshipDAO) FindByID(ctx context.Context, id uint) (Sponsorship, error) {
	var sponsorship Sponsorship

	result := d.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Preload("Event.AssignedOrganisers").
		Preload("ApprovedBy").
		First(&sponsorship, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Sponsorship{}, ErrSponsorshipNotFound
		}

		return Sponsorship{}, result.Error
	}

	return sponsorship, nil
}

func (d *SponsorshipDAO) Update(ctx context.Context, sponsorship Sponsorship) (Sponsorship, error) {
	result := d.db.WithContext(ctx).Omit("User", "Event", "ApprovedBy").Save(&sponsorship)
	if result.Error != nil {
		return Sponsorship{}, result.Error
	}

	return sponsorship, nil
}

func (d *SponsorshipDAO) ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]Sponsorship, int64, error) {
	query := d.db.WithContext(ctx).Model(&Sponsorship{}).Where("event_id = ?", eventID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sponsorships []Sponsorship
	result := query.
		Preload("User").
		Preload("Event").
		Preload("ApprovedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sponsorships)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return sponsorships, total, nil
}

func (d *SponsorshipDAO) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]Sponsorship, int64, error) {
	query := d.db.WithContext(ctx).Model(&Sponsorship{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sponsorships []Sponsorship
	result := query.
		Preload("Event").
		Preload("ApprovedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sponsorships)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return sponsorships, total, nil
}

func (d *SponsorshipDAO) SumApprovedByEvent(ctx context.Context, eventID uint) (float64, error) {
	var total float64

	result := d.db.WithContext(ctx).
		Model(&Sponsorship{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("event_id = ? AND status = ?", eventID, "approved").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}

func (d *SponsorshipDAO) SumApprovedByUser(ctx context.Context, userID uint) (float64, error) {
	var total float64

	result := d.db.WithContext(ctx).
		Model(&Sponsorship{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, "approved").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}

func (d *SponsorshipDAO) DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&Sponsorship{}).
		Where("event_id = ?", eventID).
		Distinct().
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *SponsorshipDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Sponsorship{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// SponsorshipStatusStat is one bucket of the per-event sponsorship
// breakdown, grouped by status with the summed amount.
type SponsorshipStatusStat struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

func (d *SponsorshipDAO) StatsByEvent(ctx context.Context, eventID uint) ([]SponsorshipStatusStat, error) {
	var rows []SponsorshipStatusStat

	result := d.db.WithContext(ctx).
		Model(&Sponsorship{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("event_id = ?", eventID).
		Group("status").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
