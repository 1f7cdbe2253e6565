package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Location    string `gorm:"not null"`
	Category    string `gorm:"not null"`
	ImageURL    string

	StartDate            time.Time `gorm:"not null;index"`
	RegistrationDeadline *time.Time

	AllowSponsorship        bool `gorm:"not null;default:false"`
	SponsorshipRequirements string

	CreatedByID        uint `gorm:"not null"`
	CreatedBy          User
	AssignedOrganisers []User `gorm:"many2many:event_organisers;"`

	MaxAttendees *int
	Status       string   `gorm:"not null;default:draft;index"`
	Tags         []string `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventCounts carries the derived attendee/sponsor counts for one event.
type EventCounts struct {
	AttendeeCount int64
	SponsorCount  int64
}

// ListEventsQuery filters and orders the public event listing.
type ListEventsQuery struct {
	Search   string
	Category string
	Status   string
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("AssignedOrganisers").
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit("AssignedOrganisers").Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Select("AssignedOrganisers").Delete(&Event{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) List(ctx context.Context, q ListEventsQuery) ([]Event, int64, error) {
	query := d.db.WithContext(ctx).Model(&Event{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(q.SortBy)
	if q.SortDesc {
		order += " DESC"
	}

	var events []Event
	result := query.
		Preload("CreatedBy").
		Preload("AssignedOrganisers").
		Order(order).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&events)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return events, total, nil
}

// sortColumn whitelists user-supplied sort keys.
func sortColumn(key string) string {
	switch key {
	case "title", "category", "status", "created_at", "start_date":
		return key
	default:
		return "start_date"
	}
}

func (d *EventDAO) ListByOrganiser(ctx context.Context, organiserID uint, offset, limit int) ([]Event, int64, error) {
	base := d.db.WithContext(ctx).
		Model(&Event{}).
		Joins("JOIN event_organisers eo ON eo.event_id = events.id").
		Where("eo.user_id = ?", organiserID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	result := base.
		Preload("CreatedBy").
		Preload("AssignedOrganisers").
		Order("events.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return events, total, nil
}

func (d *EventDAO) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]Event, int64, error) {
	base := d.db.WithContext(ctx).Model(&Event{}).Where("created_by_id = ?", creatorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	result := base.
		Preload("CreatedBy").
		Preload("AssignedOrganisers").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return events, total, nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *EventDAO) CountByOrganiser(ctx context.Context, organiserID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Joins("JOIN event_organisers eo ON eo.event_id = events.id").
		Where("eo.user_id = ?", organiserID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *EventDAO) AppendOrganiser(ctx context.Context, event Event, organiser User) error {
	return d.db.WithContext(ctx).Model(&event).Association("AssignedOrganisers").Append(&organiser)
}

func (d *EventDAO) RemoveOrganiser(ctx context.Context, event Event, organiser User) error {
	return d.db.WithContext(ctx).Model(&event).Association("AssignedOrganisers").Delete(&organiser)
}

// FindByIDsExcludingStatus loads the given events, skipping any in the
// excluded status. Used by role changes to avoid assigning organisers to
// cancelled events.
func (d *EventDAO) FindByIDsExcludingStatus(ctx context.Context, ids []uint, excluded string) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("AssignedOrganisers").
		Where("id IN ? AND status <> ?", ids, excluded).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindPublishedStartingBetween returns published events whose start date
// falls inside [from, to]. The reminder scheduler uses this for its
// three-day window.
func (d *EventDAO) FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("status = ? AND start_date BETWEEN ? AND ?", "published", from, to).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// LoadCounts fetches the derived attendee/sponsor counts for a set of
// events in two grouped queries.
func (d *EventDAO) LoadCounts(ctx context.Context, eventIDs []uint) (map[uint]EventCounts, error) {
	counts := make(map[uint]EventCounts, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID uint
		Count   int64
	}

	var attendeeRows []row
	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Find(&attendeeRows)
	if result.Error != nil {
		return nil, result.Error
	}

	var sponsorRows []row
	result = d.db.WithContext(ctx).
		Model(&Sponsorship{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Find(&sponsorRows)
	if result.Error != nil {
		return nil, result.Error
	}

	for _, r := range attendeeRows {
		c := counts[r.EventID]
		c.AttendeeCount = r.Count
		counts[r.EventID] = c
	}
	for _, r := range sponsorRows {
		c := counts[r.EventID]
		c.SponsorCount = r.Count
		counts[r.EventID] = c
	}

	return counts, nil
}
