package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eventease/eventease-api/internal/domain"
)

var errMissingStartDate = errors.New("please provide a start date")

func statusChoices() []interface{} {
	return []interface{}{
		domain.EventStatusDraft,
		domain.EventStatusPublished,
		domain.EventStatusCancelled,
		domain.EventStatusCompleted,
	}
}

func categoryChoices() []interface{} {
	choices := make([]interface{}, 0, len(domain.EventCategories))
	for _, c := range domain.EventCategories {
		choices = append(choices, c)
	}

	return choices
}

// CreateEventRequest accepts the legacy "date" key as an alias for
// "start_date"; older clients still send it.
type CreateEventRequest struct {
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Location                string     `json:"location"`
	Category                string     `json:"category"`
	ImageURL                string     `json:"image_url"`
	StartDate               *time.Time `json:"start_date"`
	Date                    *time.Time `json:"date"`
	RegistrationDeadline    *time.Time `json:"registration_deadline"`
	MaxAttendees            *int       `json:"max_attendees"`
	Status                  string     `json:"status"`
	Tags                    []string   `json:"tags"`
	AllowSponsorship        bool       `json:"allow_sponsorship"`
	SponsorshipRequirements string     `json:"sponsorship_requirements"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 1000)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Category, validation.Required, validation.In(categoryChoices()...)),
		validation.Field(&req.SponsorshipRequirements, validation.Length(0, 500)),
		validation.Field(&req.Status, validation.In(statusChoices()...)),
		validation.Field(&req.MaxAttendees, validation.Min(1)),
	)
	if err != nil {
		return err
	}

	if req.StartDate == nil && req.Date == nil {
		return errMissingStartDate
	}

	return nil
}

// EffectiveStartDate resolves the canonical start date, falling back to
// the legacy alias.
func (req *CreateEventRequest) EffectiveStartDate() time.Time {
	if req.StartDate != nil {
		return *req.StartDate
	}

	return *req.Date
}

type UpdateEventRequest struct {
	Title                   *string    `json:"title"`
	Description             *string    `json:"description"`
	Location                *string    `json:"location"`
	Category                *string    `json:"category"`
	ImageURL                *string    `json:"image_url"`
	StartDate               *time.Time `json:"start_date"`
	Date                    *time.Time `json:"date"`
	RegistrationDeadline    *time.Time `json:"registration_deadline"`
	MaxAttendees            *int       `json:"max_attendees"`
	Status                  *string    `json:"status"`
	Tags                    *[]string  `json:"tags"`
	AllowSponsorship        *bool      `json:"allow_sponsorship"`
	SponsorshipRequirements *string    `json:"sponsorship_requirements"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(1, 1000)),
		validation.Field(&req.Location, validation.Length(1, 200)),
		validation.Field(&req.Category, validation.In(categoryChoices()...)),
		validation.Field(&req.Status, validation.In(statusChoices()...)),
		validation.Field(&req.MaxAttendees, validation.Min(1)),
	)
}

// EffectiveStartDate returns the new start date if either key changed.
func (req *UpdateEventRequest) EffectiveStartDate() *time.Time {
	if req.StartDate != nil {
		return req.StartDate
	}

	return req.Date
}

type AssignOrganiserRequest struct {
	OrganiserID uint `json:"organiser_id"`
}

func (req *AssignOrganiserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OrganiserID, validation.Required),
	)
}
