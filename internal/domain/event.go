package domain

import "time"

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// EventCategories is the closed set of accepted event categories.
var EventCategories = []string{
	"academic", "cultural", "sports", "workshop", "seminar", "social", "other",
}

type Event struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url,omitempty"`

	StartDate            time.Time  `json:"start_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`

	AllowSponsorship        bool   `json:"allow_sponsorship"`
	SponsorshipRequirements string `json:"sponsorship_requirements,omitempty"`

	CreatedByID        uint   `json:"created_by_id"`
	CreatedBy          *User  `json:"created_by,omitempty"`
	AssignedOrganisers []User `json:"assigned_organisers"`

	// MaxAttendees of nil means unlimited capacity.
	MaxAttendees *int     `json:"max_attendees"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags,omitempty"`

	AttendeeCount int64 `json:"attendee_count"`
	SponsorCount  int64 `json:"sponsor_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

func (e Event) HasOrganiser(userID uint) bool {
	for _, o := range e.AssignedOrganisers {
		if o.ID == userID {
			return true
		}
	}

	return false
}

// RegistrationClosed reports whether the registration deadline, if set,
// has passed at the given instant.
func (e Event) RegistrationClosed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}
