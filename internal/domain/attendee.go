package domain

import "time"

const (
	AttendeeStatusRegistered = "registered"
	AttendeeStatusAttended   = "attended"
	AttendeeStatusNoShow     = "no-show"
	AttendeeStatusCancelled  = "cancelled"
)

// AttendeeStatuses is the closed set of RSVP states.
var AttendeeStatuses = []string{
	AttendeeStatusRegistered,
	AttendeeStatusAttended,
	AttendeeStatusNoShow,
	AttendeeStatusCancelled,
}

// Attendee is a user's RSVP against an event. At most one row exists per
// (user, event) pair; cancellation flips the status rather than deleting
// the row, so re-registration reactivates the same identity.
type Attendee struct {
	ID      uint   `json:"id"`
	UserID  uint   `json:"user_id"`
	User    *User  `json:"user,omitempty"`
	EventID uint   `json:"event_id"`
	Event   *Event `json:"event,omitempty"`

	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registration_date"`
	Notes            string    `json:"notes,omitempty"`

	IsBanned     bool       `json:"is_banned"`
	BannedBy     *uint      `json:"banned_by,omitempty"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`
	BannedReason string     `json:"banned_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the RSVP counts toward capacity and feedback
// eligibility.
func (a Attendee) IsActive() bool {
	return a.Status == AttendeeStatusRegistered || a.Status == AttendeeStatusAttended
}
