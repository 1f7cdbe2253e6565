package domain

import "time"

const (
	SponsorshipStatusPending  = "pending"
	SponsorshipStatusApproved = "approved"
	SponsorshipStatusRejected = "rejected"
)

// Sponsorship is a monetary pledge by a user toward an event, subject to
// approval by an admin or an assigned organiser.
type Sponsorship struct {
	ID      uint   `json:"id"`
	UserID  uint   `json:"user_id"`
	User    *User  `json:"user,omitempty"`
	EventID uint   `json:"event_id"`
	Event   *Event `json:"event,omitempty"`

	Amount  float64 `json:"amount"`
	Message string  `json:"message,omitempty"`
	Status  string  `json:"status"`

	ApprovedByID   *uint      `json:"approved_by_id,omitempty"`
	ApprovedBy     *User      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectedReason string     `json:"rejected_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Approve records the approver and clears any earlier rejection.
func (s *Sponsorship) Approve(approverID uint, at time.Time) {
	s.Status = SponsorshipStatusApproved
	s.ApprovedByID = &approverID
	s.ApprovedAt = &at
	s.RejectedReason = ""
}

// Reject records the reason and clears any earlier approval.
func (s *Sponsorship) Reject(reason string) {
	s.Status = SponsorshipStatusRejected
	s.RejectedReason = reason
	s.ApprovedByID = nil
	s.ApprovedAt = nil
}
