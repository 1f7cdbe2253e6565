package domain

import "time"

type Feedback struct {
	ID      uint   `json:"id"`
	UserID  uint   `json:"user_id"`
	User    *User  `json:"user,omitempty"`
	EventID uint   `json:"event_id"`
	Event   *Event `json:"event,omitempty"`

	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Anonymize replaces the author identity on feedback marked anonymous.
// Ratings and comments stay visible either way.
func (f Feedback) Anonymize() Feedback {
	if !f.IsAnonymous {
		return f
	}

	f.UserID = 0
	f.User = &User{Name: "Anonymous"}

	return f
}

// FeedbackStats aggregates all feedback rows for one event.
type FeedbackStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalFeedback int64       `json:"total_feedback"`
	Distribution  map[int]int `json:"rating_distribution"`
}
