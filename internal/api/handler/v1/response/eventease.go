package response

import (
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
	"github.com/eventease/eventease-api/internal/service"
)

type Msg struct {
	Msg string `json:"msg"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RegisterResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Msg   string      `json:"msg"`
}

// ForgotPasswordResponse includes the raw reset token only when outbound
// mail is disabled, so development setups can complete the flow.
type ForgotPasswordResponse struct {
	Msg           string `json:"msg"`
	PasswordToken string `json:"password_token,omitempty"`
}

type UserResponse struct {
	User domain.User `json:"user"`
}

type ListUsersResponse struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type ChangeRoleResponse struct {
	Msg            string         `json:"msg"`
	User           domain.User    `json:"user"`
	AssignedEvents []domain.Event `json:"assigned_events,omitempty"`
}

type DashboardResponse struct {
	User           domain.User `json:"user"`
	Stats          interface{} `json:"stats"`
	RecentActivity interface{} `json:"recent_activity"`
}

type EventResponse struct {
	Event domain.Event `json:"event"`
}

type ListEventsResponse struct {
	Events     []domain.Event `json:"events"`
	Pagination Pagination     `json:"pagination"`
}

type EventStatsResponse struct {
	Event            EventSummary                 `json:"event"`
	AttendeeStats    []repository.StatusBreakdown `json:"attendee_stats"`
	SponsorshipStats []repository.StatusStat      `json:"sponsorship_stats"`
}

type EventSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
}

type RSVPResponse struct {
	Msg      string          `json:"msg"`
	Attendee domain.Attendee `json:"attendee"`
}

type AttendeeResponse struct {
	Msg      string          `json:"msg"`
	Attendee domain.Attendee `json:"attendee"`
}

type ListAttendeesResponse struct {
	Attendees  []domain.Attendee `json:"attendees"`
	Pagination Pagination        `json:"pagination"`
}

type ListRSVPsResponse struct {
	RSVPs      []domain.Attendee `json:"rsvps"`
	Pagination Pagination        `json:"pagination"`
}

type FeedbackResponse struct {
	Msg      string          `json:"msg"`
	Feedback domain.Feedback `json:"feedback"`
}

type ListFeedbackResponse struct {
	Feedback   []domain.Feedback    `json:"feedback"`
	Stats      domain.FeedbackStats `json:"stats"`
	Pagination Pagination           `json:"pagination"`
}

type MyFeedbackResponse struct {
	Feedback   []domain.Feedback `json:"feedback"`
	Pagination Pagination        `json:"pagination"`
}

type SponsorshipResponse struct {
	Msg         string             `json:"msg"`
	Sponsorship domain.Sponsorship `json:"sponsorship"`
}

type ListSponsorshipsResponse struct {
	Sponsorships        []domain.Sponsorship `json:"sponsorships"`
	TotalApprovedAmount float64              `json:"total_approved_amount"`
	Pagination          Pagination           `json:"pagination"`
}

type MySponsorshipsResponse struct {
	Sponsorships         []domain.Sponsorship `json:"sponsorships"`
	TotalSponsoredAmount float64              `json:"total_sponsored_amount"`
	Pagination           Pagination           `json:"pagination"`
}

type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    Pagination            `json:"pagination"`
}

type NotificationResponse struct {
	Msg          string              `json:"msg"`
	Notification domain.Notification `json:"notification"`
}

type NotificationStatsResponse struct {
	Total         int64                      `json:"total"`
	Unread        int64                      `json:"unread"`
	KindBreakdown []repository.KindBreakdown `json:"kind_breakdown"`
}

// NewDashboardResponse flattens the role-shaped dashboard into the
// stats/recentActivity split the clients consume.
func NewDashboardResponse(d service.Dashboard) DashboardResponse {
	resp := DashboardResponse{User: d.User}

	switch {
	case d.Admin != nil:
		resp.Stats = map[string]interface{}{
			"total_users":             d.Admin.TotalUsers,
			"total_events":            d.Admin.TotalEvents,
			"total_attendees":         d.Admin.TotalAttendees,
			"total_sponsorships":      d.Admin.TotalSponsorships,
			"user_demographics":       d.Admin.RoleDistribution,
			"gender_distribution":     d.Admin.GenderDistribution,
			"department_distribution": d.Admin.DepartmentDistribution,
		}
		resp.RecentActivity = map[string]interface{}{
			"recent_events": d.Admin.RecentEvents,
		}
	case d.Organiser != nil:
		resp.Stats = map[string]interface{}{
			"assigned_events": d.Organiser.AssignedEvents,
			"total_attendees": d.Organiser.TotalAttendees,
		}
		resp.RecentActivity = map[string]interface{}{
			"my_events": d.Organiser.MyEvents,
		}
	case d.Member != nil:
		resp.Stats = map[string]interface{}{
			"my_registered_events":  d.Member.RegisteredEvents,
			"upcoming_events_count": d.Member.UpcomingEventsCount,
		}
		resp.RecentActivity = map[string]interface{}{
			"upcoming_events": d.Member.UpcomingRegistrations,
			"past_events":     d.Member.PastRegistrations,
		}
	}

	return resp
}
