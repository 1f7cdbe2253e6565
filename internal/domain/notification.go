package domain

import (
	"fmt"
	"strconv"
	"time"
)

// NotificationKind is the closed enum of notification types.
type NotificationKind string

const (
	KindEventRegistration          NotificationKind = "event_registration"
	KindEventRegistrationCancelled NotificationKind = "event_registration_cancelled"
	KindEventReminder              NotificationKind = "event_reminder"
	KindOrganiserAssignment        NotificationKind = "organiser_assignment"
	KindSponsorshipUpdate          NotificationKind = "sponsorship_update"
	KindEventDeleted               NotificationKind = "event_deleted"
	KindUserBanned                 NotificationKind = "user_banned"
	KindUserUnbanned               NotificationKind = "user_unbanned"
	KindRoleChange                 NotificationKind = "role_change_with_events"
	KindGeneral                    NotificationKind = "general"
)

type Notification struct {
	ID     uint  `json:"id"`
	UserID uint  `json:"user_id"`
	User   *User `json:"user,omitempty"`

	Title   string           `json:"title"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"type"`

	RelatedEventID *uint  `json:"related_event_id,omitempty"`
	RelatedEvent   *Event `json:"related_event,omitempty"`
	RelatedUserID  *uint  `json:"related_user_id,omitempty"`
	RelatedUser    *User  `json:"related_user,omitempty"`

	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Template is a closed set of notification messages. Each variant carries
// exactly the parameters its message needs, so adding a kind forces a new
// Render implementation rather than a string-keyed lookup.
type Template interface {
	Render() (title, message string, kind NotificationKind)
}

type EventRegistrationTemplate struct {
	EventTitle string
}

func (t EventRegistrationTemplate) Render() (string, string, NotificationKind) {
	return "Event Registration Successful",
		fmt.Sprintf("You have successfully registered for %q. We look forward to seeing you there!", t.EventTitle),
		KindEventRegistration
}

type RegistrationCancelledTemplate struct {
	EventTitle string
}

func (t RegistrationCancelledTemplate) Render() (string, string, NotificationKind) {
	return "Event Registration Cancelled",
		fmt.Sprintf("Your registration for %q has been cancelled. You can register again if you change your mind.", t.EventTitle),
		KindEventRegistrationCancelled
}

type EventReminderTemplate struct {
	EventTitle string
	DaysLeft   int
}

func (t EventReminderTemplate) Render() (string, string, NotificationKind) {
	return "Event Reminder",
		fmt.Sprintf("Don't forget! %q is coming up in %d days. Make sure you're prepared!", t.EventTitle, t.DaysLeft),
		KindEventReminder
}

type OrganiserAssignmentTemplate struct {
	EventTitle string
	AssignedBy string
}

func (t OrganiserAssignmentTemplate) Render() (string, string, NotificationKind) {
	return "Organiser Assignment",
		fmt.Sprintf("You have been assigned as an organiser for %q by %s.", t.EventTitle, t.AssignedBy),
		KindOrganiserAssignment
}

// SponsorOrganiserNoticeTemplate tells existing sponsors about a newly
// assigned organiser.
type SponsorOrganiserNoticeTemplate struct {
	EventTitle    string
	OrganiserName string
	AssignedBy    string
}

func (t SponsorOrganiserNoticeTemplate) Render() (string, string, NotificationKind) {
	return "New Organiser Assigned",
		fmt.Sprintf("A new organiser (%s) has been assigned to %q by %s.", t.OrganiserName, t.EventTitle, t.AssignedBy),
		KindOrganiserAssignment
}

type SponsorshipApprovedTemplate struct {
	EventTitle string
	Amount     float64
}

func (t SponsorshipApprovedTemplate) Render() (string, string, NotificationKind) {
	amount := strconv.FormatFloat(t.Amount, 'f', -1, 64)
	return "Sponsorship Approved",
		fmt.Sprintf("Your sponsorship of $%s for %q has been approved. Thank you for your support!", amount, t.EventTitle),
		KindSponsorshipUpdate
}

type SponsorshipRejectedTemplate struct {
	EventTitle string
	Reason     string
}

func (t SponsorshipRejectedTemplate) Render() (string, string, NotificationKind) {
	return "Sponsorship Update",
		fmt.Sprintf("Your sponsorship request for %q was not approved. Reason: %s", t.EventTitle, t.Reason),
		KindSponsorshipUpdate
}

type EventDeletedTemplate struct {
	EventTitle string
}

func (t EventDeletedTemplate) Render() (string, string, NotificationKind) {
	return "Event Cancelled",
		fmt.Sprintf("Unfortunately, %q has been cancelled. We apologize for any inconvenience.", t.EventTitle),
		KindEventDeleted
}

type UserBannedTemplate struct {
	Reason   string
	BannedBy string
}

func (t UserBannedTemplate) Render() (string, string, NotificationKind) {
	return "Account Restricted",
		fmt.Sprintf("Your account has been temporarily restricted by %s. Reason: %s. Please contact support for more information.", t.BannedBy, t.Reason),
		KindUserBanned
}

type UserUnbannedTemplate struct {
	UnbannedBy string
}

func (t UserUnbannedTemplate) Render() (string, string, NotificationKind) {
	return "Account Restriction Lifted",
		fmt.Sprintf("Your account restriction has been lifted by %s. You can now access all features again.", t.UnbannedBy),
		KindUserUnbanned
}

type RoleChangeTemplate struct {
	NewRole   string
	ChangedBy string
}

func (t RoleChangeTemplate) Render() (string, string, NotificationKind) {
	return "Role Updated",
		fmt.Sprintf("Your role has been changed to %s by %s.", t.NewRole, t.ChangedBy),
		KindRoleChange
}

// EventAssignmentTemplate is sent once per event when a role change also
// assigns the new organiser to existing events.
type EventAssignmentTemplate struct {
	EventTitle string
	AssignedBy string
}

func (t EventAssignmentTemplate) Render() (string, string, NotificationKind) {
	return "New Event Assignment",
		fmt.Sprintf("You have been promoted to organiser and assigned to manage %q by %s.", t.EventTitle, t.AssignedBy),
		KindRoleChange
}
