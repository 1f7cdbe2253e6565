package domain

import "time"

const (
	RoleAdmin     = "admin"
	RoleOrganiser = "organiser"
	RoleUser      = "user"
)

type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`

	Age          int      `json:"age,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Department   string   `json:"department,omitempty"`
	Year         string   `json:"year,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	ProfileImage string   `json:"profile_image,omitempty"`

	IsBanned     bool       `json:"is_banned"`
	BannedBy     *uint      `json:"banned_by,omitempty"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`
	BannedReason string     `json:"banned_reason,omitempty"`

	PasswordToken          string     `json:"-"`
	PasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthUser is the identity the authenticator attaches to a request.
// IsBanned reflects the stored flag at request time, not the token claim.
type AuthUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsBanned bool   `json:"is_banned"`
}

// CanManageEvent reports whether the caller may administer the given event:
// admins always, organisers only when assigned to it.
func (u AuthUser) CanManageEvent(e Event) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Role == RoleOrganiser {
		return e.HasOrganiser(u.ID)
	}

	return false
}
