package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/eventease/eventease-api/internal/domain"
)

type UpdateProfileRequest struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Age          *int      `json:"age"`
	Gender       *string   `json:"gender"`
	Phone        *string   `json:"phone"`
	Department   *string   `json:"department"`
	Year         *string   `json:"year"`
	Interests    *[]string `json:"interests"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profile_image"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Age, validation.Min(1), validation.Max(150)),
		validation.Field(&req.Bio, validation.Length(0, 500)),
	)
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (req *UpdatePasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.OldPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	return validatePassword(req.NewPassword)
}

type ChangeRoleRequest struct {
	Role     string `json:"role"`
	EventIDs []uint `json:"event_ids"`
}

func (req *ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role,
			validation.Required,
			validation.In(domain.RoleAdmin, domain.RoleOrganiser, domain.RoleUser)),
	)
}
