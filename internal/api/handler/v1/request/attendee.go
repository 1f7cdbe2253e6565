package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eventease/eventease-api/internal/domain"
)

func attendeeStatusChoices() []interface{} {
	choices := make([]interface{}, 0, len(domain.AttendeeStatuses))
	for _, s := range domain.AttendeeStatuses {
		choices = append(choices, s)
	}

	return choices
}

type UpdateAttendeeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (req *UpdateAttendeeStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(attendeeStatusChoices()...)),
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type BanAttendeeRequest struct {
	Reason string `json:"reason"`
}

func (req *BanAttendeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 500)),
	)
}
