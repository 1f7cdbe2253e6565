package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eventease/eventease-api/internal/domain"
)

var (
	errInvalidSponsorshipAmount = errors.New("please provide a valid sponsorship amount")
	errMissingRejectedReason    = errors.New("please provide a reason for rejection")
)

type CreateSponsorshipRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

func (req *CreateSponsorshipRequest) Validate() error {
	if req.Amount <= 0 {
		return errInvalidSponsorshipAmount
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Message, validation.Length(0, 500)),
	)
}

type UpdateSponsorshipStatusRequest struct {
	Status         string `json:"status"`
	RejectedReason string `json:"rejected_reason"`
}

func (req *UpdateSponsorshipStatusRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required,
			validation.In(domain.SponsorshipStatusApproved, domain.SponsorshipStatusRejected)),
	)
	if err != nil {
		return err
	}

	if req.Status == domain.SponsorshipStatusRejected && req.RejectedReason == "" {
		return errMissingRejectedReason
	}

	return nil
}
