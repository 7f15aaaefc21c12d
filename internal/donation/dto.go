package donation

import (
	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/core/common/validation"
	gatewaytypes "github.com/ptnguyen/fundflow/internal/core/datamodel/paymentgateway"
)

// CreateDonationDTO represents the request payload for a donation intent.
// Amount here is only the intended checkout amount passed to the gateway;
// the persisted donation stays at zero until the webhook confirms payment.
type CreateDonationDTO struct {
	CampaignID    int64   `json:"campaign_id"`
	Amount        int64   `json:"amount"`
	Message       string  `json:"message"`
	AnonymousName *string `json:"anonymous_name,omitempty"`
}

func (dto CreateDonationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("campaign_id", dto.CampaignID).Required()
	v.Field("message", dto.Message).MaxLength(500)
	if dto.Amount <= 0 {
		return errors.NewValidationFieldError("amount", "amount must be greater than zero", errors.ErrCodeInvalidAmount)
	}
	return v.Validate()
}

// CreateDonationResponse pairs the pending donation with the gateway's
// hosted-checkout data, returned verbatim to the caller.
type CreateDonationResponse struct {
	Donation *Donation                  `json:"donation"`
	Checkout *gatewaytypes.CheckoutData `json:"checkout"`
}

type ListParams struct {
	Page int
	Size int
}

func (p ListParams) Limit() int {
	return p.Size
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Size
}

type ListView struct {
	Donations []*Donation `json:"donations"`
	Page      int         `json:"page"`
	Size      int         `json:"size"`
}
