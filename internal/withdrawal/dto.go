package withdrawal

import (
	"github.com/shopspring/decimal"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/core/common/validation"
)

// CreateWithdrawalDTO represents the request payload for a withdrawal
type CreateWithdrawalDTO struct {
	CampaignID int64           `json:"campaign_id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	Reason     string          `json:"reason"`
}

func (dto CreateWithdrawalDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("campaign_id", dto.CampaignID).Required()
	v.Field("amount", dto.Amount).
		Required().
		Positive(errors.ErrCodeInvalidAmount)
	v.Field("type", dto.Type).
		Required().
		OneOf(TypeNormal, TypeQuickly)
	v.Field("reason", dto.Reason).
		Required().
		MaxLength(1000)
	return v.Validate()
}

// CreateProofDTO represents the request payload for a proof document
type CreateProofDTO struct {
	WithdrawalID int64  `json:"withdrawal_id"`
	Description  string `json:"description"`
}

func (dto CreateProofDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("withdrawal_id", dto.WithdrawalID).Required()
	v.Field("description", dto.Description).
		Required().
		MaxLength(2000)
	return v.Validate()
}

// CreateProofImageDTO represents the request payload for a proof image
type CreateProofImageDTO struct {
	ProofID  int64  `json:"proof_id"`
	ImageURL string `json:"image_url"`
}

func (dto CreateProofImageDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("proof_id", dto.ProofID).Required()
	v.Field("image_url", dto.ImageURL).Required()
	return v.Validate()
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
	Withdrawals []*Withdrawal `json:"withdrawals"`
	Page        int           `json:"page"`
	Size        int           `json:"size"`
}
