package campaign

import (
	"github.com/shopspring/decimal"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/core/common/validation"
)

// CreateCampaignDTO represents the request payload for creating a campaign
type CreateCampaignDTO struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"image_url,omitempty"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (dto CreateCampaignDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).
		Required().
		MinLength(3).
		MaxLength(200)
	v.Field("description", dto.Description).
		MaxLength(5000)
	v.Field("target_amount", dto.TargetAmount).
		Required().
		Positive(errors.ErrCodeInvalidAmount)
	return v.Validate()
}

// ListParams carries normalized pagination values
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

// ListView is the paginated response shape for campaign listings
type ListView struct {
	Campaigns []*Campaign `json:"campaigns"`
	Page      int         `json:"page"`
	Size      int         `json:"size"`
}
