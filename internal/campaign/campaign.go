package campaign

import (
	"time"

	"github.com/shopspring/decimal"

	campaignDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/campaign"
)

type Campaign struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      *string         `json:"image_url,omitempty"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	UsedAmount    decimal.Decimal `json:"used_amount"`
	QuicklyUsed   bool            `json:"quickly_used"`
	Status        string          `json:"status"`
	Code          *string         `json:"code,omitempty"`
	CreatorID     int64           `json:"creator_id"`
	UserDependID  *int64          `json:"user_depend_id,omitempty"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Creator *CreatorProfile `json:"creator,omitempty"`
}

// CreatorProfile is the slice of the owning user embedded in campaign views.
type CreatorProfile struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

const (
	StatusPending  = "pending"
	StatusDepended = "depended"
	StatusApproved = "approved"
	StatusExpired  = "expired"
	StatusEnough   = "enough"
)

// Campaigns run for a base 30 days. Every full 100,000,000 of the goal
// amount adds another 10 days.
const (
	BaseDurationDays   = 30
	AccelerationFactor = 10
)

var AccelerationThreshold = decimal.NewFromInt(100_000_000)

// CalculateEndDate applies the linear acceleration rule to the goal amount.
func CalculateEndDate(start time.Time, targetAmount decimal.Decimal) time.Time {
	extraDays := 0
	if targetAmount.GreaterThanOrEqual(AccelerationThreshold) {
		thresholds := targetAmount.Div(AccelerationThreshold).IntPart()
		extraDays = int(thresholds) * AccelerationFactor
	}
	return start.AddDate(0, 0, BaseDurationDays+extraDays)
}

// Choose claims the campaign for review by the given admin. A later claim
// by a different admin overwrites the earlier one, last write wins.
func (c *Campaign) Choose(adminID int64) {
	c.Status = StatusDepended
	c.UserDependID = &adminID
	c.UpdatedAt = time.Now()
}

func (c *Campaign) Approve() {
	c.Status = StatusApproved
	c.UpdatedAt = time.Now()
}

func (c *Campaign) IsFunded() bool {
	return c.CurrentAmount.GreaterThanOrEqual(c.TargetAmount)
}

func ToDataModel(c *Campaign) *campaignDatamodel.Campaign {
	return &campaignDatamodel.Campaign{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		TargetAmount:  c.TargetAmount,
		CurrentAmount: c.CurrentAmount,
		UsedAmount:    c.UsedAmount,
		QuicklyUsed:   c.QuicklyUsed,
		Status:        c.Status,
		Code:          c.Code,
		CreatorID:     c.CreatorID,
		UserDependID:  c.UserDependID,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromDataModel(c *campaignDatamodel.Campaign) *Campaign {
	return &Campaign{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		TargetAmount:  c.TargetAmount,
		CurrentAmount: c.CurrentAmount,
		UsedAmount:    c.UsedAmount,
		QuicklyUsed:   c.QuicklyUsed,
		Status:        c.Status,
		Code:          c.Code,
		CreatorID:     c.CreatorID,
		UserDependID:  c.UserDependID,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromDataModelSlice(campaigns []*campaignDatamodel.Campaign) []*Campaign {
	result := make([]*Campaign, len(campaigns))
	for i, c := range campaigns {
		result[i] = FromDataModel(c)
	}
	return result
}
