package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"
)

type Withdrawal struct {
	ID         int64           `gorm:"primaryKey"`
	CampaignID int64           `gorm:"column:campaign_id;not null"`
	UserID     int64           `gorm:"column:user_id;not null"`
	Type       string          `gorm:"column:type;default:normal"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	Reason     string          `gorm:"column:reason"`
	Status     string          `gorm:"column:status;default:pending"`
	ApprovedAt *time.Time      `gorm:"column:approved_at"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

type Proof struct {
	ID               int64            `gorm:"primaryKey"`
	WithdrawalID     int64            `gorm:"column:withdrawal_id;not null"`
	Description      string           `gorm:"column:description"`
	ValidatedAmount  *decimal.Decimal `gorm:"column:validated_amount;type:decimal(12,2)"`
	ValidationStatus *string          `gorm:"column:validation_status"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

type ProofImage struct {
	ID        int64     `gorm:"primaryKey"`
	ProofID   int64     `gorm:"column:proof_id;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
