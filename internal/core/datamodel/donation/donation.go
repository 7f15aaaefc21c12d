package donation

import (
	"time"

	"github.com/shopspring/decimal"
)

type Donation struct {
	ID            int64           `gorm:"primaryKey"`
	CampaignID    int64           `gorm:"column:campaign_id;not null"`
	UserID        *int64          `gorm:"column:user_id"`
	AnonymousName *string         `gorm:"column:anonymous_name"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2);default:0"`
	Message       string          `gorm:"column:message"`
	Code          string          `gorm:"column:code;uniqueIndex;not null"`
	TransactionID *string         `gorm:"column:transaction_id"`
	BankName      *string         `gorm:"column:bank_name"`
	BankNumber    *string         `gorm:"column:bank_number"`
	Status        string          `gorm:"column:status;default:pending"`
	ConfirmedAt   *time.Time      `gorm:"column:confirmed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TransactionError records webhook payloads that could not be matched to
// a pending donation, so operators can reconcile them by hand.
type TransactionError struct {
	ID         int64           `gorm:"primaryKey"`
	BankName   *string         `gorm:"column:bank_name"`
	BankNumber *string         `gorm:"column:bank_number"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(12,2)"`
	Reason     string          `gorm:"column:reason;not null"`
	RawContent string          `gorm:"column:raw_content;type:text"`
	Status     string          `gorm:"column:status;default:pending"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
