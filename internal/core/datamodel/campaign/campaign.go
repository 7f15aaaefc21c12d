package campaign

import (
	"time"

	"github.com/shopspring/decimal"
)

type Campaign struct {
	ID            int64           `gorm:"primaryKey"`
	Title         string          `gorm:"column:title;not null"`
	Description   string          `gorm:"column:description"`
	ImageURL      *string         `gorm:"column:image_url"`
	TargetAmount  decimal.Decimal `gorm:"column:target_amount;type:decimal(12,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"column:current_amount;type:decimal(12,2);default:0"`
	UsedAmount    decimal.Decimal `gorm:"column:used_amount;type:decimal(12,2);default:0"`
	QuicklyUsed   bool            `gorm:"column:quickly_used;default:false"`
	Status        string          `gorm:"column:status;default:pending"`
	Code          *string         `gorm:"column:code"`
	CreatorID     int64           `gorm:"column:creator_id;not null"`
	UserDependID  *int64          `gorm:"column:user_depend_id"`
	StartDate     time.Time       `gorm:"column:start_date"`
	EndDate       time.Time       `gorm:"column:end_date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
