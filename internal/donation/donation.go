package donation

import (
	"time"

	"github.com/shopspring/decimal"

	donationDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/donation"
)

type Donation struct {
	ID            int64           `json:"id"`
	CampaignID    int64           `json:"campaign_id"`
	UserID        *int64          `json:"user_id,omitempty"`
	AnonymousName *string         `json:"anonymous_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Message       string          `json:"message"`
	Code          string          `json:"code"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankNumber    *string         `json:"bank_number,omitempty"`
	Status        string          `json:"status"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

const (
	StatusPending = "pending"
	StatusSuccess = "success"
)

func (d *Donation) DonorName() string {
	if d.AnonymousName != nil && *d.AnonymousName != "" {
		return *d.AnonymousName
	}
	return "Anonymous"
}

func ToDataModel(d *Donation) *donationDatamodel.Donation {
	return &donationDatamodel.Donation{
		ID:            d.ID,
		CampaignID:    d.CampaignID,
		UserID:        d.UserID,
		AnonymousName: d.AnonymousName,
		Amount:        d.Amount,
		Message:       d.Message,
		Code:          d.Code,
		TransactionID: d.TransactionID,
		BankName:      d.BankName,
		BankNumber:    d.BankNumber,
		Status:        d.Status,
		ConfirmedAt:   d.ConfirmedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func FromDataModel(d *donationDatamodel.Donation) *Donation {
	return &Donation{
		ID:            d.ID,
		CampaignID:    d.CampaignID,
		UserID:        d.UserID,
		AnonymousName: d.AnonymousName,
		Amount:        d.Amount,
		Message:       d.Message,
		Code:          d.Code,
		TransactionID: d.TransactionID,
		BankName:      d.BankName,
		BankNumber:    d.BankNumber,
		Status:        d.Status,
		ConfirmedAt:   d.ConfirmedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func FromDataModelSlice(donations []*donationDatamodel.Donation) []*Donation {
	result := make([]*Donation, len(donations))
	for i, d := range donations {
		result[i] = FromDataModel(d)
	}
	return result
}
