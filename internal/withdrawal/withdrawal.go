package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"

	withdrawalDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/withdrawal"
)

type Withdrawal struct {
	ID         int64           `json:"id"`
	CampaignID int64           `json:"campaign_id"`
	UserID     int64           `json:"user_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Status     string          `json:"status"`
	ApprovedAt *time.Time      `json:"approved_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Proofs []*Proof `json:"proofs,omitempty"`
}

type Proof struct {
	ID               int64            `json:"id"`
	WithdrawalID     int64            `json:"withdrawal_id"`
	Description      string           `json:"description"`
	ValidatedAmount  *decimal.Decimal `json:"validated_amount,omitempty"`
	ValidationStatus *string          `json:"validation_status,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Images []*ProofImage `json:"images,omitempty"`
}

type ProofImage struct {
	ID        int64     `json:"id"`
	ProofID   int64     `json:"proof_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	TypeNormal  = "normal"
	TypeQuickly = "quickly"

	StatusPending = "pending"
	StatusWaiting = "waiting"
	StatusProven  = "proven"
)

// ExpeditedShare caps a quickly withdrawal at 30% of the campaign's
// current balance.
var ExpeditedShare = decimal.New(3, -1)

// InFlight reports whether this withdrawal still blocks new requests
// against its campaign.
func (w *Withdrawal) InFlight() bool {
	return w.Status == StatusPending || w.Status == StatusWaiting
}

func (w *Withdrawal) CanBeApproved() bool {
	return w.Status == StatusPending
}

// Approve moves the request forward to waiting; funds are considered
// handed over but not yet accounted for by proof documents.
func (w *Withdrawal) Approve() {
	now := time.Now()
	w.Status = StatusWaiting
	w.ApprovedAt = &now
	w.UpdatedAt = now
}

// MarkProven records that at least one proof document is attached.
func (w *Withdrawal) MarkProven() {
	w.Status = StatusProven
	w.UpdatedAt = time.Now()
}

// ExpeditedLimit computes the maximum quickly-withdrawal amount for the
// given campaign balance.
func ExpeditedLimit(currentAmount decimal.Decimal) decimal.Decimal {
	return currentAmount.Mul(ExpeditedShare)
}

func ToDataModel(w *Withdrawal) *withdrawalDatamodel.Withdrawal {
	return &withdrawalDatamodel.Withdrawal{
		ID:         w.ID,
		CampaignID: w.CampaignID,
		UserID:     w.UserID,
		Type:       w.Type,
		Amount:     w.Amount,
		Reason:     w.Reason,
		Status:     w.Status,
		ApprovedAt: w.ApprovedAt,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func FromDataModel(w *withdrawalDatamodel.Withdrawal) *Withdrawal {
	return &Withdrawal{
		ID:         w.ID,
		CampaignID: w.CampaignID,
		UserID:     w.UserID,
		Type:       w.Type,
		Amount:     w.Amount,
		Reason:     w.Reason,
		Status:     w.Status,
		ApprovedAt: w.ApprovedAt,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func FromDataModelSlice(withdrawals []*withdrawalDatamodel.Withdrawal) []*Withdrawal {
	result := make([]*Withdrawal, len(withdrawals))
	for i, w := range withdrawals {
		result[i] = FromDataModel(w)
	}
	return result
}

func ProofToDataModel(p *Proof) *withdrawalDatamodel.Proof {
	return &withdrawalDatamodel.Proof{
		ID:               p.ID,
		WithdrawalID:     p.WithdrawalID,
		Description:      p.Description,
		ValidatedAmount:  p.ValidatedAmount,
		ValidationStatus: p.ValidationStatus,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ProofFromDataModel(p *withdrawalDatamodel.Proof) *Proof {
	return &Proof{
		ID:               p.ID,
		WithdrawalID:     p.WithdrawalID,
		Description:      p.Description,
		ValidatedAmount:  p.ValidatedAmount,
		ValidationStatus: p.ValidationStatus,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ProofImageToDataModel(img *ProofImage) *withdrawalDatamodel.ProofImage {
	return &withdrawalDatamodel.ProofImage{
		ID:        img.ID,
		ProofID:   img.ProofID,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt,
	}
}

func ProofImageFromDataModel(img *withdrawalDatamodel.ProofImage) *ProofImage {
	return &ProofImage{
		ID:        img.ID,
		ProofID:   img.ProofID,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt,
	}
}
