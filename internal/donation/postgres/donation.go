package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ptnguyen/fundflow/internal/donation"

	donationDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/donation"
)

// DonationRepository implements the donation.Repository interface using GORM
type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) donation.Repository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(d *donation.Donation) error {
	model := donation.ToDataModel(d)
	if err := r.db.Table("donations").Create(model).Error; err != nil {
		return err
	}
	d.ID = model.ID
	return nil
}

func (r *DonationRepository) GetByID(id int64) (*donation.Donation, error) {
	var model donationDatamodel.Donation
	if err := r.db.Table("donations").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return donation.FromDataModel(&model), nil
}

func (r *DonationRepository) GetByCode(code string) (*donation.Donation, error) {
	var model donationDatamodel.Donation
	if err := r.db.Table("donations").Where("code = ?", code).First(&model).Error; err != nil {
		return nil, err
	}
	return donation.FromDataModel(&model), nil
}

func (r *DonationRepository) List(campaignID *int64, limit, offset int) ([]*donation.Donation, error) {
	query := r.db.Table("donations")
	if campaignID != nil {
		query = query.Where("campaign_id = ?", *campaignID)
	}

	var models []*donationDatamodel.Donation
	err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return donation.FromDataModelSlice(models), nil
}

func (r *DonationRepository) ListByUser(userID int64, limit, offset int) ([]*donation.Donation, error) {
	var models []*donationDatamodel.Donation
	err := r.db.Table("donations").
		Where("user_id = ?", userID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return donation.FromDataModelSlice(models), nil
}

// Confirm flips the donation to success and credits its campaign in one
// transaction. The status predicate on the UPDATE is the idempotency
// guard: a replayed webhook matches zero rows and credits nothing.
func (r *DonationRepository) Confirm(donationID int64, amount decimal.Decimal, bankName, bankNumber, transactionID *string) (bool, error) {
	credited := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		result := tx.Table("donations").
			Where("id = ? AND status = ?", donationID, donation.StatusPending).
			Updates(map[string]interface{}{
				"amount":         amount,
				"bank_name":      bankName,
				"bank_number":    bankNumber,
				"transaction_id": transactionID,
				"status":         donation.StatusSuccess,
				"confirmed_at":   now,
				"updated_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var model donationDatamodel.Donation
		if err := tx.Table("donations").Where("id = ?", donationID).First(&model).Error; err != nil {
			return err
		}

		if err := tx.Table("campaigns").
			Where("id = ?", model.CampaignID).
			Updates(map[string]interface{}{
				"current_amount": gorm.Expr("current_amount + ?", amount),
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		credited = true
		return nil
	})

	return credited, err
}

func (r *DonationRepository) RecordTransactionError(te *donationDatamodel.TransactionError) error {
	return r.db.Table("transaction_errors").Create(te).Error
}
