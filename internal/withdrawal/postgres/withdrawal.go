package postgres

import (
	"time"

	"gorm.io/gorm"

	withdrawalDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/withdrawal"
	"github.com/ptnguyen/fundflow/internal/withdrawal"
)

// WithdrawalRepository implements the withdrawal.Repository interface using GORM
type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) withdrawal.Repository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *withdrawal.Withdrawal) error {
	model := withdrawal.ToDataModel(w)
	if err := r.db.Table("withdrawals").Create(model).Error; err != nil {
		return err
	}
	w.ID = model.ID
	return nil
}

func (r *WithdrawalRepository) GetByID(id int64) (*withdrawal.Withdrawal, error) {
	var model withdrawalDatamodel.Withdrawal
	if err := r.db.Table("withdrawals").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return withdrawal.FromDataModel(&model), nil
}

// GetRecentByCampaign returns the newest withdrawals first; the in-flight
// policy only ever inspects the two most recent.
func (r *WithdrawalRepository) GetRecentByCampaign(campaignID int64, limit int) ([]*withdrawal.Withdrawal, error) {
	var models []*withdrawalDatamodel.Withdrawal
	err := r.db.Table("withdrawals").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return withdrawal.FromDataModelSlice(models), nil
}

func (r *WithdrawalRepository) List(statusFilter string, limit, offset int) ([]*withdrawal.Withdrawal, error) {
	query := r.db.Table("withdrawals")
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var models []*withdrawalDatamodel.Withdrawal
	err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return withdrawal.FromDataModelSlice(models), nil
}

func (r *WithdrawalRepository) Update(w *withdrawal.Withdrawal) error {
	w.UpdatedAt = time.Now()
	return r.db.Table("withdrawals").Save(withdrawal.ToDataModel(w)).Error
}

func (r *WithdrawalRepository) Delete(id int64) error {
	return r.db.Table("withdrawals").Where("id = ?", id).Delete(&withdrawalDatamodel.Withdrawal{}).Error
}

func (r *WithdrawalRepository) CreateProof(p *withdrawal.Proof) error {
	model := withdrawal.ProofToDataModel(p)
	if err := r.db.Table("proofs").Create(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	return nil
}

func (r *WithdrawalRepository) GetProofByID(id int64) (*withdrawal.Proof, error) {
	var model withdrawalDatamodel.Proof
	if err := r.db.Table("proofs").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return withdrawal.ProofFromDataModel(&model), nil
}

func (r *WithdrawalRepository) ListProofsByWithdrawal(withdrawalID int64) ([]*withdrawal.Proof, error) {
	var models []*withdrawalDatamodel.Proof
	err := r.db.Table("proofs").
		Where("withdrawal_id = ?", withdrawalID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	proofs := make([]*withdrawal.Proof, len(models))
	for i, m := range models {
		proofs[i] = withdrawal.ProofFromDataModel(m)
	}
	return proofs, nil
}

func (r *WithdrawalRepository) DeleteProof(id int64) error {
	return r.db.Table("proofs").Where("id = ?", id).Delete(&withdrawalDatamodel.Proof{}).Error
}

func (r *WithdrawalRepository) CreateProofImage(img *withdrawal.ProofImage) error {
	model := withdrawal.ProofImageToDataModel(img)
	if err := r.db.Table("proof_images").Create(model).Error; err != nil {
		return err
	}
	img.ID = model.ID
	return nil
}

func (r *WithdrawalRepository) GetProofImageByID(id int64) (*withdrawal.ProofImage, error) {
	var model withdrawalDatamodel.ProofImage
	if err := r.db.Table("proof_images").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return withdrawal.ProofImageFromDataModel(&model), nil
}

func (r *WithdrawalRepository) ListProofImagesByProof(proofID int64) ([]*withdrawal.ProofImage, error) {
	var models []*withdrawalDatamodel.ProofImage
	err := r.db.Table("proof_images").
		Where("proof_id = ?", proofID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	images := make([]*withdrawal.ProofImage, len(models))
	for i, m := range models {
		images[i] = withdrawal.ProofImageFromDataModel(m)
	}
	return images, nil
}

func (r *WithdrawalRepository) DeleteProofImage(id int64) error {
	return r.db.Table("proof_images").Where("id = ?", id).Delete(&withdrawalDatamodel.ProofImage{}).Error
}
