package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/ptnguyen/fundflow/internal/campaign"
	campaignDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/campaign"
)

// CampaignRepository implements the campaign.Repository interface using GORM
type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) campaign.Repository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(c *campaign.Campaign) error {
	model := campaign.ToDataModel(c)
	if err := r.db.Table("campaigns").Create(model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

func (r *CampaignRepository) GetByID(id int64) (*campaign.Campaign, error) {
	var model campaignDatamodel.Campaign
	err := r.db.Table("campaigns").Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, err
	}
	return campaign.FromDataModel(&model), nil
}

func (r *CampaignRepository) GetByStatus(status string, limit, offset int) ([]*campaign.Campaign, error) {
	var models []*campaignDatamodel.Campaign
	err := r.db.Table("campaigns").
		Where("status = ?", status).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

func (r *CampaignRepository) GetByUserDependID(adminID int64, limit, offset int) ([]*campaign.Campaign, error) {
	var models []*campaignDatamodel.Campaign
	err := r.db.Table("campaigns").
		Where("user_depend_id = ?", adminID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

func (r *CampaignRepository) GetByCreatorID(creatorID int64, limit, offset int) ([]*campaign.Campaign, error) {
	var models []*campaignDatamodel.Campaign
	err := r.db.Table("campaigns").
		Where("creator_id = ?", creatorID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

func (r *CampaignRepository) Update(c *campaign.Campaign) error {
	c.UpdatedAt = time.Now()
	return r.db.Table("campaigns").Save(campaign.ToDataModel(c)).Error
}

func fromModels(models []*campaignDatamodel.Campaign) []*campaign.Campaign {
	return campaign.FromDataModelSlice(models)
}
