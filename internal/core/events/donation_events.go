package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeDonationConfirmed = "donation.confirmed"
	EventTypeCampaignApproved  = "campaign.approved"
	EventTypeCampaignFunded    = "campaign.funded"
)

type DonationConfirmedEvent struct {
	BaseEvent
	DonationID    int64           `json:"donation_id"`
	CampaignID    int64           `json:"campaign_id"`
	CampaignTitle string          `json:"campaign_title"`
	Amount        decimal.Decimal `json:"amount"`
	DonorName     string          `json:"donor_name"`
}

func NewDonationConfirmedEvent(donationID, campaignID int64, campaignTitle string, amount decimal.Decimal, donorName string) *DonationConfirmedEvent {
	return &DonationConfirmedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDonationConfirmed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"donation_id":    donationID,
				"campaign_id":    campaignID,
				"campaign_title": campaignTitle,
				"amount":         amount.String(),
				"donor_name":     donorName,
			},
		},
		DonationID:    donationID,
		CampaignID:    campaignID,
		CampaignTitle: campaignTitle,
		Amount:        amount,
		DonorName:     donorName,
	}
}

type CampaignApprovedEvent struct {
	BaseEvent
	CampaignID int64     `json:"campaign_id"`
	Title      string    `json:"title"`
	EndDate    time.Time `json:"end_date"`
}

func NewCampaignApprovedEvent(campaignID int64, title string, endDate time.Time) *CampaignApprovedEvent {
	return &CampaignApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCampaignApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"campaign_id": campaignID,
				"title":       title,
				"end_date":    endDate,
			},
		},
		CampaignID: campaignID,
		Title:      title,
		EndDate:    endDate,
	}
}

type CampaignFundedEvent struct {
	BaseEvent
	CampaignID    int64           `json:"campaign_id"`
	Title         string          `json:"title"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
}

func NewCampaignFundedEvent(campaignID int64, title string, current, target decimal.Decimal) *CampaignFundedEvent {
	return &CampaignFundedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCampaignFunded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"campaign_id":    campaignID,
				"title":          title,
				"current_amount": current.String(),
				"target_amount":  target.String(),
			},
		},
		CampaignID:    campaignID,
		Title:         title,
		CurrentAmount: current,
		TargetAmount:  target,
	}
}
