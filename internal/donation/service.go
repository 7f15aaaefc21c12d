package donation

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	"github.com/ptnguyen/fundflow/internal/campaign"
	donationDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/donation"
	gatewaytypes "github.com/ptnguyen/fundflow/internal/core/datamodel/paymentgateway"
	"github.com/ptnguyen/fundflow/internal/core/events"
	"github.com/ptnguyen/fundflow/internal/paymentgateway"
)

// Repository defines the data access methods for donations
type Repository interface {
	Create(d *Donation) error
	GetByID(id int64) (*Donation, error)
	GetByCode(code string) (*Donation, error)
	List(campaignID *int64, limit, offset int) ([]*Donation, error)
	ListByUser(userID int64, limit, offset int) ([]*Donation, error)
	// Confirm transitions a pending donation to success and credits the
	// campaign in the same transaction. It reports false when the donation
	// was not in pending state, so replayed webhooks never double-credit.
	Confirm(donationID int64, amount decimal.Decimal, bankName, bankNumber, transactionID *string) (bool, error)
	RecordTransactionError(te *donationDatamodel.TransactionError) error
}

// CampaignReader gives the donation flow read access to campaigns
type CampaignReader interface {
	GetByID(id int64) (*campaign.Campaign, error)
}

// Gateway abstracts the hosted-checkout payment gateway
type Gateway interface {
	CreatePaymentLink(ctx context.Context, orderCode, amount int64, description string) (*gatewaytypes.CheckoutData, error)
	VerifyWebhook(raw []byte) (*gatewaytypes.WebhookData, error)
}

type Service struct {
	repo      Repository
	campaigns CampaignReader
	gateway   Gateway
	cache     *cache.Cache
	eventBus  *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, campaigns CampaignReader, gateway Gateway, c *cache.Cache, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		gateway:   gateway,
		cache:     c,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateDonation records a pending donation intent and asks the gateway
// for a hosted checkout link keyed by the correlation code.
func (s *Service) CreateDonation(ctx context.Context, userID *int64, dto CreateDonationDTO) (*CreateDonationResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("donation validation failed", "error", err, "campaign_id", dto.CampaignID)
		return nil, err
	}
	if userID == nil && (dto.AnonymousName == nil || *dto.AnonymousName == "") {
		return nil, errors.NewValidationFieldError("anonymous_name", "anonymous_name is required for guest donations", errors.ErrCodeValidationFailed)
	}

	c, err := s.campaigns.GetByID(dto.CampaignID)
	if err != nil {
		s.logger.Error("campaign not found for donation", "error", err, "campaign_id", dto.CampaignID)
		return nil, errors.ErrCampaignNotFound
	}

	now := time.Now()
	code := NewCode(c.ID, now)

	d := &Donation{
		CampaignID:    c.ID,
		UserID:        userID,
		AnonymousName: dto.AnonymousName,
		Amount:        decimal.Zero,
		Message:       dto.Message,
		Code:          code.String(),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(d); err != nil {
		s.logger.Error("failed to create donation", "error", err, "campaign_id", c.ID)
		return nil, err
	}

	checkout, err := s.gateway.CreatePaymentLink(ctx, d.ID, dto.Amount, d.Code)
	if err != nil {
		s.logger.Error("payment link creation failed", "error", err, "donation_id", d.ID, "code", d.Code)
		return nil, errors.NewExternalError("payment gateway is unavailable", errors.ErrCodeGatewayFailed, err)
	}

	s.cache.InvalidateScope(ctx, cache.ScopeDonationLists)

	s.logger.Info("donation intent created",
		"donation_id", d.ID,
		"campaign_id", c.ID,
		"code", d.Code,
		"checkout_url", checkout.CheckoutURL)

	return &CreateDonationResponse{Donation: d, Checkout: checkout}, nil
}

// HandleWebhook reconciles a payment confirmation callback against its
// donation. Signature failures, malformed codes, and unmatched codes are
// surfaced as distinct reconciliation errors; the latter two also land a
// TransactionError row for manual follow-up.
func (s *Service) HandleWebhook(ctx context.Context, raw []byte) (*Donation, error) {
	data, err := s.gateway.VerifyWebhook(raw)
	if err != nil {
		if err == paymentgateway.ErrInvalidSignature {
			s.logger.Warn("webhook signature verification failed")
			return nil, errors.ErrWebhookSignature
		}
		s.logger.Warn("webhook payload could not be parsed", "error", err)
		return nil, errors.ErrWebhookMalformed.WithCause(err)
	}

	code, err := ParseCode(data.Description)
	if err != nil {
		s.recordTransactionError(data, raw, "malformed correlation code")
		s.logger.Warn("webhook carried malformed correlation code", "description", data.Description, "error", err)
		return nil, errors.NewReconciliationError("webhook correlation code is malformed", errors.ErrCodeWebhookMalformed).WithCause(err)
	}

	d, err := s.repo.GetByCode(code.String())
	if err != nil {
		s.recordTransactionError(data, raw, "no donation matches correlation code")
		s.logger.Warn("webhook matched no donation", "code", code.String())
		return nil, errors.NewReconciliationError("no donation matches the webhook code", errors.ErrCodeWebhookUnmatched)
	}

	amount := decimal.NewFromInt(data.Amount)
	transactionID := &data.Reference

	credited, err := s.repo.Confirm(d.ID, amount, data.CounterAccountName, data.CounterAccountNumber, transactionID)
	if err != nil {
		s.logger.Error("donation confirmation failed", "error", err, "donation_id", d.ID)
		return nil, err
	}
	if !credited {
		// Replayed webhook for an already-confirmed donation. Nothing to do.
		s.logger.Info("webhook replay ignored", "donation_id", d.ID, "code", d.Code)
		return d, nil
	}

	s.cache.Delete(ctx, cache.CampaignDetailKey(d.CampaignID))
	s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists, cache.ScopeDonationLists)

	confirmed, err := s.repo.GetByID(d.ID)
	if err != nil {
		confirmed = d
	}

	if c, err := s.campaigns.GetByID(d.CampaignID); err == nil {
		s.eventBus.Publish(ctx, events.NewDonationConfirmedEvent(
			confirmed.ID, c.ID, c.Title, amount, confirmed.DonorName()))
		if c.IsFunded() {
			s.eventBus.Publish(ctx, events.NewCampaignFundedEvent(c.ID, c.Title, c.CurrentAmount, c.TargetAmount))
		}
	}

	s.logger.Info("donation confirmed",
		"donation_id", confirmed.ID,
		"campaign_id", confirmed.CampaignID,
		"amount", amount.String())

	return confirmed, nil
}

// ListDonations serves paginated donation views through the cache.
func (s *Service) ListDonations(ctx context.Context, campaignID *int64, params ListParams) (*ListView, error) {
	key := cache.DonationListKey(campaignID, params.Page, params.Size)

	var cached ListView
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	donations, err := s.repo.List(campaignID, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list donations", "error", err)
		return nil, err
	}

	view := &ListView{Donations: donations, Page: params.Page, Size: params.Size}
	s.cache.SetJSON(ctx, key, view, cache.ScopeDonationLists)

	return view, nil
}

// ListByUser returns the authenticated user's own donations.
func (s *Service) ListByUser(ctx context.Context, userID int64, params ListParams) (*ListView, error) {
	donations, err := s.repo.ListByUser(userID, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list user donations", "error", err, "user_id", userID)
		return nil, err
	}
	return &ListView{Donations: donations, Page: params.Page, Size: params.Size}, nil
}

func (s *Service) recordTransactionError(data *gatewaytypes.WebhookData, raw []byte, reason string) {
	te := &donationDatamodel.TransactionError{
		BankName:   data.CounterAccountName,
		BankNumber: data.CounterAccountNumber,
		Amount:     decimal.NewFromInt(data.Amount),
		Reason:     reason,
		RawContent: string(raw),
		Status:     "pending",
	}
	if err := s.repo.RecordTransactionError(te); err != nil {
		s.logger.Error("failed to record transaction error", "error", err, "reason", reason)
	}
}
