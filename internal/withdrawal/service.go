package withdrawal

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	"github.com/ptnguyen/fundflow/internal/campaign"
)

// Repository defines the data access methods for withdrawals and proofs
type Repository interface {
	Create(w *Withdrawal) error
	GetByID(id int64) (*Withdrawal, error)
	GetRecentByCampaign(campaignID int64, limit int) ([]*Withdrawal, error)
	List(statusFilter string, limit, offset int) ([]*Withdrawal, error)
	Update(w *Withdrawal) error
	Delete(id int64) error

	CreateProof(p *Proof) error
	GetProofByID(id int64) (*Proof, error)
	ListProofsByWithdrawal(withdrawalID int64) ([]*Proof, error)
	DeleteProof(id int64) error

	CreateProofImage(img *ProofImage) error
	GetProofImageByID(id int64) (*ProofImage, error)
	ListProofImagesByProof(proofID int64) ([]*ProofImage, error)
	DeleteProofImage(id int64) error
}

// CampaignStore gives the withdrawal policy access to campaign balances
type CampaignStore interface {
	GetByID(id int64) (*campaign.Campaign, error)
	Update(c *campaign.Campaign) error
}

type Service struct {
	repo      Repository
	campaigns CampaignStore
	cache     *cache.Cache
	logger    *slog.Logger
}

func NewService(repo Repository, campaigns CampaignStore, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		cache:     c,
		logger:    logger,
	}
}

// CreateWithdrawal enforces the in-flight policy: the two most recent
// requests for the campaign decide whether a new one is admissible. A
// quickly withdrawal is additionally capped at 30% of the current balance
// and burns the campaign's one-time quickly allowance.
func (s *Service) CreateWithdrawal(ctx context.Context, userID int64, dto CreateWithdrawalDTO) (*Withdrawal, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("withdrawal validation failed", "error", err, "campaign_id", dto.CampaignID)
		return nil, err
	}

	c, err := s.campaigns.GetByID(dto.CampaignID)
	if err != nil {
		s.logger.Error("campaign not found for withdrawal", "error", err, "campaign_id", dto.CampaignID)
		return nil, errors.ErrCampaignNotFound
	}

	recent, err := s.repo.GetRecentByCampaign(c.ID, 2)
	if err != nil {
		s.logger.Error("failed to load recent withdrawals", "error", err, "campaign_id", c.ID)
		return nil, err
	}

	for _, prev := range recent {
		if !prev.InFlight() {
			continue
		}
		if dto.Type == TypeNormal {
			s.logger.Warn("normal withdrawal blocked by in-flight request",
				"campaign_id", c.ID, "blocking_withdrawal_id", prev.ID, "blocking_status", prev.Status)
			return nil, errors.ErrWithdrawalInFlight
		}
		if dto.Type == TypeQuickly && prev.Type == TypeQuickly {
			s.logger.Warn("duplicate expedited withdrawal blocked",
				"campaign_id", c.ID, "blocking_withdrawal_id", prev.ID)
			return nil, errors.ErrExpeditedUsed
		}
	}

	if dto.Type == TypeQuickly {
		limit := ExpeditedLimit(c.CurrentAmount)
		if dto.Amount.GreaterThan(limit) {
			s.logger.Warn("expedited withdrawal over limit",
				"campaign_id", c.ID,
				"amount", dto.Amount.String(),
				"limit", limit.String())
			return nil, errors.ErrExpeditedOverLimit
		}
	}

	now := time.Now()
	w := &Withdrawal{
		CampaignID: c.ID,
		UserID:     userID,
		Type:       dto.Type,
		Amount:     dto.Amount,
		Reason:     dto.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(w); err != nil {
		s.logger.Error("failed to create withdrawal", "error", err, "campaign_id", c.ID)
		return nil, err
	}

	// The allowance is burned only once the request row exists.
	if dto.Type == TypeQuickly {
		c.QuicklyUsed = true
		if err := s.campaigns.Update(c); err != nil {
			s.logger.Error("failed to burn quickly allowance", "error", err, "campaign_id", c.ID)
			return nil, err
		}
		s.cache.Delete(ctx, cache.CampaignDetailKey(c.ID))
		s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists)
	}

	s.logger.Info("withdrawal created",
		"withdrawal_id", w.ID,
		"campaign_id", c.ID,
		"type", w.Type,
		"amount", w.Amount.String())

	return w, nil
}

// ApproveWithdrawal moves a pending request to waiting, stamps the
// approval time, and accounts the amount into the campaign's used total.
// The current balance is left untouched; it tracks lifetime donations.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID int64) (*Withdrawal, error) {
	w, err := s.repo.GetByID(withdrawalID)
	if err != nil {
		return nil, errors.ErrWithdrawalNotFound
	}

	if !w.CanBeApproved() {
		s.logger.Warn("withdrawal cannot be approved in current status",
			"withdrawal_id", withdrawalID, "status", w.Status)
		return nil, errors.NewValidationError("withdrawal is not pending approval", errors.ErrCodeInvalidStatus)
	}

	c, err := s.campaigns.GetByID(w.CampaignID)
	if err != nil {
		return nil, errors.ErrCampaignNotFound
	}

	w.Approve()
	if err := s.repo.Update(w); err != nil {
		s.logger.Error("failed to approve withdrawal", "error", err, "withdrawal_id", withdrawalID)
		return nil, err
	}

	c.UsedAmount = c.UsedAmount.Add(w.Amount)
	if err := s.campaigns.Update(c); err != nil {
		s.logger.Error("failed to account used amount", "error", err, "campaign_id", c.ID)
		return nil, err
	}

	s.cache.Delete(ctx, cache.CampaignDetailKey(c.ID))
	s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists)

	s.logger.Info("withdrawal approved",
		"withdrawal_id", w.ID,
		"campaign_id", c.ID,
		"amount", w.Amount.String())

	return w, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, statusFilter string, params ListParams) (*ListView, error) {
	withdrawals, err := s.repo.List(statusFilter, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list withdrawals", "error", err, "status", statusFilter)
		return nil, err
	}
	return &ListView{Withdrawals: withdrawals, Page: params.Page, Size: params.Size}, nil
}

func (s *Service) GetWithdrawal(ctx context.Context, id int64) (*Withdrawal, error) {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrWithdrawalNotFound
	}

	proofs, err := s.repo.ListProofsByWithdrawal(id)
	if err != nil {
		s.logger.Warn("failed to load proofs for withdrawal", "error", err, "withdrawal_id", id)
	} else {
		w.Proofs = proofs
	}

	return w, nil
}

// DeleteWithdrawal removes the request unconditionally, whatever its status.
func (s *Service) DeleteWithdrawal(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrWithdrawalNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete withdrawal", "error", err, "withdrawal_id", id)
		return err
	}
	s.logger.Info("withdrawal deleted", "withdrawal_id", id)
	return nil
}

// CreateProof attaches a proof document. The first proof on a waiting
// withdrawal settles it as proven.
func (s *Service) CreateProof(ctx context.Context, dto CreateProofDTO) (*Proof, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(dto.WithdrawalID)
	if err != nil {
		return nil, errors.ErrWithdrawalNotFound
	}

	now := time.Now()
	p := &Proof{
		WithdrawalID: w.ID,
		Description:  dto.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateProof(p); err != nil {
		s.logger.Error("failed to create proof", "error", err, "withdrawal_id", w.ID)
		return nil, err
	}

	if w.Status == StatusWaiting {
		w.MarkProven()
		if err := s.repo.Update(w); err != nil {
			s.logger.Error("failed to settle withdrawal as proven", "error", err, "withdrawal_id", w.ID)
			return nil, err
		}
	}

	s.logger.Info("proof attached", "proof_id", p.ID, "withdrawal_id", w.ID)
	return p, nil
}

func (s *Service) ListProofs(ctx context.Context, withdrawalID int64) ([]*Proof, error) {
	if _, err := s.repo.GetByID(withdrawalID); err != nil {
		return nil, errors.ErrWithdrawalNotFound
	}
	return s.repo.ListProofsByWithdrawal(withdrawalID)
}

func (s *Service) GetProof(ctx context.Context, id int64) (*Proof, error) {
	p, err := s.repo.GetProofByID(id)
	if err != nil {
		return nil, errors.ErrProofNotFound
	}

	images, err := s.repo.ListProofImagesByProof(id)
	if err != nil {
		s.logger.Warn("failed to load proof images", "error", err, "proof_id", id)
	} else {
		p.Images = images
	}

	return p, nil
}

func (s *Service) DeleteProof(ctx context.Context, id int64) error {
	if _, err := s.repo.GetProofByID(id); err != nil {
		return errors.ErrProofNotFound
	}
	if err := s.repo.DeleteProof(id); err != nil {
		s.logger.Error("failed to delete proof", "error", err, "proof_id", id)
		return err
	}
	return nil
}

func (s *Service) AddProofImage(ctx context.Context, dto CreateProofImageDTO) (*ProofImage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetProofByID(dto.ProofID); err != nil {
		return nil, errors.ErrProofNotFound
	}

	img := &ProofImage{
		ProofID:   dto.ProofID,
		ImageURL:  dto.ImageURL,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateProofImage(img); err != nil {
		s.logger.Error("failed to create proof image", "error", err, "proof_id", dto.ProofID)
		return nil, err
	}

	return img, nil
}

func (s *Service) ListProofImages(ctx context.Context, proofID int64) ([]*ProofImage, error) {
	if _, err := s.repo.GetProofByID(proofID); err != nil {
		return nil, errors.ErrProofNotFound
	}
	return s.repo.ListProofImagesByProof(proofID)
}

func (s *Service) DeleteProofImage(ctx context.Context, id int64) error {
	if _, err := s.repo.GetProofImageByID(id); err != nil {
		return errors.ErrProofImageNotFound
	}
	if err := s.repo.DeleteProofImage(id); err != nil {
		s.logger.Error("failed to delete proof image", "error", err, "proof_image_id", id)
		return err
	}
	return nil
}
