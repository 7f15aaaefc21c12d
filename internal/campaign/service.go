package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	userDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/user"
	"github.com/ptnguyen/fundflow/internal/core/events"
)

// Repository defines the data access methods for campaigns
type Repository interface {
	Create(c *Campaign) error
	GetByID(id int64) (*Campaign, error)
	GetByStatus(status string, limit, offset int) ([]*Campaign, error)
	GetByUserDependID(adminID int64, limit, offset int) ([]*Campaign, error)
	GetByCreatorID(creatorID int64, limit, offset int) ([]*Campaign, error)
	Update(c *Campaign) error
}

// UserReader looks up users for the banned-creator guard and creator profiles
type UserReader interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type Service struct {
	repo     Repository
	users    UserReader
	cache    *cache.Cache
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, users UserReader, c *cache.Cache, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		cache:    c,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateCampaign persists a new campaign for a non-banned creator. The end
// date is fixed at creation time from the goal amount.
func (s *Service) CreateCampaign(ctx context.Context, creatorID int64, dto CreateCampaignDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("campaign validation failed", "error", err, "creator_id", creatorID)
		return nil, err
	}

	creator, err := s.users.GetByID(creatorID)
	if err != nil {
		s.logger.Error("creator lookup failed", "error", err, "creator_id", creatorID)
		return nil, errors.ErrUserNotFound
	}
	if creator.IsBanned {
		s.logger.Warn("banned user attempted campaign creation", "creator_id", creatorID)
		return nil, errors.ErrUserBanned
	}

	now := time.Now()
	c := &Campaign{
		Title:         dto.Title,
		Description:   dto.Description,
		ImageURL:      dto.ImageURL,
		TargetAmount:  dto.TargetAmount,
		CurrentAmount: decimal.Zero,
		UsedAmount:    decimal.Zero,
		Status:        StatusPending,
		CreatorID:     creatorID,
		StartDate:     now,
		EndDate:       CalculateEndDate(now, dto.TargetAmount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create campaign", "error", err, "creator_id", creatorID)
		return nil, err
	}

	s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists)

	c.Creator = profileOf(creator)

	s.logger.Info("campaign created",
		"campaign_id", c.ID,
		"creator_id", creatorID,
		"target_amount", c.TargetAmount.String(),
		"end_date", c.EndDate)

	return c, nil
}

// ListByStatus serves the public listing scopes (approved, pending,
// depended) through the read-through cache.
func (s *Service) ListByStatus(ctx context.Context, status string, params ListParams) (*ListView, error) {
	key := cache.CampaignListKey(status, params.Page, params.Size)

	var cached ListView
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	campaigns, err := s.repo.GetByStatus(status, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list campaigns", "error", err, "status", status)
		return nil, err
	}
	s.attachCreators(campaigns)

	view := &ListView{Campaigns: campaigns, Page: params.Page, Size: params.Size}
	s.cache.SetJSON(ctx, key, view, cache.ScopeCampaignLists)

	return view, nil
}

// ListByAdmin returns the campaigns the given admin has claimed for review.
func (s *Service) ListByAdmin(ctx context.Context, adminID int64, params ListParams) (*ListView, error) {
	campaigns, err := s.repo.GetByUserDependID(adminID, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list claimed campaigns", "error", err, "admin_id", adminID)
		return nil, err
	}
	s.attachCreators(campaigns)
	return &ListView{Campaigns: campaigns, Page: params.Page, Size: params.Size}, nil
}

// ListByCreator returns the campaigns owned by the given user.
func (s *Service) ListByCreator(ctx context.Context, creatorID int64, params ListParams) (*ListView, error) {
	campaigns, err := s.repo.GetByCreatorID(creatorID, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list own campaigns", "error", err, "creator_id", creatorID)
		return nil, err
	}
	s.attachCreators(campaigns)
	return &ListView{Campaigns: campaigns, Page: params.Page, Size: params.Size}, nil
}

// Choose claims a campaign for review by an admin. A second claim by a
// different admin overwrites the first.
func (s *Service) Choose(ctx context.Context, campaignID, adminID int64) (*Campaign, error) {
	c, err := s.repo.GetByID(campaignID)
	if err != nil {
		s.logger.Error("campaign not found for choose", "error", err, "campaign_id", campaignID)
		return nil, errors.ErrCampaignNotFound
	}

	c.Choose(adminID)
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to claim campaign", "error", err, "campaign_id", campaignID, "admin_id", adminID)
		return nil, err
	}

	s.cache.Delete(ctx, cache.CampaignDetailKey(campaignID))
	s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists)

	s.logger.Info("campaign claimed for review", "campaign_id", campaignID, "admin_id", adminID)
	return c, nil
}

// Approve marks the campaign approved. Any current status is accepted.
func (s *Service) Approve(ctx context.Context, campaignID int64) (*Campaign, error) {
	c, err := s.repo.GetByID(campaignID)
	if err != nil {
		s.logger.Error("campaign not found for approve", "error", err, "campaign_id", campaignID)
		return nil, errors.ErrCampaignNotFound
	}

	c.Approve()
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to approve campaign", "error", err, "campaign_id", campaignID)
		return nil, err
	}

	s.cache.Delete(ctx, cache.CampaignDetailKey(campaignID))
	s.cache.InvalidateScope(ctx, cache.ScopeCampaignLists)

	s.eventBus.Publish(ctx, events.NewCampaignApprovedEvent(c.ID, c.Title, c.EndDate))

	s.logger.Info("campaign approved", "campaign_id", campaignID)
	return c, nil
}

// GetDetail returns the full single-campaign view with its creator profile.
func (s *Service) GetDetail(ctx context.Context, campaignID int64) (*Campaign, error) {
	key := cache.CampaignDetailKey(campaignID)

	var cached Campaign
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	c, err := s.repo.GetByID(campaignID)
	if err != nil {
		s.logger.Error("campaign not found", "error", err, "campaign_id", campaignID)
		return nil, errors.ErrCampaignNotFound
	}
	s.attachCreators([]*Campaign{c})

	s.cache.SetJSON(ctx, key, c)

	return c, nil
}

func (s *Service) attachCreators(campaigns []*Campaign) {
	for _, c := range campaigns {
		creator, err := s.users.GetByID(c.CreatorID)
		if err != nil {
			s.logger.Warn("creator profile lookup failed", "campaign_id", c.ID, "creator_id", c.CreatorID, "error", err)
			continue
		}
		c.Creator = profileOf(creator)
	}
}

func profileOf(u *userDatamodel.User) *CreatorProfile {
	return &CreatorProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
