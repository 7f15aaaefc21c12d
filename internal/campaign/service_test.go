package campaign_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	"github.com/ptnguyen/fundflow/internal/campaign"
	userDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/user"
	"github.com/ptnguyen/fundflow/internal/core/events"
)

func TestCampaign(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Campaign Suite")
}

// Mock repository for testing
type mockCampaignRepository struct {
	campaigns   map[int64]*campaign.Campaign
	createError error
	getError    error
	updateError error
	nextID      int64
}

func newMockCampaignRepository() *mockCampaignRepository {
	return &mockCampaignRepository{
		campaigns: make(map[int64]*campaign.Campaign),
		nextID:    1,
	}
}

func (m *mockCampaignRepository) Create(c *campaign.Campaign) error {
	if m.createError != nil {
		return m.createError
	}
	c.ID = m.nextID
	m.nextID++
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepository) GetByID(id int64) (*campaign.Campaign, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	c, exists := m.campaigns[id]
	if !exists {
		return nil, errors.New("campaign not found")
	}
	return c, nil
}

func (m *mockCampaignRepository) GetByStatus(status string, limit, offset int) ([]*campaign.Campaign, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	result := make([]*campaign.Campaign, 0)
	for _, c := range m.campaigns {
		if c.Status == status {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCampaignRepository) GetByUserDependID(adminID int64, limit, offset int) ([]*campaign.Campaign, error) {
	result := make([]*campaign.Campaign, 0)
	for _, c := range m.campaigns {
		if c.UserDependID != nil && *c.UserDependID == adminID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCampaignRepository) GetByCreatorID(creatorID int64, limit, offset int) ([]*campaign.Campaign, error) {
	result := make([]*campaign.Campaign, 0)
	for _, c := range m.campaigns {
		if c.CreatorID == creatorID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCampaignRepository) Update(c *campaign.Campaign) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.campaigns[c.ID] = c
	return nil
}

// Mock user reader for testing
type mockUserReader struct {
	users    map[int64]*userDatamodel.User
	getError error
}

func newMockUserReader() *mockUserReader {
	return &mockUserReader{users: make(map[int64]*userDatamodel.User)}
}

func (m *mockUserReader) GetByID(id int64) (*userDatamodel.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[id]
	if !exists {
		return nil, errors.New("user not found")
	}
	return u, nil
}

var _ = Describe("CalculateEndDate", func() {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	It("should give the base duration below the acceleration threshold", func() {
		end := campaign.CalculateEndDate(start, decimal.NewFromInt(50_000_000))
		Expect(end).To(Equal(start.AddDate(0, 0, 30)))
	})

	It("should add ten days at exactly the threshold", func() {
		end := campaign.CalculateEndDate(start, decimal.NewFromInt(100_000_000))
		Expect(end).To(Equal(start.AddDate(0, 0, 40)))
	})

	It("should count only full threshold multiples", func() {
		end := campaign.CalculateEndDate(start, decimal.NewFromInt(250_000_000))
		Expect(end).To(Equal(start.AddDate(0, 0, 50)))
	})

	It("should scale linearly with the goal", func() {
		end := campaign.CalculateEndDate(start, decimal.NewFromInt(1_000_000_000))
		Expect(end).To(Equal(start.AddDate(0, 0, 130)))
	})
})

var _ = Describe("CampaignService", func() {
	var (
		service   *campaign.Service
		mockRepo  *mockCampaignRepository
		mockUsers *mockUserReader
		logger    *slog.Logger
		ctx       context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockCampaignRepository()
		mockUsers = newMockUserReader()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		noCache := cache.New(apperrors.CacheConfig{Enabled: false}, logger)
		bus := events.NewEventBus(logger)
		service = campaign.NewService(mockRepo, mockUsers, noCache, bus, logger)
		ctx = context.Background()

		mockUsers.users[1] = &userDatamodel.User{ID: 1, Email: "linh@example.com", Name: "Linh"}
		mockUsers.users[2] = &userDatamodel.User{ID: 2, Email: "banned@example.com", Name: "Banned", IsBanned: true}
		mockUsers.users[10] = &userDatamodel.User{ID: 10, Email: "admin@example.com", Name: "Admin", IsAdmin: true}
		mockUsers.users[11] = &userDatamodel.User{ID: 11, Email: "admin2@example.com", Name: "Admin Two", IsAdmin: true}
	})

	Describe("CreateCampaign", func() {
		It("should create a pending campaign with a computed end date", func() {
			dto := campaign.CreateCampaignDTO{
				Title:        "Flood Relief",
				Description:  "Help families rebuild",
				TargetAmount: decimal.NewFromInt(250_000_000),
			}

			result, err := service.CreateCampaign(ctx, 1, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.Status).To(Equal(campaign.StatusPending))
			Expect(result.CurrentAmount.IsZero()).To(BeTrue())
			Expect(result.UsedAmount.IsZero()).To(BeTrue())
			Expect(result.EndDate).To(Equal(result.StartDate.AddDate(0, 0, 50)))
			Expect(result.Creator).ToNot(BeNil())
			Expect(result.Creator.Name).To(Equal("Linh"))
		})

		It("should reject a banned creator without persisting anything", func() {
			dto := campaign.CreateCampaignDTO{
				Title:        "Should not exist",
				TargetAmount: decimal.NewFromInt(1_000_000),
			}

			result, err := service.CreateCampaign(ctx, 2, dto)

			Expect(err).To(Equal(apperrors.ErrUserBanned))
			Expect(result).To(BeNil())
			Expect(mockRepo.campaigns).To(BeEmpty())
		})

		It("should reject an unknown creator", func() {
			dto := campaign.CreateCampaignDTO{
				Title:        "Ghost campaign",
				TargetAmount: decimal.NewFromInt(1_000_000),
			}

			_, err := service.CreateCampaign(ctx, 999, dto)
			Expect(err).To(Equal(apperrors.ErrUserNotFound))
		})

		It("should reject a non-positive goal", func() {
			dto := campaign.CreateCampaignDTO{
				Title:        "Zero goal",
				TargetAmount: decimal.Zero,
			}

			_, err := service.CreateCampaign(ctx, 1, dto)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})
	})

	Describe("Choose", func() {
		var campaignID int64

		BeforeEach(func() {
			c, err := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "Claimable",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})
			Expect(err).ToNot(HaveOccurred())
			campaignID = c.ID
		})

		It("should move the campaign to depended and record the admin", func() {
			result, err := service.Choose(ctx, campaignID, 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusDepended))
			Expect(result.UserDependID).ToNot(BeNil())
			Expect(*result.UserDependID).To(Equal(int64(10)))
		})

		It("should let a second admin overwrite an earlier claim", func() {
			_, err := service.Choose(ctx, campaignID, 10)
			Expect(err).ToNot(HaveOccurred())

			result, err := service.Choose(ctx, campaignID, 11)

			Expect(err).ToNot(HaveOccurred())
			Expect(*result.UserDependID).To(Equal(int64(11)))
		})

		It("should return not found for a missing campaign", func() {
			_, err := service.Choose(ctx, 999, 10)
			Expect(err).To(Equal(apperrors.ErrCampaignNotFound))
		})
	})

	Describe("Approve", func() {
		It("should mark the campaign approved", func() {
			c, err := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "Approvable",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})
			Expect(err).ToNot(HaveOccurred())

			result, err := service.Approve(ctx, c.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusApproved))
		})

		It("should approve straight from pending without a prior claim", func() {
			c, err := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "Unclaimed",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(c.Status).To(Equal(campaign.StatusPending))

			result, err := service.Approve(ctx, c.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusApproved))
			Expect(result.UserDependID).To(BeNil())
		})
	})

	Describe("ListByAdmin", func() {
		It("should return only campaigns claimed by the given admin", func() {
			first, _ := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "First",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})
			second, _ := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "Second",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})

			_, err := service.Choose(ctx, first.ID, 10)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Choose(ctx, second.ID, 11)
			Expect(err).ToNot(HaveOccurred())

			view, err := service.ListByAdmin(ctx, 10, campaign.ListParams{Page: 1, Size: 10})

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Campaigns).To(HaveLen(1))
			Expect(view.Campaigns[0].ID).To(Equal(first.ID))
		})
	})

	Describe("GetDetail", func() {
		It("should return the campaign with its creator profile", func() {
			c, err := service.CreateCampaign(ctx, 1, campaign.CreateCampaignDTO{
				Title:        "Detailed",
				TargetAmount: decimal.NewFromInt(5_000_000),
			})
			Expect(err).ToNot(HaveOccurred())

			result, err := service.GetDetail(ctx, c.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Creator).ToNot(BeNil())
			Expect(result.Creator.Email).To(Equal("linh@example.com"))
		})

		It("should return not found for a missing campaign", func() {
			_, err := service.GetDetail(ctx, 12345)
			Expect(err).To(Equal(apperrors.ErrCampaignNotFound))
		})
	})
})
