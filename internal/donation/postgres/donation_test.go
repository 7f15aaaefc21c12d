package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	donationDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/donation"
	"github.com/ptnguyen/fundflow/internal/donation"
)

func TestDonationRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DonationRepository Suite")
}

type SQLiteCampaign struct {
	ID            int64           `gorm:"primaryKey"`
	Title         string          `gorm:"not null"`
	TargetAmount  decimal.Decimal `gorm:"column:target_amount"`
	CurrentAmount decimal.Decimal `gorm:"column:current_amount"`
	UsedAmount    decimal.Decimal `gorm:"column:used_amount"`
	Status        string          `gorm:"column:status"`
	CreatorID     int64           `gorm:"column:creator_id"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (SQLiteCampaign) TableName() string {
	return "campaigns"
}

type SQLiteDonation struct {
	ID            int64           `gorm:"primaryKey"`
	CampaignID    int64           `gorm:"column:campaign_id"`
	UserID        *int64          `gorm:"column:user_id"`
	AnonymousName *string         `gorm:"column:anonymous_name"`
	Amount        decimal.Decimal `gorm:"column:amount"`
	Message       string          `gorm:"column:message"`
	Code          string          `gorm:"column:code;uniqueIndex"`
	TransactionID *string         `gorm:"column:transaction_id"`
	BankName      *string         `gorm:"column:bank_name"`
	BankNumber    *string         `gorm:"column:bank_number"`
	Status        string          `gorm:"column:status;default:'pending'"`
	ConfirmedAt   *time.Time      `gorm:"column:confirmed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (SQLiteDonation) TableName() string {
	return "donations"
}

type SQLiteTransactionError struct {
	ID         int64           `gorm:"primaryKey"`
	BankName   *string         `gorm:"column:bank_name"`
	BankNumber *string         `gorm:"column:bank_number"`
	Amount     decimal.Decimal `gorm:"column:amount"`
	Reason     string          `gorm:"column:reason"`
	RawContent string          `gorm:"column:raw_content"`
	Status     string          `gorm:"column:status;default:'pending'"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (SQLiteTransactionError) TableName() string {
	return "transaction_errors"
}

var _ = Describe("DonationRepository", func() {
	var (
		db   *gorm.DB
		repo donation.Repository
	)

	createCampaign := func() int64 {
		c := &SQLiteCampaign{
			Title:         "Flood Relief",
			TargetAmount:  decimal.NewFromInt(10_000_000),
			CurrentAmount: decimal.Zero,
			UsedAmount:    decimal.Zero,
			Status:        "approved",
			CreatorID:     1,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		Expect(db.Create(c).Error).NotTo(HaveOccurred())
		return c.ID
	}

	createPendingDonation := func(campaignID int64, code string) *donation.Donation {
		name := "Nam"
		d := &donation.Donation{
			CampaignID:    campaignID,
			AnonymousName: &name,
			Amount:        decimal.Zero,
			Code:          code,
			Status:        donation.StatusPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		Expect(repo.Create(d)).To(Succeed())
		return d
	}

	campaignBalance := func(campaignID int64) decimal.Decimal {
		var c SQLiteCampaign
		Expect(db.Table("campaigns").Where("id = ?", campaignID).First(&c).Error).NotTo(HaveOccurred())
		return c.CurrentAmount
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteCampaign{}, &SQLiteDonation{}, &SQLiteTransactionError{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewDonationRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByCode", func() {
		It("should round-trip a donation by its correlation code", func() {
			campaignID := createCampaign()
			created := createPendingDonation(campaignID, "TS-1-1722500000")

			fetched, err := repo.GetByCode("TS-1-1722500000")
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.ID).To(Equal(created.ID))
			Expect(fetched.Status).To(Equal(donation.StatusPending))
			Expect(fetched.Amount.IsZero()).To(BeTrue())
		})

		It("should fail for an unknown code", func() {
			_, err := repo.GetByCode("TS-9-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Confirm", func() {
		It("should settle the donation and credit the campaign", func() {
			campaignID := createCampaign()
			d := createPendingDonation(campaignID, "TS-1-1722500000")

			bank := "VCB"
			number := "00123456"
			ref := "FT1234"
			credited, err := repo.Confirm(d.ID, decimal.NewFromInt(50000), &bank, &number, &ref)

			Expect(err).NotTo(HaveOccurred())
			Expect(credited).To(BeTrue())

			fetched, err := repo.GetByID(d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.Status).To(Equal(donation.StatusSuccess))
			Expect(fetched.Amount.Equal(decimal.NewFromInt(50000))).To(BeTrue())
			Expect(fetched.ConfirmedAt).NotTo(BeNil())
			Expect(*fetched.TransactionID).To(Equal("FT1234"))

			Expect(campaignBalance(campaignID).Equal(decimal.NewFromInt(50000))).To(BeTrue())
		})

		It("should not credit twice for the same donation", func() {
			campaignID := createCampaign()
			d := createPendingDonation(campaignID, "TS-1-1722500000")

			ref := "FT1234"
			credited, err := repo.Confirm(d.ID, decimal.NewFromInt(50000), nil, nil, &ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(credited).To(BeTrue())

			credited, err = repo.Confirm(d.ID, decimal.NewFromInt(50000), nil, nil, &ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(credited).To(BeFalse())

			Expect(campaignBalance(campaignID).Equal(decimal.NewFromInt(50000))).To(BeTrue())
		})

		It("should accumulate credits from different donations", func() {
			campaignID := createCampaign()
			first := createPendingDonation(campaignID, "TS-1-1722500000")
			second := createPendingDonation(campaignID, "TS-1-1722500001")

			ref := "FT1"
			_, err := repo.Confirm(first.ID, decimal.NewFromInt(30000), nil, nil, &ref)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.Confirm(second.ID, decimal.NewFromInt(20000), nil, nil, &ref)
			Expect(err).NotTo(HaveOccurred())

			Expect(campaignBalance(campaignID).Equal(decimal.NewFromInt(50000))).To(BeTrue())
		})
	})

	Describe("List", func() {
		It("should filter by campaign", func() {
			first := createCampaign()
			second := createCampaign()
			createPendingDonation(first, "TS-1-1")
			createPendingDonation(second, "TS-2-1")

			all, err := repo.List(nil, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			filtered, err := repo.List(&second, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(filtered).To(HaveLen(1))
			Expect(filtered[0].CampaignID).To(Equal(second))
		})
	})

	Describe("RecordTransactionError", func() {
		It("should persist the failure row", func() {
			te := &donationDatamodel.TransactionError{
				Amount:     decimal.NewFromInt(75000),
				Reason:     "no donation matches correlation code",
				RawContent: `{"description":"chuyen tien"}`,
				Status:     "pending",
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}

			Expect(repo.RecordTransactionError(te)).To(Succeed())
			Expect(te.ID).To(BeNumerically(">", 0))

			var count int64
			Expect(db.Table("transaction_errors").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})
})
