package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	userDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/user"
	"github.com/ptnguyen/fundflow/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users  map[int64]*userDatamodel.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	_, err := m.GetByEmail(email)
	return err == nil, nil
}

// Mock hasher for testing
type mockHasher struct{}

func (mockHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		noCache := cache.New(apperrors.CacheConfig{Enabled: false}, logger)
		service = user.NewService(mockRepo, mockHasher{}, noCache, logger)
		ctx = context.Background()
	})

	Describe("Register", func() {
		It("should create an account with a normalized email", func() {
			u, err := service.Register(ctx, user.RegisterDTO{
				Email:    "  Linh@Example.COM ",
				Name:     "Linh",
				Password: "secret-password",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Email).To(Equal("linh@example.com"))
			Expect(u.IsAdmin).To(BeFalse())
		})

		It("should reject a duplicate email", func() {
			_, err := service.Register(ctx, user.RegisterDTO{
				Email:    "linh@example.com",
				Name:     "Linh",
				Password: "secret-password",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Register(ctx, user.RegisterDTO{
				Email:    "linh@example.com",
				Name:     "Other",
				Password: "other-password",
			})
			Expect(err).To(Equal(apperrors.ErrEmailAlreadyUsed))
		})

		It("should reject a short password", func() {
			_, err := service.Register(ctx, user.RegisterDTO{
				Email:    "linh@example.com",
				Name:     "Linh",
				Password: "short",
			})

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("should never store the raw password", func() {
			_, err := service.Register(ctx, user.RegisterDTO{
				Email:    "linh@example.com",
				Name:     "Linh",
				Password: "secret-password",
			})
			Expect(err).ToNot(HaveOccurred())

			stored, err := mockRepo.GetByEmail("linh@example.com")
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.PasswordHash).To(Equal("hashed:secret-password"))
		})
	})

	Describe("GetProfile", func() {
		It("should return the stored user", func() {
			created, err := service.Register(ctx, user.RegisterDTO{
				Email:    "linh@example.com",
				Name:     "Linh",
				Password: "secret-password",
			})
			Expect(err).ToNot(HaveOccurred())

			profile, err := service.GetProfile(ctx, created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(profile.Email).To(Equal("linh@example.com"))
		})

		It("should return not found for a missing user", func() {
			_, err := service.GetProfile(ctx, 999)
			Expect(err).To(Equal(apperrors.ErrUserNotFound))
		})
	})
})
