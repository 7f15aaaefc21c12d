package user

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/cache"
	userDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/user"
)

// Repository defines the data access methods for users
type Repository interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	EmailExists(email string) (bool, error)
}

// PasswordHasher is satisfied by the auth service
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	cache  *cache.Cache
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		cache:  c,
		logger: logger,
	}
}

// Register creates a new account. Email is unique across the system.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		s.logger.Error("email existence check failed", "error", err, "email", email)
		return nil, err
	}
	if exists {
		return nil, errors.ErrEmailAlreadyUsed
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, err
	}

	model := &userDatamodel.User{
		Email:        email,
		Name:         dto.Name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(model); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", model.ID, "email", email)
	return FromDataModel(model), nil
}

// GetProfile returns a user view through the cache.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	key := cache.UserDetailKey(userID)

	var cached User
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	model, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	u := FromDataModel(model)
	s.cache.SetJSON(ctx, key, u, cache.ScopeUserLists)

	return u, nil
}
