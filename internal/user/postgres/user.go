package postgres

import (
	"gorm.io/gorm"

	userDatamodel "github.com/ptnguyen/fundflow/internal/core/datamodel/user"
	"github.com/ptnguyen/fundflow/internal/user"
)

// UserRepository implements the user.Repository interface using GORM. It
// also serves as the user lookup for the campaign package.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Table("users").Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var model userDatamodel.User
	if err := r.db.Table("users").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var model userDatamodel.User
	if err := r.db.Table("users").Where("email = ?", email).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Table("users").Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
