package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/ptnguyen/fundflow/internal/auth"
)

// AuthRepository answers credential and principal lookups with raw SQL;
// the hot authentication path skips the ORM.
type AuthRepository struct {
	db *sqlx.DB
}

func NewAuthRepository(db *sqlx.DB) auth.UserRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	var row struct {
		ID           int64  `db:"id"`
		PasswordHash string `db:"password_hash"`
	}
	err := r.db.Get(&row, "SELECT id, password_hash FROM users WHERE email = $1", email)
	if err != nil {
		return "", 0, err
	}
	return row.PasswordHash, row.ID, nil
}

func (r *AuthRepository) GetUserByID(userID int64) (*auth.User, error) {
	var row struct {
		ID        int64   `db:"id"`
		Email     string  `db:"email"`
		Name      string  `db:"name"`
		AvatarURL *string `db:"avatar_url"`
		IsAdmin   bool    `db:"is_admin"`
		IsBanned  bool    `db:"is_banned"`
	}
	err := r.db.Get(&row,
		"SELECT id, email, name, avatar_url, is_admin, is_banned FROM users WHERE id = $1", userID)
	if err != nil {
		return nil, err
	}

	return &auth.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		AvatarURL: row.AvatarURL,
		IsAdmin:   row.IsAdmin,
		IsBanned:  row.IsBanned,
	}, nil
}
