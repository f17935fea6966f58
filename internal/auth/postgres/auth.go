package postgres

import (
	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/user"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	var u user.User
	err := r.db.Select("id", "password_hash").Where("email = ?", email).First(&u).Error
	if err != nil {
		return "", 0, err
	}
	return u.PasswordHash, u.ID, nil
}

func (r *AuthRepository) GetUser(userID int64) (*auth.User, error) {
	var u user.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &auth.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		IsActive: u.IsActive,
	}, nil
}
