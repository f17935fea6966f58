package user

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
)

// User is an operator of the petty cash system. Role decides which
// operations the transport layer lets through.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

var (
	ErrUserNotFound    = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken      = internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
	ErrInvalidRole     = internal.NewValidationError("role must be one of preparer, approver, admin", internal.ErrCodeInvalidRole)
	ErrAlreadyInactive = internal.NewConflictError("user is already inactive", internal.ErrCodeUserInactive)
)
