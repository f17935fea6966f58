package auth

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Roles gating the petty cash operations. Preparers create vouchers,
// approvers act on them and run replenishments, admins manage the fund,
// chart of accounts, budgets, users and audit history.
const (
	RolePreparer = "preparer"
	RoleApprover = "approver"
	RoleAdmin    = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RolePreparer, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove reports whether the user may approve/reject vouchers and
// create replenishment requests.
func (u *User) CanApprove() bool {
	return u.HasRole(RoleApprover, RoleAdmin)
}

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*TokenResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID int64) (*User, error)
}

type RepositoryAPI interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	GetUser(userID int64) (*User, error)
}

var (
	ErrInvalidCredentials = internal.NewUnauthorizedError("invalid email or password", internal.ErrCodeInvalidCredentials)
	ErrUserInactive       = internal.NewForbiddenError("user account is inactive", internal.ErrCodeUserInactive)
	ErrInvalidToken       = internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken)
)

// TokenManager issues and validates HS256 access tokens.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), duration: duration}
}

func (tm *TokenManager) Generate(user *User) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.duration)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
