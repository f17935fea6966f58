package user

import (
	"context"
	"log/slog"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(limit, offset int) ([]*User, error)
	SetActive(id int64, active bool) error
}

type Service struct {
	repo       Repository
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) CreateUser(dto CreateUserDTO, actingUserID int64) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if !auth.ValidRole(dto.Role) {
		return nil, ErrInvalidRole
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		Role:         dto.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeUserCreated, "user", u.ID, actingUserID, "created").
			WithChange(nil, map[string]interface{}{"email": u.Email, "role": u.Role}))

	return u, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListUsers(limit, offset int) ([]*User, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) DeactivateUser(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return ErrUserNotFound
	}
	if !u.IsActive {
		return ErrAlreadyInactive
	}
	return s.repo.SetActive(id, false)
}
