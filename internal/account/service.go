package account

import (
	"context"
	"log/slog"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/core/events"
)

type Repository interface {
	Create(a *ChartOfAccount) error
	GetByID(id int64) (*ChartOfAccount, error)
	GetByCode(code string) (*ChartOfAccount, error)
	GetAll() ([]*ChartOfAccount, error)
	Update(a *ChartOfAccount) error
	Delete(id int64) error
	// ReferenceCount reports how many voucher items and budgets point at
	// the account; deletion is only legal when it is zero.
	ReferenceCount(id int64) (int64, error)
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) CreateAccount(dto CreateAccountDTO, actingUserID int64) (*ChartOfAccount, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByCode(dto.Code); err == nil && existing != nil {
		return nil, ErrCodeTaken
	}

	a := &ChartOfAccount{
		Code:        dto.Code,
		Name:        dto.Name,
		Description: dto.Description,
	}

	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to create account", "error", err, "code", dto.Code)
		return nil, err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeAccountCreated, "chart_of_account", a.ID, actingUserID, "created").
			WithChange(nil, map[string]interface{}{"code": a.Code, "name": a.Name}))

	return a, nil
}

func (s *Service) GetAccount(id int64) (*ChartOfAccount, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetAccounts() ([]*ChartOfAccount, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateAccount(id int64, dto UpdateAccountDTO, actingUserID int64) (*ChartOfAccount, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	old := map[string]interface{}{"name": a.Name, "description": a.Description}
	a.Name = dto.Name
	a.Description = dto.Description

	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to update account", "error", err, "account_id", id)
		return nil, err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeAccountUpdated, "chart_of_account", a.ID, actingUserID, "updated").
			WithChange(old, map[string]interface{}{"name": a.Name, "description": a.Description}))

	return a, nil
}

// DeleteAccount removes the account unless voucher items or budgets still
// reference it.
func (s *Service) DeleteAccount(id int64, actingUserID int64) error {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return ErrAccountNotFound
	}

	refs, err := s.repo.ReferenceCount(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		s.logger.Warn("account deletion refused: still referenced",
			"account_id", id,
			"references", refs)
		return ErrAccountInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete account", "error", err, "account_id", id)
		return err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeAccountDeleted, "chart_of_account", id, actingUserID, "deleted").
			WithChange(map[string]interface{}{"code": a.Code, "name": a.Name}, nil))

	return nil
}
