package fund

import (
	"context"
	"log/slog"

	"github.com/danuandrean/pettycash/internal/core/events"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Get() (*Fund, error)
	Create(f *Fund) error
	UpdateImprestAmount(id int64, amount decimal.Decimal) error
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

func (s *Service) GetFund() (*Fund, error) {
	return s.repo.Get()
}

// CreateFund configures the imprest fund. Only one fund record may exist;
// the current balance starts at the imprest amount.
func (s *Service) CreateFund(dto CreateFundDTO, actingUserID int64) (*Fund, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.Get(); err == nil && existing != nil {
		return nil, ErrFundAlreadyExists
	}

	f := &Fund{
		ImprestAmount:  dto.ImprestAmount,
		CurrentBalance: dto.ImprestAmount,
	}

	if err := s.repo.Create(f); err != nil {
		s.logger.Error("failed to create fund", "error", err)
		return nil, err
	}

	s.logger.Info("fund configured",
		"fund_id", f.ID,
		"imprest_amount", f.ImprestAmount.String())

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeFundCreated, "fund", f.ID, actingUserID, "created").
			WithChange(nil, map[string]interface{}{"imprest_amount": f.ImprestAmount.String()}))

	return f, nil
}

// UpdateImprestAmount changes the replenishment target only. The current
// balance is left untouched until the next replenishment.
func (s *Service) UpdateImprestAmount(dto UpdateImprestDTO, actingUserID int64) (*Fund, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	f, err := s.repo.Get()
	if err != nil {
		return nil, err
	}

	oldAmount := f.ImprestAmount
	if err := s.repo.UpdateImprestAmount(f.ID, dto.ImprestAmount); err != nil {
		s.logger.Error("failed to update imprest amount", "error", err, "fund_id", f.ID)
		return nil, err
	}
	f.ImprestAmount = dto.ImprestAmount

	s.logger.Info("imprest amount updated",
		"fund_id", f.ID,
		"old_amount", oldAmount.String(),
		"new_amount", dto.ImprestAmount.String())

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeFundImprestUpdated, "fund", f.ID, actingUserID, "updated").
			WithChange(
				map[string]interface{}{"imprest_amount": oldAmount.String()},
				map[string]interface{}{"imprest_amount": dto.ImprestAmount.String()}))

	return f, nil
}
