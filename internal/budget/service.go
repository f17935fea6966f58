package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/core/events"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(b *AccountBudget) error
	GetByID(id int64) (*AccountBudget, error)
	GetAll() ([]*AccountBudget, error)
	Update(b *AccountBudget) error
	Delete(id int64) error
	// SpendingFor sums voucher item amounts for the account over the date
	// window, excluding items whose parent voucher was rejected.
	SpendingFor(chartOfAccountID int64, start, end time.Time) (decimal.Decimal, error)
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

func (s *Service) CreateBudget(dto CreateBudgetDTO, actingUserID int64) (*AccountBudget, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	b := &AccountBudget{
		ChartOfAccountID: dto.ChartOfAccountID,
		BudgetAmount:     dto.BudgetAmount,
		Period:           dto.Period,
		StartDate:        dto.StartDate,
		EndDate:          dto.EndDate,
		AlertThreshold:   dto.AlertThreshold,
	}

	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create budget", "error", err)
		return nil, err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeBudgetCreated, "account_budget", b.ID, actingUserID, "created").
			WithChange(nil, map[string]interface{}{
				"chart_of_account_id": b.ChartOfAccountID,
				"budget_amount":       b.BudgetAmount.String(),
				"period":              b.Period,
			}))

	return b, nil
}

func (s *Service) GetBudget(id int64) (*AccountBudget, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListBudgets() ([]*AccountBudget, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateBudget(id int64, dto UpdateBudgetDTO, actingUserID int64) (*AccountBudget, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrBudgetNotFound
	}

	old := map[string]interface{}{
		"budget_amount":   b.BudgetAmount.String(),
		"alert_threshold": b.AlertThreshold.String(),
	}
	b.BudgetAmount = dto.BudgetAmount
	b.AlertThreshold = dto.AlertThreshold

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update budget", "error", err, "budget_id", id)
		return nil, err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeBudgetUpdated, "account_budget", b.ID, actingUserID, "updated").
			WithChange(old, map[string]interface{}{
				"budget_amount":   b.BudgetAmount.String(),
				"alert_threshold": b.AlertThreshold.String(),
			}))

	return b, nil
}

func (s *Service) DeleteBudget(id int64, actingUserID int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrBudgetNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete budget", "error", err, "budget_id", id)
		return err
	}

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeBudgetDeleted, "account_budget", id, actingUserID, "deleted"))

	return nil
}

// GetBudgetStatuses recomputes spending for every configured budget. This
// is a pure read: calling it twice without intervening writes yields
// identical results.
func (s *Service) GetBudgetStatuses() ([]*BudgetStatus, error) {
	budgets, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	statuses := make([]*BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spending, err := s.repo.SpendingFor(b.ChartOfAccountID, b.StartDate, b.EndDate)
		if err != nil {
			s.logger.Error("failed to compute spending", "error", err, "budget_id", b.ID)
			return nil, err
		}

		percentage := decimal.Zero
		if !b.BudgetAmount.IsZero() {
			percentage = spending.Div(b.BudgetAmount).Mul(decimal.NewFromInt(100)).Round(2)
		}

		statuses = append(statuses, &BudgetStatus{
			AccountBudget:   *b,
			CurrentSpending: spending,
			PercentageUsed:  percentage,
			OverThreshold:   percentage.GreaterThanOrEqual(b.AlertThreshold),
		})
	}

	return statuses, nil
}
