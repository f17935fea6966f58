package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateBudgetDTO struct {
	ChartOfAccountID int64           `json:"chart_of_account_id"`
	BudgetAmount     decimal.Decimal `json:"budget_amount"`
	Period           string          `json:"period"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	AlertThreshold   decimal.Decimal `json:"alert_threshold"`
}

func (dto CreateBudgetDTO) Validate() error {
	if dto.ChartOfAccountID <= 0 {
		return errors.New("chart_of_account_id is required")
	}
	if !dto.BudgetAmount.IsPositive() {
		return errors.New("budget amount must be positive")
	}
	if dto.Period == "" {
		return errors.New("period is required")
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return errors.New("start and end dates are required")
	}
	if dto.EndDate.Before(dto.StartDate) {
		return errors.New("end date must not be before start date")
	}
	if dto.AlertThreshold.IsNegative() || dto.AlertThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("alert threshold must be between 0 and 100")
	}
	return nil
}

type UpdateBudgetDTO struct {
	BudgetAmount   decimal.Decimal `json:"budget_amount"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

func (dto UpdateBudgetDTO) Validate() error {
	if !dto.BudgetAmount.IsPositive() {
		return errors.New("budget amount must be positive")
	}
	if dto.AlertThreshold.IsNegative() || dto.AlertThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("alert threshold must be between 0 and 100")
	}
	return nil
}
