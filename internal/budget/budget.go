package budget

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/shopspring/decimal"
)

// AccountBudget is a configured spending limit for one chart of account
// over a period. Spending is monitored, never enforced at voucher creation.
type AccountBudget struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	ChartOfAccountID int64           `json:"chart_of_account_id" gorm:"column:chart_of_account_id;not null"`
	BudgetAmount     decimal.Decimal `json:"budget_amount" gorm:"column:budget_amount;type:numeric(18,2);not null"`
	Period           string          `json:"period" gorm:"not null"`
	StartDate        time.Time       `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate          time.Time       `json:"end_date" gorm:"column:end_date;type:date;not null"`
	AlertThreshold   decimal.Decimal `json:"alert_threshold" gorm:"column:alert_threshold;type:numeric(5,2);default:80"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (AccountBudget) TableName() string {
	return "account_budgets"
}

// BudgetStatus is the read-side view: the configured budget with spending
// recomputed from voucher items on every call. Nothing here is stored.
type BudgetStatus struct {
	AccountBudget
	CurrentSpending decimal.Decimal `json:"current_spending"`
	PercentageUsed  decimal.Decimal `json:"percentage_used"`
	OverThreshold   bool            `json:"over_threshold"`
}

var ErrBudgetNotFound = internal.NewNotFoundError("budget not found", internal.ErrCodeBudgetNotFound)
