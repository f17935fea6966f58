package account

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
)

// ChartOfAccount is an expense category code referenced by voucher items
// and account budgets.
type ChartOfAccount struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

var (
	ErrAccountNotFound = internal.NewNotFoundError("chart of account not found", internal.ErrCodeAccountNotFound)
	ErrCodeTaken       = internal.NewConflictError("account code is already in use", internal.ErrCodeDuplicateCode)
	// ErrAccountInUse refuses deletion while voucher items or budgets
	// still reference the account.
	ErrAccountInUse = internal.NewIntegrityError("chart of account is referenced by voucher items or budgets", internal.ErrCodeAccountInUse)
)
