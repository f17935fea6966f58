package fund

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/shopspring/decimal"
)

// Fund is the singleton imprest fund record. The current balance is spent
// down by voucher creation and restored to the imprest amount by
// replenishment; nothing else may touch it.
type Fund struct {
	ID                    int64           `json:"id" gorm:"primaryKey"`
	ImprestAmount         decimal.Decimal `json:"imprest_amount" gorm:"column:imprest_amount;type:numeric(18,2);not null"`
	CurrentBalance        decimal.Decimal `json:"current_balance" gorm:"column:current_balance;type:numeric(18,2);not null"`
	LastReplenishmentDate *time.Time      `json:"last_replenishment_date,omitempty" gorm:"column:last_replenishment_date"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (Fund) TableName() string {
	return "funds"
}

// PercentageDepleted is a derived presentation value, never stored.
func (f *Fund) PercentageDepleted() decimal.Decimal {
	if f.ImprestAmount.IsZero() {
		return decimal.Zero
	}
	spent := f.ImprestAmount.Sub(f.CurrentBalance)
	return spent.Div(f.ImprestAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

var (
	ErrFundNotConfigured    = internal.NewNotFoundError("fund is not configured", internal.ErrCodeFundNotFound)
	ErrFundAlreadyExists    = internal.NewConflictError("fund is already configured", internal.ErrCodeFundExists)
	ErrInvalidImprestAmount = internal.NewValidationError("imprest amount must be positive", internal.ErrCodeInvalidAmount)
)
