package replenishment

import (
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/shopspring/decimal"
)

// Replenishment closes out a batch of approved vouchers and restores the
// fund balance to the imprest amount. Totals are recomputed server-side
// from the referenced vouchers when the request is persisted; they are
// never taken from the caller.
type Replenishment struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	RequestDate    time.Time       `json:"request_date" gorm:"column:request_date;not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"column:total_amount;type:numeric(18,2);not null"`
	TotalVAT       decimal.Decimal `json:"total_vat" gorm:"column:total_vat;type:numeric(18,2);default:0"`
	TotalWithheld  decimal.Decimal `json:"total_withheld" gorm:"column:total_withheld;type:numeric(18,2);default:0"`
	TotalNetAmount decimal.Decimal `json:"total_net_amount" gorm:"column:total_net_amount;type:numeric(18,2);not null"`
	Status         string          `json:"status" gorm:"default:completed"`
	RequestedByID  int64           `json:"requested_by_id" gorm:"column:requested_by_id;not null"`
	VoucherIDs     []int64         `json:"voucher_ids" gorm:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Replenishment) TableName() string {
	return "replenishment_requests"
}

// The settle runs atomically, so a persisted request is always completed.
const StatusCompleted = "completed"

var (
	ErrReplenishmentNotFound = internal.NewNotFoundError("replenishment request not found", internal.ErrCodeReplenishmentNotFound)
	ErrNoVouchers            = internal.NewValidationError("at least one voucher id is required", internal.ErrCodeEmptyBatch)
	ErrVoucherNotApproved    = internal.NewUnprocessableError("all vouchers in a replenishment batch must be approved", internal.ErrCodeVoucherNotApproved)
)
