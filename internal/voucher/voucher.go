package voucher

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/shopspring/decimal"
)

// Voucher statuses. These strings are part of the API contract.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusReplenished = "replenished"
)

// Voucher is a disbursement request against the imprest fund. Creating one
// debits the fund balance in the same transaction that persists the header
// and its items.
type Voucher struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	VoucherNumber   string          `json:"voucher_number" gorm:"column:voucher_number;uniqueIndex;not null"`
	Date            time.Time       `json:"date" gorm:"column:date;type:date;not null"`
	Payee           string          `json:"payee" gorm:"not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"column:total_amount;type:numeric(18,2);not null"`
	Status          string          `json:"status" gorm:"default:pending"`
	RequestedByID   int64           `json:"requested_by_id" gorm:"column:requested_by_id;not null"`
	ApprovedByID    *int64          `json:"approved_by_id,omitempty" gorm:"column:approved_by_id"`
	ReplenishmentID *int64          `json:"replenishment_id,omitempty" gorm:"column:replenishment_id"`
	Items           []VoucherItem   `json:"items" gorm:"foreignKey:VoucherID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

type VoucherItem struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	VoucherID         int64           `json:"voucher_id" gorm:"column:voucher_id;not null"`
	Description       string          `json:"description" gorm:"not null"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:numeric(18,2);not null"`
	ChartOfAccountID  *int64          `json:"chart_of_account_id,omitempty" gorm:"column:chart_of_account_id"`
	VATAmount         decimal.Decimal `json:"vat_amount" gorm:"column:vat_amount;type:numeric(18,2);default:0"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount" gorm:"column:withholding_amount;type:numeric(18,2);default:0"`
}

func (VoucherItem) TableName() string {
	return "voucher_items"
}

// legalTransitions is the closed transition graph: pending may be approved
// or rejected, approved may be replenished, terminal states go nowhere.
var legalTransitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusReplenished},
}

func CanTransition(from, to string) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// GenerateNumber produces a voucher number <PREFIX>-<YY><MM>-<NNNN> with a
// random 4-digit suffix. Uniqueness is guaranteed only by the database
// constraint; callers retry with a fresh candidate on conflict.
func GenerateNumber(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("0601"), rand.IntN(10000))
}

var (
	ErrVoucherNotFound   = internal.NewNotFoundError("voucher not found", internal.ErrCodeVoucherNotFound)
	ErrInsufficientFunds = internal.NewUnprocessableError("insufficient fund balance", internal.ErrCodeInsufficientFunds)
	ErrInvalidTransition = internal.NewConflictError("voucher status does not permit this transition", internal.ErrCodeInvalidTransition)
	ErrNumberExhausted   = internal.NewConflictError("could not generate a unique voucher number", internal.ErrCodeNumberExhausted)
)
