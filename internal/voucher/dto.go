package voucher

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CreateVoucherDTO struct {
	Date  time.Time              `json:"date"`
	Payee string                 `json:"payee"`
	Items []CreateVoucherItemDTO `json:"items"`
}

type CreateVoucherItemDTO struct {
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	ChartOfAccountID  *int64          `json:"chart_of_account_id,omitempty"`
	VATAmount         decimal.Decimal `json:"vat_amount"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}

func (dto CreateVoucherDTO) Validate() error {
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	if strings.TrimSpace(dto.Payee) == "" {
		return errors.New("payee is required")
	}
	if len(dto.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range dto.Items {
		if strings.TrimSpace(item.Description) == "" {
			return errors.New("item description is required")
		}
		if !item.Amount.IsPositive() {
			return errors.New("item amount must be positive")
		}
		if item.VATAmount.IsNegative() {
			return errors.New("vat amount cannot be negative")
		}
		if item.WithholdingAmount.IsNegative() {
			return errors.New("withholding amount cannot be negative")
		}
	}
	return nil
}

// Total sums the item amounts. The voucher header total is always derived,
// never taken from the caller.
func (dto CreateVoucherDTO) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range dto.Items {
		total = total.Add(item.Amount)
	}
	return total
}
