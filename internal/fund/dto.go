package fund

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateFundDTO struct {
	ImprestAmount decimal.Decimal `json:"imprest_amount"`
}

func (dto CreateFundDTO) Validate() error {
	if !dto.ImprestAmount.IsPositive() {
		return ErrInvalidImprestAmount
	}
	return nil
}

type UpdateImprestDTO struct {
	ImprestAmount decimal.Decimal `json:"imprest_amount"`
}

func (dto UpdateImprestDTO) Validate() error {
	if !dto.ImprestAmount.IsPositive() {
		return ErrInvalidImprestAmount
	}
	return nil
}

// FundView is the API shape of the fund, with the derived depletion figure.
type FundView struct {
	ID                    int64           `json:"id"`
	ImprestAmount         decimal.Decimal `json:"imprest_amount"`
	CurrentBalance        decimal.Decimal `json:"current_balance"`
	PercentageDepleted    decimal.Decimal `json:"percentage_depleted"`
	LastReplenishmentDate *time.Time      `json:"last_replenishment_date,omitempty"`
}

func NewFundView(f *Fund) *FundView {
	return &FundView{
		ID:                    f.ID,
		ImprestAmount:         f.ImprestAmount,
		CurrentBalance:        f.CurrentBalance,
		PercentageDepleted:    f.PercentageDepleted(),
		LastReplenishmentDate: f.LastReplenishmentDate,
	}
}
