package postgres

import (
	"time"

	"github.com/danuandrean/pettycash/internal/budget"
	"github.com/danuandrean/pettycash/internal/voucher"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(b *budget.AccountBudget) error {
	return r.db.Create(b).Error
}

func (r *BudgetRepository) GetByID(id int64) (*budget.AccountBudget, error) {
	var b budget.AccountBudget
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, budget.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) GetAll() ([]*budget.AccountBudget, error) {
	var budgets []*budget.AccountBudget
	err := r.db.Order("start_date ASC").Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) Update(b *budget.AccountBudget) error {
	return r.db.Save(b).Error
}

func (r *BudgetRepository) Delete(id int64) error {
	return r.db.Delete(&budget.AccountBudget{}, id).Error
}

// SpendingFor aggregates item amounts for the account within the window,
// skipping items whose parent voucher was rejected. Always recomputed,
// never cached.
func (r *BudgetRepository) SpendingFor(chartOfAccountID int64, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&voucher.VoucherItem{}).
		Select("SUM(voucher_items.amount)").
		Joins("JOIN vouchers ON vouchers.id = voucher_items.voucher_id").
		Where("voucher_items.chart_of_account_id = ?", chartOfAccountID).
		Where("vouchers.date BETWEEN ? AND ?", start, end).
		Where("vouchers.status <> ?", voucher.StatusRejected).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
