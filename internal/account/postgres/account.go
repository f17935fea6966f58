package postgres

import (
	"github.com/danuandrean/pettycash/internal/account"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) account.Repository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(a *account.ChartOfAccount) error {
	return r.db.Create(a).Error
}

func (r *AccountRepository) GetByID(id int64) (*account.ChartOfAccount, error) {
	var a account.ChartOfAccount
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByCode(code string) (*account.ChartOfAccount, error) {
	var a account.ChartOfAccount
	err := r.db.Where("code = ?", code).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetAll() ([]*account.ChartOfAccount, error) {
	var accounts []*account.ChartOfAccount
	err := r.db.Order("code ASC").Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) Update(a *account.ChartOfAccount) error {
	return r.db.Save(a).Error
}

func (r *AccountRepository) Delete(id int64) error {
	return r.db.Delete(&account.ChartOfAccount{}, id).Error
}

// ReferenceCount counts voucher items and account budgets referencing the
// account. Raw counts keep this free of cross-package model imports.
func (r *AccountRepository) ReferenceCount(id int64) (int64, error) {
	var itemCount int64
	if err := r.db.Table("voucher_items").
		Where("chart_of_account_id = ?", id).
		Count(&itemCount).Error; err != nil {
		return 0, err
	}

	var budgetCount int64
	if err := r.db.Table("account_budgets").
		Where("chart_of_account_id = ?", id).
		Count(&budgetCount).Error; err != nil {
		return 0, err
	}

	return itemCount + budgetCount, nil
}
