package postgres

import (
	"time"

	"github.com/danuandrean/pettycash/internal/fund"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FundRepository struct {
	db *gorm.DB
}

func NewFundRepository(db *gorm.DB) fund.Repository {
	return &FundRepository{db: db}
}

// Get reads the singleton fund record ("the first row").
func (r *FundRepository) Get() (*fund.Fund, error) {
	var f fund.Fund
	err := r.db.Order("id ASC").First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fund.ErrFundNotConfigured
		}
		return nil, err
	}
	return &f, nil
}

func (r *FundRepository) Create(f *fund.Fund) error {
	return r.db.Create(f).Error
}

func (r *FundRepository) UpdateImprestAmount(id int64, amount decimal.Decimal) error {
	return r.db.Model(&fund.Fund{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"imprest_amount": amount,
			"updated_at":     time.Now(),
		}).Error
}
