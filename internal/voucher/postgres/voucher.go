package postgres

import (
	"time"

	"github.com/danuandrean/pettycash/internal/fund"
	"github.com/danuandrean/pettycash/internal/voucher"
	"gorm.io/gorm"
)

type VoucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) voucher.Repository {
	return &VoucherRepository{db: db}
}

// CreateWithDebit persists the voucher header and items and debits the fund
// balance in a single transaction. The debit is a conditional UPDATE so two
// concurrent creations cannot both spend the same balance: the row is only
// touched when current_balance still covers the total, otherwise zero rows
// match and the whole transaction rolls back with ErrInsufficientFunds.
// When no fund row is configured the balance check is skipped entirely.
func (r *VoucherRepository) CreateWithDebit(v *voucher.Voucher) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var f fund.Fund
		err := tx.Order("id ASC").First(&f).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// fund configuration is optional
		case err != nil:
			return err
		default:
			res := tx.Model(&fund.Fund{}).
				Where("id = ? AND current_balance >= ?", f.ID, v.TotalAmount).
				Updates(map[string]interface{}{
					"current_balance": gorm.Expr("current_balance - ?", v.TotalAmount),
					"updated_at":      time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return voucher.ErrInsufficientFunds
			}
		}

		return tx.Create(v).Error
	})
}

func (r *VoucherRepository) GetByID(id int64) (*voucher.Voucher, error) {
	var v voucher.Voucher
	err := r.db.Preload("Items").Where("id = ?", id).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, voucher.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) List(status string, limit, offset int) ([]*voucher.Voucher, error) {
	var vouchers []*voucher.Voucher
	q := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&vouchers).Error
	return vouchers, err
}

// UpdateStatusFrom transitions the voucher status, guarded by the expected
// source status in the WHERE clause. Zero affected rows means the voucher
// was concurrently moved out of the source status.
func (r *VoucherRepository) UpdateStatusFrom(id int64, from, to string, approvedBy *int64) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if approvedBy != nil {
		updates["approved_by_id"] = *approvedBy
	}

	res := r.db.Model(&voucher.Voucher{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return voucher.ErrInvalidTransition
	}
	return nil
}
