package postgres

import (
	"time"

	"github.com/danuandrean/pettycash/internal/fund"
	"github.com/danuandrean/pettycash/internal/replenishment"
	"github.com/danuandrean/pettycash/internal/voucher"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReplenishmentRepository struct {
	db *gorm.DB
}

func NewReplenishmentRepository(db *gorm.DB) replenishment.Repository {
	return &ReplenishmentRepository{db: db}
}

// CreateAndSettle runs the whole close-out in one transaction:
//
//  1. load the referenced vouchers with their items and verify every one of
//     them exists and is approved
//  2. recompute the request totals from the loaded rows; whatever the caller
//     put in the struct is overwritten
//  3. persist the request and stamp every voucher replenished, guarded by
//     the approved status in the WHERE clause
//  4. restore the fund balance to the imprest amount
//
// Any failure rolls the whole thing back, so vouchers never end up
// replenished without a request row or a restored fund.
func (r *ReplenishmentRepository) CreateAndSettle(rep *replenishment.Replenishment, voucherIDs []int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var vouchers []*voucher.Voucher
		if err := tx.Preload("Items").Where("id IN ?", voucherIDs).Find(&vouchers).Error; err != nil {
			return err
		}
		if len(vouchers) != len(voucherIDs) {
			return voucher.ErrVoucherNotFound
		}

		totalAmount := decimal.Zero
		totalVAT := decimal.Zero
		totalWithheld := decimal.Zero
		for _, v := range vouchers {
			if v.Status != voucher.StatusApproved {
				return replenishment.ErrVoucherNotApproved
			}
			totalAmount = totalAmount.Add(v.TotalAmount)
			for _, item := range v.Items {
				totalVAT = totalVAT.Add(item.VATAmount)
				totalWithheld = totalWithheld.Add(item.WithholdingAmount)
			}
		}

		rep.TotalAmount = totalAmount
		rep.TotalVAT = totalVAT
		rep.TotalWithheld = totalWithheld
		rep.TotalNetAmount = totalAmount.Add(totalVAT).Sub(totalWithheld)

		if err := tx.Create(rep).Error; err != nil {
			return err
		}

		res := tx.Model(&voucher.Voucher{}).
			Where("id IN ? AND status = ?", voucherIDs, voucher.StatusApproved).
			Updates(map[string]interface{}{
				"status":           voucher.StatusReplenished,
				"replenishment_id": rep.ID,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(voucherIDs)) {
			// a voucher was concurrently moved out of approved
			return replenishment.ErrVoucherNotApproved
		}

		var f fund.Fund
		err := tx.Order("id ASC").First(&f).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// fund configuration is optional
			return nil
		case err != nil:
			return err
		}

		now := rep.RequestDate
		return tx.Model(&fund.Fund{}).
			Where("id = ?", f.ID).
			Updates(map[string]interface{}{
				"current_balance":         gorm.Expr("imprest_amount"),
				"last_replenishment_date": now,
				"updated_at":              time.Now(),
			}).Error
	})
	if err != nil {
		return err
	}

	rep.VoucherIDs = voucherIDs
	return nil
}

func (r *ReplenishmentRepository) GetByID(id int64) (*replenishment.Replenishment, error) {
	var rep replenishment.Replenishment
	if err := r.db.Where("id = ?", id).First(&rep).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, replenishment.ErrReplenishmentNotFound
		}
		return nil, err
	}

	err := r.db.Model(&voucher.Voucher{}).
		Where("replenishment_id = ?", rep.ID).
		Order("id ASC").
		Pluck("id", &rep.VoucherIDs).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReplenishmentRepository) List(limit, offset int) ([]*replenishment.Replenishment, error) {
	var reps []*replenishment.Replenishment
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reps).Error
	return reps, err
}
