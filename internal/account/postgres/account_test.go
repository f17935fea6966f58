package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danuandrean/pettycash/internal/account"
	"github.com/danuandrean/pettycash/internal/budget"
	"github.com/danuandrean/pettycash/internal/voucher"
)

func TestAccountRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AccountRepository Suite")
}

var _ = Describe("AccountRepository", func() {
	var (
		db   *gorm.DB
		repo account.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&account.ChartOfAccount{},
			&voucher.Voucher{},
			&voucher.VoucherItem{},
			&budget.AccountBudget{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewAccountRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).NotTo(HaveOccurred())
	})

	Describe("ReferenceCount", func() {
		var created *account.ChartOfAccount

		BeforeEach(func() {
			created = &account.ChartOfAccount{Code: "5100", Name: "Office Supplies"}
			Expect(repo.Create(created)).NotTo(HaveOccurred())
		})

		It("is zero for an unreferenced account", func() {
			count, err := repo.ReferenceCount(created.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("counts voucher items and budgets", func() {
			v := &voucher.Voucher{
				VoucherNumber: "PCV-2508-0001",
				Date:          time.Now(),
				Payee:         "ACME",
				TotalAmount:   decimal.RequireFromString("100.00"),
				Status:        voucher.StatusPending,
				RequestedByID: 1,
				Items: []voucher.VoucherItem{
					{Description: "paper", Amount: decimal.RequireFromString("100.00"), ChartOfAccountID: &created.ID},
				},
			}
			Expect(db.Create(v).Error).NotTo(HaveOccurred())
			Expect(db.Create(&budget.AccountBudget{
				ChartOfAccountID: created.ID,
				BudgetAmount:     decimal.RequireFromString("1000.00"),
				Period:           "monthly",
				StartDate:        time.Now(),
				EndDate:          time.Now().AddDate(0, 1, 0),
				AlertThreshold:   decimal.RequireFromString("80"),
			}).Error).NotTo(HaveOccurred())

			count, err := repo.ReferenceCount(created.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("GetByCode", func() {
		It("finds an account by its code", func() {
			Expect(repo.Create(&account.ChartOfAccount{Code: "5200", Name: "Transport"})).NotTo(HaveOccurred())

			a, err := repo.GetByCode("5200")

			Expect(err).NotTo(HaveOccurred())
			Expect(a.Name).To(Equal("Transport"))
		})

		It("returns not found for an unknown code", func() {
			_, err := repo.GetByCode("9999")

			Expect(err).To(MatchError(account.ErrAccountNotFound))
		})
	})

	Describe("uniqueness", func() {
		It("refuses a duplicate code at the database level", func() {
			Expect(repo.Create(&account.ChartOfAccount{Code: "5300", Name: "Meals"})).NotTo(HaveOccurred())

			err := repo.Create(&account.ChartOfAccount{Code: "5300", Name: "Duplicate"})

			Expect(err).To(MatchError(gorm.ErrDuplicatedKey))
		})
	})
})
