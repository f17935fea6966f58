package voucher_test

import (
	"errors"
	"log/slog"
	"os"
	"regexp"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/danuandrean/pettycash/internal/core/events"
	"github.com/danuandrean/pettycash/internal/voucher"
)

func TestVoucherService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VoucherService Suite")
}

// Mock repository for testing
type mockVoucherRepository struct {
	vouchers     map[int64]*voucher.Voucher
	balance      decimal.Decimal
	createErrors []error
	createCalls  int
	getErr       error
	nextID       int64
}

func newMockVoucherRepository(balance decimal.Decimal) *mockVoucherRepository {
	return &mockVoucherRepository{
		vouchers: make(map[int64]*voucher.Voucher),
		balance:  balance,
		nextID:   1,
	}
}

func (m *mockVoucherRepository) CreateWithDebit(v *voucher.Voucher) error {
	m.createCalls++
	if len(m.createErrors) > 0 {
		err := m.createErrors[0]
		m.createErrors = m.createErrors[1:]
		if err != nil {
			return err
		}
	}
	if m.balance.LessThan(v.TotalAmount) {
		return voucher.ErrInsufficientFunds
	}
	m.balance = m.balance.Sub(v.TotalAmount)
	v.ID = m.nextID
	m.nextID++
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	m.vouchers[v.ID] = v
	return nil
}

func (m *mockVoucherRepository) GetByID(id int64) (*voucher.Voucher, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, exists := m.vouchers[id]
	if !exists {
		return nil, voucher.ErrVoucherNotFound
	}
	return v, nil
}

func (m *mockVoucherRepository) List(status string, limit, offset int) ([]*voucher.Voucher, error) {
	result := make([]*voucher.Voucher, 0)
	for _, v := range m.vouchers {
		if status == "" || v.Status == status {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVoucherRepository) UpdateStatusFrom(id int64, from, to string, approvedBy *int64) error {
	v, exists := m.vouchers[id]
	if !exists || v.Status != from {
		return voucher.ErrInvalidTransition
	}
	v.Status = to
	v.ApprovedByID = approvedBy
	return nil
}

var _ = Describe("VoucherService", func() {
	var (
		service  *voucher.Service
		mockRepo *mockVoucherRepository
		logger   *slog.Logger
		bus      *events.EventBus
	)

	newDTO := func(amounts ...string) voucher.CreateVoucherDTO {
		items := make([]voucher.CreateVoucherItemDTO, len(amounts))
		for i, a := range amounts {
			items[i] = voucher.CreateVoucherItemDTO{
				Description: "item",
				Amount:      decimal.RequireFromString(a),
			}
		}
		return voucher.CreateVoucherDTO{
			Date:  time.Now(),
			Payee: "ACME Stationery",
			Items: items,
		}
	}

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		mockRepo = newMockVoucherRepository(decimal.RequireFromString("10000.00"))
		service = voucher.NewService(mockRepo, bus, "PCV", logger)
	})

	Describe("CreateVoucher", func() {
		Context("when the fund covers the total", func() {
			It("should create the voucher pending with a derived total", func() {
				result, err := service.CreateVoucher(newDTO("1800.00", "1200.00"), 1)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Status).To(Equal(voucher.StatusPending))
				Expect(result.TotalAmount.Equal(decimal.RequireFromString("3000.00"))).To(BeTrue())
				Expect(result.ID).To(BeNumerically(">", 0))
			})

			It("should debit the fund by exactly the voucher total", func() {
				_, err := service.CreateVoucher(newDTO("3000.00"), 1)

				Expect(err).ToNot(HaveOccurred())
				Expect(mockRepo.balance.Equal(decimal.RequireFromString("7000.00"))).To(BeTrue())
			})

			It("should assign a voucher number in the expected format", func() {
				result, err := service.CreateVoucher(newDTO("100.00"), 1)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.VoucherNumber).To(MatchRegexp(`^PCV-\d{4}-\d{4}$`))
				yymm := time.Now().Format("0601")
				Expect(result.VoucherNumber).To(MatchRegexp(regexp.QuoteMeta("PCV-" + yymm + "-")))
			})
		})

		Context("when the fund balance is too low", func() {
			It("should refuse with ErrInsufficientFunds", func() {
				mockRepo.balance = decimal.RequireFromString("500.00")

				result, err := service.CreateVoucher(newDTO("600.00"), 1)

				Expect(err).To(MatchError(voucher.ErrInsufficientFunds))
				Expect(result).To(BeNil())
				Expect(mockRepo.balance.Equal(decimal.RequireFromString("500.00"))).To(BeTrue())
			})
		})

		Context("when the voucher number collides", func() {
			It("should retry with a fresh number and succeed", func() {
				mockRepo.createErrors = []error{gorm.ErrDuplicatedKey}

				result, err := service.CreateVoucher(newDTO("100.00"), 1)

				Expect(err).ToNot(HaveOccurred())
				Expect(result).ToNot(BeNil())
				Expect(mockRepo.createCalls).To(Equal(2))
			})

			It("should give up after the retry budget is spent", func() {
				mockRepo.createErrors = []error{
					gorm.ErrDuplicatedKey,
					gorm.ErrDuplicatedKey,
					gorm.ErrDuplicatedKey,
				}

				result, err := service.CreateVoucher(newDTO("100.00"), 1)

				Expect(err).To(MatchError(voucher.ErrNumberExhausted))
				Expect(result).To(BeNil())
				Expect(mockRepo.createCalls).To(Equal(3))
			})
		})

		Context("when validation fails", func() {
			It("should refuse a voucher without items", func() {
				dto := voucher.CreateVoucherDTO{
					Date:  time.Now(),
					Payee: "ACME",
				}

				_, err := service.CreateVoucher(dto, 1)

				Expect(err).To(HaveOccurred())
				Expect(mockRepo.createCalls).To(BeZero())
			})

			It("should refuse a non-positive item amount", func() {
				dto := newDTO("100.00")
				dto.Items[0].Amount = decimal.Zero

				_, err := service.CreateVoucher(dto, 1)

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("status transitions", func() {
		var created *voucher.Voucher

		BeforeEach(func() {
			var err error
			created, err = service.CreateVoucher(newDTO("250.00"), 1)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should approve a pending voucher and record the approver", func() {
			result, err := service.ApproveVoucher(created.ID, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(voucher.StatusApproved))
			Expect(result.ApprovedByID).ToNot(BeNil())
			Expect(*result.ApprovedByID).To(Equal(int64(2)))
		})

		It("should reject a pending voucher", func() {
			result, err := service.RejectVoucher(created.ID, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(voucher.StatusRejected))
		})

		It("should refuse approving an already approved voucher", func() {
			_, err := service.ApproveVoucher(created.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ApproveVoucher(created.ID, 2)
			Expect(err).To(MatchError(voucher.ErrInvalidTransition))
		})

		It("should refuse rejecting an approved voucher", func() {
			_, err := service.ApproveVoucher(created.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RejectVoucher(created.ID, 2)
			Expect(err).To(MatchError(voucher.ErrInvalidTransition))
		})

		It("should return not found for an unknown voucher", func() {
			_, err := service.ApproveVoucher(9999, 2)

			Expect(err).To(MatchError(voucher.ErrVoucherNotFound))
		})

		It("should surface a repository failure instead of reporting not found", func() {
			loadErr := errors.New("connection reset")
			mockRepo.getErr = loadErr

			_, err := service.ApproveVoucher(created.ID, 2)

			Expect(err).To(MatchError(loadErr))
			Expect(err).ToNot(MatchError(voucher.ErrVoucherNotFound))
		})
	})

	Describe("CanTransition", func() {
		It("permits only the legal edges", func() {
			Expect(voucher.CanTransition(voucher.StatusPending, voucher.StatusApproved)).To(BeTrue())
			Expect(voucher.CanTransition(voucher.StatusPending, voucher.StatusRejected)).To(BeTrue())
			Expect(voucher.CanTransition(voucher.StatusApproved, voucher.StatusReplenished)).To(BeTrue())

			Expect(voucher.CanTransition(voucher.StatusRejected, voucher.StatusApproved)).To(BeFalse())
			Expect(voucher.CanTransition(voucher.StatusReplenished, voucher.StatusPending)).To(BeFalse())
			Expect(voucher.CanTransition(voucher.StatusPending, voucher.StatusReplenished)).To(BeFalse())
		})
	})
})
