package voucher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/core/events"
	"gorm.io/gorm"
)

// Repository persists vouchers. CreateWithDebit must persist the header,
// its items, and the fund balance decrement as one transaction: either all
// of it applies or none of it does.
type Repository interface {
	CreateWithDebit(v *Voucher) error
	GetByID(id int64) (*Voucher, error)
	List(status string, limit, offset int) ([]*Voucher, error)
	UpdateStatusFrom(id int64, from, to string, approvedBy *int64) error
}

// numberAttempts bounds the retry loop on voucher-number collisions.
const numberAttempts = 3

type Service struct {
	repo         Repository
	bus          *events.EventBus
	numberPrefix string
	logger       *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, numberPrefix string, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		bus:          bus,
		numberPrefix: numberPrefix,
		logger:       logger,
	}
}

// CreateVoucher validates the request, generates a voucher number and
// persists the voucher together with the fund debit. The random number
// suffix is regenerated and the insert retried a bounded number of times
// when the uniqueness constraint rejects a candidate.
func (s *Service) CreateVoucher(dto CreateVoucherDTO, requestedByID int64) (*Voucher, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("voucher validation failed", "error", err, "user_id", requestedByID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	items := make([]VoucherItem, len(dto.Items))
	for i, item := range dto.Items {
		items[i] = VoucherItem{
			Description:       item.Description,
			Amount:            item.Amount,
			ChartOfAccountID:  item.ChartOfAccountID,
			VATAmount:         item.VATAmount,
			WithholdingAmount: item.WithholdingAmount,
		}
	}

	v := &Voucher{
		Date:          dto.Date,
		Payee:         dto.Payee,
		TotalAmount:   dto.Total(),
		Status:        StatusPending,
		RequestedByID: requestedByID,
		Items:         items,
	}

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		v.VoucherNumber = GenerateNumber(s.numberPrefix, time.Now())
		err = s.repo.CreateWithDebit(v)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.logger.Warn("voucher number collision, retrying",
			"voucher_number", v.VoucherNumber,
			"attempt", attempt+1)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNumberExhausted
		}
		if !errors.Is(err, ErrInsufficientFunds) {
			s.logger.Error("failed to create voucher", "error", err, "user_id", requestedByID)
		}
		return nil, err
	}

	s.logger.Info("voucher created",
		"voucher_id", v.ID,
		"voucher_number", v.VoucherNumber,
		"total_amount", v.TotalAmount.String(),
		"user_id", requestedByID)

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeVoucherCreated, "voucher", v.ID, requestedByID, "created").
			WithChange(nil, map[string]interface{}{
				"voucher_number": v.VoucherNumber,
				"payee":          v.Payee,
				"total_amount":   v.TotalAmount.String(),
				"status":         v.Status,
			}))

	return v, nil
}

func (s *Service) GetVoucher(id int64) (*Voucher, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListVouchers(status string, limit, offset int) ([]*Voucher, error) {
	return s.repo.List(status, limit, offset)
}

// ApproveVoucher transitions a pending voucher to approved.
func (s *Service) ApproveVoucher(voucherID, approverID int64) (*Voucher, error) {
	return s.transition(voucherID, StatusApproved, approverID)
}

// RejectVoucher transitions a pending voucher to rejected. Rejection is
// terminal; the voucher never reaches a replenishment batch.
func (s *Service) RejectVoucher(voucherID, approverID int64) (*Voucher, error) {
	return s.transition(voucherID, StatusRejected, approverID)
}

func (s *Service) transition(voucherID int64, target string, approverID int64) (*Voucher, error) {
	v, err := s.repo.GetByID(voucherID)
	if err != nil {
		if !errors.Is(err, ErrVoucherNotFound) {
			s.logger.Error("failed to load voucher", "error", err, "voucher_id", voucherID)
		}
		return nil, err
	}

	if !CanTransition(v.Status, target) {
		s.logger.Warn("illegal voucher transition refused",
			"voucher_id", voucherID,
			"from", v.Status,
			"to", target)
		return nil, ErrInvalidTransition
	}

	oldStatus := v.Status
	// The repository re-checks the source status inside the UPDATE so a
	// concurrent transition cannot slip through between read and write.
	if err := s.repo.UpdateStatusFrom(voucherID, oldStatus, target, &approverID); err != nil {
		if !errors.Is(err, ErrInvalidTransition) {
			s.logger.Error("failed to update voucher status", "error", err, "voucher_id", voucherID)
		}
		return nil, err
	}

	v.Status = target
	v.ApprovedByID = &approverID

	s.logger.Info("voucher status changed",
		"voucher_id", voucherID,
		"from", oldStatus,
		"to", target,
		"approver_id", approverID)

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeVoucherStatusChanged, "voucher", voucherID, approverID, target).
			WithChange(
				map[string]interface{}{"status": oldStatus},
				map[string]interface{}{"status": target}))

	return v, nil
}
