package replenishment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danuandrean/pettycash/internal/core/events"
)

// Repository persists replenishment requests. CreateAndSettle must perform
// the whole close-out as one transaction: recompute the totals from the
// referenced vouchers, persist the request, flip every voucher to
// replenished, and reset the fund balance to the imprest amount.
type Repository interface {
	CreateAndSettle(rep *Replenishment, voucherIDs []int64) error
	GetByID(id int64) (*Replenishment, error)
	List(limit, offset int) ([]*Replenishment, error)
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateReplenishment settles the given voucher batch. Every referenced
// voucher must exist and be approved; caller-supplied totals are not
// accepted anywhere on this path.
func (s *Service) CreateReplenishment(dto CreateReplenishmentDTO, requestedByID int64) (*Replenishment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rep := &Replenishment{
		RequestDate:   time.Now(),
		Status:        StatusCompleted,
		RequestedByID: requestedByID,
	}

	ids := dto.UniqueVoucherIDs()
	if err := s.repo.CreateAndSettle(rep, ids); err != nil {
		switch err {
		case ErrVoucherNotApproved:
			s.logger.Warn("replenishment refused: batch contains non-approved vouchers",
				"voucher_ids", ids, "user_id", requestedByID)
		default:
			s.logger.Error("failed to create replenishment", "error", err, "user_id", requestedByID)
		}
		return nil, err
	}

	s.logger.Info("replenishment created",
		"replenishment_id", rep.ID,
		"voucher_count", len(ids),
		"total_amount", rep.TotalAmount.String(),
		"user_id", requestedByID)

	s.bus.Publish(context.Background(),
		events.NewEntityEvent(events.TypeReplenishmentCreated, "replenishment", rep.ID, requestedByID, "created").
			WithChange(nil, map[string]interface{}{
				"voucher_count": len(ids),
				"total_amount":  rep.TotalAmount.String(),
			}).
			WithDescription(fmt.Sprintf("replenished %d vouchers totalling %s", len(ids), rep.TotalAmount.String())))

	return rep, nil
}

func (s *Service) GetReplenishment(id int64) (*Replenishment, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListReplenishments(limit, offset int) ([]*Replenishment, error) {
	return s.repo.List(limit, offset)
}
