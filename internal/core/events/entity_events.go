package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the core services. The audit recorder subscribes
// to all of them.
const (
	TypeVoucherCreated       = "voucher.created"
	TypeVoucherStatusChanged = "voucher.status_changed"
	TypeReplenishmentCreated = "replenishment.created"
	TypeFundCreated          = "fund.created"
	TypeFundImprestUpdated   = "fund.imprest_updated"
	TypeAccountCreated       = "account.created"
	TypeAccountUpdated       = "account.updated"
	TypeAccountDeleted       = "account.deleted"
	TypeBudgetCreated        = "budget.created"
	TypeBudgetUpdated        = "budget.updated"
	TypeBudgetDeleted        = "budget.deleted"
	TypeUserCreated          = "user.created"
)

// EntityEvent describes a state change to a single entity. OldValue and
// NewValue are opaque snapshots; the audit recorder serializes them as-is.
type EntityEvent struct {
	ID          string
	Type        string
	Timestamp   time.Time
	EntityType  string
	EntityID    int64
	Action      string
	UserID      int64
	OldValue    interface{}
	NewValue    interface{}
	Description string
}

func NewEntityEvent(eventType, entityType string, entityID, userID int64, action string) EntityEvent {
	return EntityEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
	}
}

func (e EntityEvent) WithChange(oldValue, newValue interface{}) EntityEvent {
	e.OldValue = oldValue
	e.NewValue = newValue
	return e
}

func (e EntityEvent) WithDescription(description string) EntityEvent {
	e.Description = description
	return e
}

func (e EntityEvent) EventType() string {
	return e.Type
}

func (e EntityEvent) EventID() string {
	return e.ID
}

func (e EntityEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e EntityEvent) Payload() interface{} {
	return map[string]interface{}{
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID,
		"action":      e.Action,
		"user_id":     e.UserID,
	}
}

// AllEntityEventTypes lists every event type carrying an EntityEvent, for
// subscribers that want the full stream.
func AllEntityEventTypes() []string {
	return []string{
		TypeVoucherCreated,
		TypeVoucherStatusChanged,
		TypeReplenishmentCreated,
		TypeFundCreated,
		TypeFundImprestUpdated,
		TypeAccountCreated,
		TypeAccountUpdated,
		TypeAccountDeleted,
		TypeBudgetCreated,
		TypeBudgetUpdated,
		TypeBudgetDeleted,
		TypeUserCreated,
	}
}
