package audit

import "time"

// AuditLog is an append-only record of a state change. Old and new values
// are stored as serialized JSON snapshots of whatever the publishing
// service attached to the event.
type AuditLog struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	EventID     string    `json:"event_id" gorm:"column:event_id;not null"`
	EventType   string    `json:"event_type" gorm:"column:event_type;index;not null"`
	EntityType  string    `json:"entity_type" gorm:"column:entity_type;index;not null"`
	EntityID    int64     `json:"entity_id" gorm:"column:entity_id;index;not null"`
	Action      string    `json:"action" gorm:"not null"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null"`
	OldValue    *string   `json:"old_value,omitempty" gorm:"column:old_value;type:text"`
	NewValue    *string   `json:"new_value,omitempty" gorm:"column:new_value;type:text"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at" gorm:"column:occurred_at;index;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
