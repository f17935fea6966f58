package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danuandrean/pettycash/internal/core/events"
)

// Recorder subscribes to the entity event stream and persists each event as
// an audit log row. Recording is best-effort: it runs on the bus's async
// path, so a failed write surfaces only as a log line and never disturbs
// the transaction that produced the event.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Register subscribes the recorder to every entity event type on the bus.
func (rec *Recorder) Register(bus *events.EventBus) {
	for _, eventType := range events.AllEntityEventTypes() {
		bus.Subscribe(eventType, rec.Record)
	}
}

func (rec *Recorder) Record(ctx context.Context, event events.Event) error {
	entity, ok := event.(events.EntityEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	log := &AuditLog{
		EventID:     entity.ID,
		EventType:   entity.Type,
		EntityType:  entity.EntityType,
		EntityID:    entity.EntityID,
		Action:      entity.Action,
		UserID:      entity.UserID,
		Description: entity.Description,
		OccurredAt:  entity.Timestamp,
	}

	var err error
	if log.OldValue, err = snapshot(entity.OldValue); err != nil {
		rec.logger.Warn("audit: could not serialize old value", "event_id", entity.ID, "error", err)
	}
	if log.NewValue, err = snapshot(entity.NewValue); err != nil {
		rec.logger.Warn("audit: could not serialize new value", "event_id", entity.ID, "error", err)
	}

	if err := rec.repo.Create(log); err != nil {
		return fmt.Errorf("persist audit log for event %s: %w", entity.ID, err)
	}
	return nil
}

func snapshot(value interface{}) (*string, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}
