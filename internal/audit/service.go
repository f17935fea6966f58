package audit

import (
	"log/slog"
	"time"
)

type Repository interface {
	Create(log *AuditLog) error
	List(entityType string, entityID int64, limit, offset int) ([]*AuditLog, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type Service struct {
	repo      Repository
	retention time.Duration
	logger    *slog.Logger
}

func NewService(repo Repository, retention time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		retention: retention,
		logger:    logger,
	}
}

// ListLogs returns audit entries, optionally filtered by entity. entityID
// is only applied when entityType is set.
func (s *Service) ListLogs(entityType string, entityID int64, limit, offset int) ([]*AuditLog, error) {
	return s.repo.List(entityType, entityID, limit, offset)
}

// PurgeExpired deletes audit rows older than the retention window and
// returns how many were removed.
func (s *Service) PurgeExpired() (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		s.logger.Error("audit purge failed", "error", err, "cutoff", cutoff)
		return 0, err
	}

	s.logger.Info("audit purge completed", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
