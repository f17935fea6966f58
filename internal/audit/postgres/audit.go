package postgres

import (
	"time"

	"github.com/danuandrean/pettycash/internal/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(log *audit.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *AuditRepository) List(entityType string, entityID int64, limit, offset int) ([]*audit.AuditLog, error) {
	var logs []*audit.AuditLog
	q := r.db.Order("occurred_at DESC").Limit(limit).Offset(offset)
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
		if entityID > 0 {
			q = q.Where("entity_id = ?", entityID)
		}
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("occurred_at < ?", cutoff).Delete(&audit.AuditLog{})
	return res.RowsAffected, res.Error
}
