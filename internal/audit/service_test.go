package audit_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danuandrean/pettycash/internal/audit"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuditService Suite")
}

type mockAuditRepository struct {
	lastCutoff time.Time
	deleted    int64
	logs       []*audit.AuditLog
}

func (m *mockAuditRepository) Create(log *audit.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditRepository) List(entityType string, entityID int64, limit, offset int) ([]*audit.AuditLog, error) {
	return m.logs, nil
}

func (m *mockAuditRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	m.lastCutoff = cutoff
	return m.deleted, nil
}

var _ = Describe("AuditService", func() {
	var (
		service  *audit.Service
		mockRepo *mockAuditRepository
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = &mockAuditRepository{deleted: 5}
		service = audit.NewService(mockRepo, 365*24*time.Hour, logger)
	})

	Describe("PurgeExpired", func() {
		It("deletes rows older than the retention window", func() {
			deleted, err := service.PurgeExpired()

			Expect(err).ToNot(HaveOccurred())
			Expect(deleted).To(Equal(int64(5)))
			Expect(mockRepo.lastCutoff).To(BeTemporally("~", time.Now().Add(-365*24*time.Hour), time.Minute))
		})
	})
})
