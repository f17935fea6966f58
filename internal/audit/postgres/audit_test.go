package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danuandrean/pettycash/internal/audit"
	"github.com/danuandrean/pettycash/internal/core/events"
)

func TestAuditRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuditRepository Suite")
}

var _ = Describe("AuditRepository", func() {
	var (
		db     *gorm.DB
		repo   audit.Repository
		logger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&audit.AuditLog{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewAuditRepository(db)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).NotTo(HaveOccurred())
	})

	Describe("recording entity events", func() {
		It("persists every event type the bus carries", func() {
			bus := events.NewEventBus(logger)
			audit.NewRecorder(repo, logger).Register(bus)

			event := events.NewEntityEvent(events.TypeVoucherCreated, "voucher", 7, 1, "created").
				WithChange(nil, map[string]interface{}{"status": "pending"}).
				WithDescription("voucher PCV-2508-0001 created")

			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

			logs, err := repo.List("", 0, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].EntityType).To(Equal("voucher"))
			Expect(logs[0].EntityID).To(Equal(int64(7)))
			Expect(logs[0].Action).To(Equal("created"))
			Expect(logs[0].OldValue).To(BeNil())
			Expect(logs[0].NewValue).ToNot(BeNil())
			Expect(*logs[0].NewValue).To(ContainSubstring("pending"))
		})
	})

	Describe("List", func() {
		seed := func(entityType string, entityID int64, occurred time.Time) {
			Expect(repo.Create(&audit.AuditLog{
				EventID:    "evt",
				EventType:  events.TypeVoucherStatusChanged,
				EntityType: entityType,
				EntityID:   entityID,
				Action:     "updated",
				UserID:     1,
				OccurredAt: occurred,
			})).NotTo(HaveOccurred())
		}

		It("filters by entity type and id", func() {
			now := time.Now()
			seed("voucher", 1, now)
			seed("voucher", 2, now)
			seed("fund", 1, now)

			logs, err := repo.List("voucher", 1, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))

			logs, err = repo.List("voucher", 0, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))

			logs, err = repo.List("", 0, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(3))
		})

		It("returns newest entries first", func() {
			now := time.Now()
			seed("voucher", 1, now.Add(-2*time.Hour))
			seed("voucher", 2, now)

			logs, err := repo.List("", 0, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs[0].EntityID).To(Equal(int64(2)))
		})
	})

	Describe("DeleteOlderThan", func() {
		It("removes only rows past the cutoff", func() {
			now := time.Now()
			old := &audit.AuditLog{
				EventID: "old", EventType: events.TypeFundCreated,
				EntityType: "fund", EntityID: 1, Action: "created", UserID: 1,
				OccurredAt: now.AddDate(-2, 0, 0),
			}
			recent := &audit.AuditLog{
				EventID: "recent", EventType: events.TypeFundCreated,
				EntityType: "fund", EntityID: 1, Action: "created", UserID: 1,
				OccurredAt: now,
			}
			Expect(repo.Create(old)).NotTo(HaveOccurred())
			Expect(repo.Create(recent)).NotTo(HaveOccurred())

			deleted, err := repo.DeleteOlderThan(now.AddDate(-1, 0, 0))

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(1)))

			logs, err := repo.List("", 0, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].EventID).To(Equal("recent"))
		})
	})
})
