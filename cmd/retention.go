package cmd

import (
	"fmt"
	"log"

	"github.com/danuandrean/pettycash/internal/audit"
	auditPostgres "github.com/danuandrean/pettycash/internal/audit/postgres"
	"github.com/danuandrean/pettycash/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// retentionCmd purges audit logs older than the configured retention
// window. Meant to run from cron; the same sweep is reachable over HTTP
// for admins.
var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Purge audit logs past the retention window",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(postgres.Open(cfg.Database.Source), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}

		service := audit.NewService(auditPostgres.NewAuditRepository(db), cfg.AuditRetention(), logger.L())
		deleted, err := service.PurgeExpired()
		if err != nil {
			log.Fatalf("retention sweep failed: %v", err)
		}

		fmt.Printf("Deleted %d audit log records older than %d days\n", deleted, cfg.Audit.RetentionDays)
	},
}
