package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/account"
	accountPostgres "github.com/danuandrean/pettycash/internal/account/postgres"
	"github.com/danuandrean/pettycash/internal/audit"
	auditPostgres "github.com/danuandrean/pettycash/internal/audit/postgres"
	"github.com/danuandrean/pettycash/internal/auth"
	authPostgres "github.com/danuandrean/pettycash/internal/auth/postgres"
	"github.com/danuandrean/pettycash/internal/budget"
	budgetPostgres "github.com/danuandrean/pettycash/internal/budget/postgres"
	"github.com/danuandrean/pettycash/internal/core/events"
	"github.com/danuandrean/pettycash/internal/fund"
	fundPostgres "github.com/danuandrean/pettycash/internal/fund/postgres"
	"github.com/danuandrean/pettycash/internal/replenishment"
	replenishmentPostgres "github.com/danuandrean/pettycash/internal/replenishment/postgres"
	"github.com/danuandrean/pettycash/internal/transport/rest"
	"github.com/danuandrean/pettycash/internal/user"
	userPostgres "github.com/danuandrean/pettycash/internal/user/postgres"
	"github.com/danuandrean/pettycash/internal/voucher"
	voucherPostgres "github.com/danuandrean/pettycash/internal/voucher/postgres"
	"github.com/danuandrean/pettycash/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that handles the petty cash API.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := "development"
	if cfg.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env, cfg.Logging.Level)
	log := logger.L()

	db, err := openGorm(cfg.Database)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to access sql.DB", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, cfg.Server.AllowedOrigins, buildHandlers(cfg, db, log), log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

// buildHandlers wires repositories, services and handlers. The event bus is
// the single path to the audit trail: every service publishes on it, the
// recorder persists what it hears.
func buildHandlers(cfg *internal.Config, db *gorm.DB, log *slog.Logger) rest.Handlers {
	bus := events.NewEventBus(log)

	auditRepo := auditPostgres.NewAuditRepository(db)
	audit.NewRecorder(auditRepo, log).Register(bus)
	auditService := audit.NewService(auditRepo, cfg.AuditRetention(), log)

	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewAuthRepository(db), tokens, log)
	userService := user.NewService(userPostgres.NewUserRepository(db), bus, cfg.Security.BCryptCost, log)
	fundService := fund.NewService(fundPostgres.NewFundRepository(db), bus, log)
	voucherService := voucher.NewService(voucherPostgres.NewVoucherRepository(db), bus, cfg.VoucherPrefix(), log)
	replenishmentService := replenishment.NewService(replenishmentPostgres.NewReplenishmentRepository(db), bus, log)
	accountService := account.NewService(accountPostgres.NewAccountRepository(db), bus, log)
	budgetService := budget.NewService(budgetPostgres.NewBudgetRepository(db), bus, log)

	return rest.Handlers{
		Auth:          auth.NewHandler(authService),
		User:          user.NewHandler(userService),
		Fund:          fund.NewHandler(fundService),
		Voucher:       voucher.NewHandler(voucherService),
		Replenishment: replenishment.NewHandler(replenishmentService),
		Account:       account.NewHandler(accountService),
		Budget:        budget.NewHandler(budgetService),
		Audit:         audit.NewHandler(auditService),
	}
}

// openGorm opens the GORM connection with error translation enabled so the
// voucher number retry can match gorm.ErrDuplicatedKey across drivers.
func openGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Source), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
