package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danuandrean/pettycash/internal/account"
	"github.com/danuandrean/pettycash/internal/audit"
	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/budget"
	"github.com/danuandrean/pettycash/internal/fund"
	"github.com/danuandrean/pettycash/internal/replenishment"
	"github.com/danuandrean/pettycash/internal/transport/middleware"
	"github.com/danuandrean/pettycash/internal/transport/swagger"
	"github.com/danuandrean/pettycash/internal/user"
	"github.com/danuandrean/pettycash/internal/voucher"
	"github.com/go-chi/chi"
)

// Handlers collects every feature handler the router mounts.
type Handlers struct {
	Auth          *auth.Handler
	User          *user.Handler
	Fund          *fund.Handler
	Voucher       *voucher.Handler
	Replenishment *replenishment.Handler
	Account       *account.Handler
	Budget        *budget.Handler
	Audit         *audit.Handler
}

// RegisterAllRoutes mounts the full API under /api/v1. Role gates follow the
// role model: preparers submit vouchers, approvers decide on them and run
// replenishments, admins administer the fund, accounts, budgets, users and
// the audit trail.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, corsOrigins string, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	approverUp := middleware.RequireRole(auth.RoleApprover, auth.RoleAdmin)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		// Everything below requires a valid token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/fund", func(fr chi.Router) {
				fr.Get("/", h.Fund.GetFund)
				fr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/", h.Fund.CreateFund)
					ar.Patch("/imprest", h.Fund.UpdateImprestAmount)
				})
			})

			pr.Route("/vouchers", func(vr chi.Router) {
				vr.Post("/", h.Voucher.CreateVoucher)
				vr.Get("/", h.Voucher.ListVouchers)
				vr.Get("/{id}", h.Voucher.GetVoucher)

				vr.Group(func(ar chi.Router) {
					ar.Use(approverUp)
					ar.Patch("/{id}/approve", h.Voucher.ApproveVoucher)
					ar.Patch("/{id}/reject", h.Voucher.RejectVoucher)
				})
			})

			pr.Route("/replenishments", func(rr chi.Router) {
				rr.Get("/", h.Replenishment.ListReplenishments)
				rr.Get("/{id}", h.Replenishment.GetReplenishment)
				rr.Group(func(ar chi.Router) {
					ar.Use(approverUp)
					ar.Post("/", h.Replenishment.CreateReplenishment)
				})
			})

			pr.Route("/accounts", func(cr chi.Router) {
				cr.Get("/", h.Account.GetAccounts)
				cr.Get("/{id}", h.Account.GetAccount)
				cr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/", h.Account.CreateAccount)
					ar.Patch("/{id}", h.Account.UpdateAccount)
					ar.Delete("/{id}", h.Account.DeleteAccount)
				})
			})

			pr.Route("/budgets", func(br chi.Router) {
				br.Get("/", h.Budget.ListBudgets)
				br.Get("/status", h.Budget.GetBudgetStatuses)
				br.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/", h.Budget.CreateBudget)
					ar.Patch("/{id}", h.Budget.UpdateBudget)
					ar.Delete("/{id}", h.Budget.DeleteBudget)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(adminOnly)
				ar.Get("/audit-logs", h.Audit.ListLogs)
				ar.Delete("/audit-logs/retention", h.Audit.PurgeExpired)

				ar.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.ListUsers)
					ur.Post("/", h.User.CreateUser)
					ur.Delete("/{id}", h.User.DeactivateUser)
				})
			})
		})
	})
}
