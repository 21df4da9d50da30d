// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"share-ledger/internal/api/handler"
	"share-ledger/internal/auth"
	"share-ledger/internal/middleware"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	accountHandler *handler.AccountHandler,
	billHandler *handler.BillHandler,
	balanceHandler *handler.BalanceHandler,
	jwtManager *auth.JWTManager,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(middleware.Metrics)

	// Health check and metrics endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes: registration and login
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", accountHandler.Register)
		r.Post("/login", accountHandler.Login)
	})

	// Everything else needs a resolved account
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager, logger))

		r.Route("/bills", func(r chi.Router) {
			r.Post("/", billHandler.CreateBill)
			r.Post("/wizard", billHandler.AdvanceWizard)
			r.Get("/", billHandler.ListBills)
			r.Get("/{billID}", billHandler.GetBill)
			r.Put("/{billID}", billHandler.EditBill)
			r.Delete("/{billID}", billHandler.DeleteBill)
		})

		r.Post("/repayments", billHandler.CreateRepayment)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", billHandler.CreateCategory)
			r.Get("/", billHandler.ListCategories)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accountHandler.ListAccounts)
			r.Get("/{accountID}/balance", accountHandler.GetBalance)
			r.Get("/{accountID}/bills", accountHandler.GetBillHistory)
		})

		r.Get("/balances", balanceHandler.ListBalances)
		r.Get("/balances/settlements", balanceHandler.SuggestSettlements)
		r.Get("/integrity", balanceHandler.CheckIntegrity)
	})

	return r
}
