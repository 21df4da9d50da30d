// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "share-ledger/internal/api"
	"share-ledger/internal/api/handler"
	"share-ledger/internal/auth"
	"share-ledger/internal/config"
	"share-ledger/internal/repository"
	"share-ledger/internal/repository/postgres"
	"share-ledger/internal/service"
	"share-ledger/internal/split"
	"share-ledger/internal/util"
	"share-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository  repository.AccountRepository
	BillRepository     repository.BillRepository
	EntryRepository    repository.EntryRepository
	CategoryRepository repository.CategoryRepository

	// Services
	AccountService service.AccountService
	BillService    service.BillService
	BalanceService service.BalanceService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	app.AccountRepository = postgres.NewAccountRepository(app.DB)
	app.BillRepository = postgres.NewBillRepository(app.DB)
	app.EntryRepository = postgres.NewEntryRepository(app.DB)
	app.CategoryRepository = postgres.NewCategoryRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	jwtManager := auth.NewJWTManager(app.Config.JWTSecret, app.Config.TokenDuration)

	// nil random source: time-seeded cent distribution in production.
	allocator := split.NewAllocator(nil)

	app.AccountService = service.NewAccountService(
		app.DB,
		app.DB,
		app.AccountRepository,
		jwtManager,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.BillService = service.NewBillService(
		app.DB,
		app.DB,
		app.AccountRepository,
		app.BillRepository,
		app.EntryRepository,
		app.CategoryRepository,
		allocator,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.BalanceService = service.NewBalanceService(
		app.DB,
		app.AccountRepository,
		app.BillRepository,
		app.EntryRepository,
	)
	app.Logger.Info("Services initialized.")

	accountHandler := handler.NewAccountHandler(app.AccountService, app.BalanceService, app.BillService, app.Logger)
	billHandler := handler.NewBillHandler(app.BillService, app.Logger)
	balanceHandler := handler.NewBalanceHandler(app.BalanceService, app.Logger)
	app.HTTPHandler = router.NewRouter(accountHandler, billHandler, balanceHandler, jwtManager, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
