// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "farmstand/internal/api"
	"farmstand/internal/api/handler"
	"farmstand/internal/config"
	"farmstand/internal/repository"
	"farmstand/internal/repository/postgres"
	"farmstand/internal/service"
	"farmstand/internal/util"
	"farmstand/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	ItemRepository     repository.ItemRepository
	EarningsRepository repository.EarningsRepository
	EntryRepository    repository.EntryRepository

	// Services
	MarketplaceService service.MarketplaceService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	util.InitLogger()
	app.Logger = util.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.EnsureSchema(app.DB); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}
	app.Logger.Info("Database schema ensured.")

	app.ItemRepository = postgres.NewItemRepository(app.DB)
	app.EarningsRepository = postgres.NewEarningsRepository(app.DB)
	app.EntryRepository = postgres.NewEntryRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions so
	// the service owns the transaction boundary without knowing the driver.
	app.MarketplaceService = service.NewMarketplaceService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor for non-transactional reads
		app.ItemRepository,
		app.EarningsRepository,
		app.EntryRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	marketplaceHandler := handler.NewMarketplaceHandler(app.MarketplaceService, app.Logger)
	app.HTTPHandler = router.NewRouter(marketplaceHandler, app.Config.AuthSecret, app.Logger)
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
