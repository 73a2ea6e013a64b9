// Package app wires configuration, storage and services for the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pip-tracker/pip-backend/internal/api"
	"github.com/pip-tracker/pip-backend/internal/config"
	"github.com/pip-tracker/pip-backend/internal/database"
	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/yahoo"
)

// App holds the opened database and the services built on it.
type App struct {
	DB       *sql.DB
	Services api.Services
	Log      zerolog.Logger
}

// Open opens the database at cfg.Database.Path, applies pending migrations
// and builds the services.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if _, err := database.Migrate(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}

	return New(db, cfg, yahoo.NewFinanceClient(cfg.Market.YahooBaseURL), log), nil
}

// New builds the services on an already migrated database.
func New(db *sql.DB, cfg *config.Config, yahooClient yahoo.Client, log zerolog.Logger) *App {
	accountRepo := repository.NewAccountRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	transactionRepo := repository.NewCashTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	return &App{
		DB:  db,
		Log: log,
		Services: api.Services{
			System: service.NewSystemService(db),
			Position: service.NewPositionService(
				accountRepo,
				positionRepo,
				tradeRepo,
				transactionRepo,
				priceRepo,
				cfg.Engine.Workers,
				log,
			),
			Account: service.NewAccountService(
				accountRepo,
				instrumentRepo,
			),
			Trade: service.NewTradeService(
				db,
				accountRepo,
				instrumentRepo,
				positionRepo,
				tradeRepo,
				log,
			),
			Transaction: service.NewTransactionService(
				accountRepo,
				positionRepo,
				transactionRepo,
			),
			Price: service.NewPriceService(
				yahooClient,
				instrumentRepo,
				priceRepo,
				log,
			),
		},
	}
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}
