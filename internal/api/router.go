package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pip-tracker/pip-backend/internal/api/handlers"
	custommiddleware "github.com/pip-tracker/pip-backend/internal/api/middleware"
	"github.com/pip-tracker/pip-backend/internal/config"
	"github.com/pip-tracker/pip-backend/internal/service"
)

// Services bundles the services the HTTP layer serves.
type Services struct {
	System      *service.SystemService
	Position    *service.PositionService
	Account     *service.AccountService
	Trade       *service.TradeService
	Transaction *service.TransactionService
	Price       *service.PriceService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(svc.Position)
			r.Get("/", positionHandler.Positions)
			r.Get("/totals", positionHandler.Totals)
			r.Get("/report", positionHandler.Report)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", positionHandler.Position)
		})

		accountHandler := handlers.NewAccountHandler(svc.Account)
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accountHandler.Accounts)
			r.Post("/", accountHandler.CreateAccount)
		})
		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", accountHandler.Instruments)
			r.Post("/", accountHandler.CreateInstrument)
		})

		r.Route("/trades", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(svc.Trade)
			r.Get("/", tradeHandler.Trades)
			r.Post("/", tradeHandler.CreateTrade)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.CreateTransaction)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Price)
			r.Get("/latest", priceHandler.LatestPrices)

			// market data ingestion is internal
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/refresh", priceHandler.RefreshPrices)
				r.Post("/history", priceHandler.LoadHistory)
			})
		})
	})

	return r
}
