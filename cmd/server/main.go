package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // APP_TIMEZONE in minimal containers

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pip-tracker/pip-backend/internal/api"
	"github.com/pip-tracker/pip-backend/internal/app"
	"github.com/pip-tracker/pip-backend/internal/config"
	"github.com/pip-tracker/pip-backend/internal/logger"
	"github.com/pip-tracker/pip-backend/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logr := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(logr)

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Open database connection and build services
	a, err := app.Open(context.Background(), cfg, logr)
	if err != nil {
		logr.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer a.Close()

	logr.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(logr, cfg.Location())
		if err := sched.AddJob(cfg.Scheduler.PriceRefreshSchedule, scheduler.NewPriceRefreshJob(a.Services.Price, logr)); err != nil {
			logr.Fatal().Err(err).Msg("Failed to schedule price refresh")
		}
		if err := sched.AddJob(cfg.Scheduler.PositionReconcileSchedule, scheduler.NewPositionReconcileJob(a.Services.Position, logr)); err != nil {
			logr.Fatal().Err(err).Msg("Failed to schedule position reconcile")
		}
		sched.Start()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(a.Services, cfg, logr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logr.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info().Msg("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logr.Info().Msg("Server exited")
}
