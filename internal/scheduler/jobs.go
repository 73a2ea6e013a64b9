package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// PriceRefresher fetches the latest prices of all instruments.
type PriceRefresher interface {
	RefreshLatestPrices(ctx context.Context) (model.PriceRefreshResult, error)
}

// PositionReconciler brings stored position status in line with the trades.
type PositionReconciler interface {
	ReconcilePositionStatus(ctx context.Context) (int, error)
}

// PriceRefreshJob pulls the latest closes from the market data provider.
type PriceRefreshJob struct {
	prices PriceRefresher
	log    zerolog.Logger
}

// NewPriceRefreshJob creates a new price refresh job
func NewPriceRefreshJob(prices PriceRefresher, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		prices: prices,
		log:    log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes prices. A refresh where every instrument failed is an error.
func (j *PriceRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := j.prices.RefreshLatestPrices(ctx)
	if err != nil {
		return err
	}
	if !result.Success && result.TotalErrors > 0 {
		return fmt.Errorf("price refresh failed for all %d instruments", result.TotalErrors)
	}

	j.log.Info().
		Int("updated", result.TotalUpdated).
		Int("errors", result.TotalErrors).
		Msg("Prices refreshed")
	return nil
}

// PositionReconcileJob recomputes stored closed flags and closing dates.
type PositionReconcileJob struct {
	positions PositionReconciler
	log       zerolog.Logger
}

// NewPositionReconcileJob creates a new position reconcile job
func NewPositionReconcileJob(positions PositionReconciler, log zerolog.Logger) *PositionReconcileJob {
	return &PositionReconcileJob{
		positions: positions,
		log:       log.With().Str("job", "position_reconcile").Logger(),
	}
}

// Name returns the job name
func (j *PositionReconcileJob) Name() string {
	return "position_reconcile"
}

// Run executes the reconciliation
func (j *PositionReconcileJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	updated, err := j.positions.ReconcilePositionStatus(ctx)
	if err != nil {
		return err
	}
	if updated > 0 {
		j.log.Info().Int("updated", updated).Msg("Position status reconciled")
	}
	return nil
}
